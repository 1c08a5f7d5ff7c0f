package database

import (
	"context"
	"os"
	"testing"

	"retroforum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the database named by DATABASE_URL and resets it.
// Tests that need a live store are skipped when none is configured.
func setupTestDB(t *testing.T) *service {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database tests in short mode")
	}
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := New(ctx)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	svc := db.(*service)
	require.NoError(t, svc.Migrate(ctx))
	_, err = svc.pool.Exec(ctx, `TRUNCATE users, categories, threads, posts, notifications, sessions RESTART IDENTITY`)
	require.NoError(t, err)
	require.NoError(t, svc.SeedCategories(ctx))
	return svc
}

func createTestUser(t *testing.T, svc *service, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "deadbeef.cafebabe",
		Role:         models.RoleMember,
		Status:       models.StatusApproved,
	}
	id, err := svc.CreateUser(context.Background(), user)
	require.NoError(t, err)
	user.ID = id
	return user
}

func TestCreateUserConflict(t *testing.T) {
	svc := setupTestDB(t)
	ctx := context.Background()

	createTestUser(t, svc, "alice")
	_, err := svc.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "x.y"})
	assert.ErrorIs(t, err, ErrConflict)

	count, err := svc.GetUserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "the conflicting insert must not create a row")
}

func TestGetUserInvalidID(t *testing.T) {
	svc := setupTestDB(t)
	ctx := context.Background()

	_, err := svc.GetUser(ctx, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetUser(ctx, -5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedCategoriesIdempotent(t *testing.T) {
	svc := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedCategories(ctx))

	views, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, views, 5, "reseeding a non-empty table adds nothing")
}

func TestGetCategoriesOrderingAndWindow(t *testing.T) {
	svc := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, svc, "alice")

	var threadIDs []int64
	for i := 0; i < 7; i++ {
		id, err := svc.CreateThread(ctx, models.Thread{
			Title:      "thread",
			Content:    "body",
			CategoryID: 1,
			AuthorID:   user.ID,
		})
		require.NoError(t, err)
		threadIDs = append(threadIDs, id)
	}

	views, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, views, 5)

	for i := 1; i < len(views); i++ {
		assert.Greater(t, views[i].Position, views[i-1].Position, "categories come back in position order")
	}

	first := views[0]
	require.Equal(t, int64(1), first.ID)
	require.Len(t, first.Threads, 5, "the front page caps each category at five threads")
	assert.Equal(t, threadIDs[6], first.Threads[0].ID, "newest thread first")
	for i := 1; i < len(first.Threads); i++ {
		assert.Less(t, first.Threads[i].ID, first.Threads[i-1].ID)
	}
	for _, tv := range first.Threads {
		assert.Equal(t, "alice", tv.Author.Username)
	}

	full, err := svc.GetCategory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, full.Threads, 7, "the category page is not capped")
	assert.Equal(t, threadIDs[6], full.Threads[0].ID)
	assert.Equal(t, threadIDs[0], full.Threads[6].ID)
}

func TestCreateThreadRoundTrip(t *testing.T) {
	svc := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, svc, "alice")

	id, err := svc.CreateThread(ctx, models.Thread{Title: "T", Content: "C", CategoryID: 1, AuthorID: user.ID})
	require.NoError(t, err)

	detail, err := svc.GetThread(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "T", detail.Title)
	assert.Equal(t, "C", detail.Content)
	assert.Equal(t, "alice", detail.Author.Username)
	assert.Equal(t, int64(1), detail.Category.ID)
	require.Len(t, detail.Posts, 1, "the thread body is its only post")
	assert.Equal(t, "C", detail.Posts[0].Content)

	views, err := svc.GetCategory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views.Threads, 1)
	assert.Equal(t, 0, views.Threads[0].ReplyCount)
}

func TestCreateThreadUnknownCategory(t *testing.T) {
	svc := setupTestDB(t)
	user := createTestUser(t, svc, "alice")

	_, err := svc.CreateThread(context.Background(), models.Thread{Title: "T", Content: "C", CategoryID: 999, AuthorID: user.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetThreadPostsOldestFirst(t *testing.T) {
	svc := setupTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, svc, "alice")
	bob := createTestUser(t, svc, "bob")

	threadID, err := svc.CreateThread(ctx, models.Thread{Title: "T", Content: "body", CategoryID: 1, AuthorID: alice.ID})
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, models.Post{Content: "first reply", ThreadID: threadID, AuthorID: bob.ID})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, models.Post{Content: "second reply", ThreadID: threadID, AuthorID: alice.ID})
	require.NoError(t, err)

	detail, err := svc.GetThread(ctx, threadID)
	require.NoError(t, err)
	require.Len(t, detail.Posts, 3)
	assert.Equal(t, "body", detail.Posts[0].Content)
	assert.Equal(t, "first reply", detail.Posts[1].Content)
	assert.Equal(t, "second reply", detail.Posts[2].Content)
	assert.Equal(t, "bob", detail.Posts[1].Author.Username)

	category, err := svc.GetCategory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, category.Threads, 1)
	assert.Equal(t, 2, category.Threads[0].ReplyCount, "the body post is not a reply")
}

func TestDeleteThreadCascades(t *testing.T) {
	svc := setupTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, svc, "alice")
	bob := createTestUser(t, svc, "bob")

	threadID, err := svc.CreateThread(ctx, models.Thread{Title: "T", Content: "body", CategoryID: 1, AuthorID: alice.ID})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, models.Post{Content: "reply", ThreadID: threadID, AuthorID: bob.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteThread(ctx, threadID))

	_, err = svc.GetThread(ctx, threadID)
	assert.ErrorIs(t, err, ErrNotFound)

	var orphans int
	require.NoError(t, svc.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE thread_id = $1`, threadID).Scan(&orphans))
	assert.Zero(t, orphans, "no post rows may survive their thread")

	require.NoError(t, svc.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE thread_id = $1`, threadID).Scan(&orphans))
	assert.Zero(t, orphans, "no notification rows may survive their thread")

	assert.ErrorIs(t, svc.DeleteThread(ctx, threadID), ErrNotFound)
}

func TestCreatePostNotifiesThreadAuthor(t *testing.T) {
	svc := setupTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, svc, "alice")
	bob := createTestUser(t, svc, "bob")

	threadID, err := svc.CreateThread(ctx, models.Thread{Title: "T", Content: "body", CategoryID: 1, AuthorID: alice.ID})
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, models.Post{Content: "reply", ThreadID: threadID, AuthorID: bob.ID})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, models.Post{Content: "self reply", ThreadID: threadID, AuthorID: alice.ID})
	require.NoError(t, err)

	notifs, err := svc.GetNotifications(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1, "replying to your own thread does not notify you")
	assert.Equal(t, bob.ID, notifs[0].FromUserID)
	assert.Equal(t, threadID, notifs[0].ThreadID)
	assert.False(t, notifs[0].IsRead)

	require.NoError(t, svc.MarkNotificationsRead(ctx, alice.ID))
	notifs, err = svc.GetNotifications(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.True(t, notifs[0].IsRead)
}
