package database

import (
	"context"
	"errors"

	"retroforum/internal/models"

	"github.com/jackc/pgx/v5"
)

const threadColumns = `id, title, content, category_id, author_id, created_at`
const postColumns = `id, content, thread_id, author_id, file_url, created_at`

// recentThreadsPerCategory caps the thread slice attached to each category
// on the front page. GetCategory returns the full list.
const recentThreadsPerCategory = 5

func scanThread(row pgx.Row) (models.Thread, error) {
	var t models.Thread
	err := row.Scan(&t.ID, &t.Title, &t.Content, &t.CategoryID, &t.AuthorID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Thread{}, ErrNotFound
	}
	if err != nil {
		return models.Thread{}, err
	}
	return t, nil
}

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Content, &p.ThreadID, &p.AuthorID, &p.FileURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (s *service) GetCategories(ctx context.Context) ([]models.CategoryView, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description, position FROM categories ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []models.CategoryView{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Position); err != nil {
			return nil, err
		}
		views = append(views, models.CategoryView{Category: c, Threads: []models.ThreadView{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One query for the newest threads of every category at once.
	threadRows, err := s.pool.Query(ctx, `
        SELECT `+threadColumns+` FROM (
            SELECT t.*, ROW_NUMBER() OVER (PARTITION BY category_id ORDER BY created_at DESC, id DESC) AS rn
            FROM threads t
        ) ranked
        WHERE rn <= $1
        ORDER BY category_id ASC, rn ASC`, recentThreadsPerCategory)
	if err != nil {
		return nil, err
	}
	defer threadRows.Close()

	byCategory := make(map[int64][]models.Thread)
	var all []models.Thread
	for threadRows.Next() {
		t, err := scanThread(threadRows)
		if err != nil {
			return nil, err
		}
		byCategory[t.CategoryID] = append(byCategory[t.CategoryID], t)
		all = append(all, t)
	}
	if err := threadRows.Err(); err != nil {
		return nil, err
	}

	authors, err := s.getSafeAuthors(ctx, authorIDs(all))
	if err != nil {
		return nil, err
	}
	counts, err := s.getPostCounts(ctx, threadIDs(all))
	if err != nil {
		return nil, err
	}

	for i := range views {
		views[i].Threads = buildThreadViews(byCategory[views[i].ID], authors, counts)
	}
	return views, nil
}

func (s *service) GetCategory(ctx context.Context, id int64) (models.CategoryView, error) {
	if id <= 0 {
		return models.CategoryView{}, ErrNotFound
	}

	var c models.Category
	err := s.pool.QueryRow(ctx, `SELECT id, name, description, position FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CategoryView{}, ErrNotFound
	}
	if err != nil {
		return models.CategoryView{}, err
	}

	rows, err := s.pool.Query(ctx, `
        SELECT `+threadColumns+` FROM threads
        WHERE category_id = $1
        ORDER BY created_at DESC, id DESC`, id)
	if err != nil {
		return models.CategoryView{}, err
	}
	defer rows.Close()

	var threads []models.Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return models.CategoryView{}, err
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return models.CategoryView{}, err
	}

	authors, err := s.getSafeAuthors(ctx, authorIDs(threads))
	if err != nil {
		return models.CategoryView{}, err
	}
	counts, err := s.getPostCounts(ctx, threadIDs(threads))
	if err != nil {
		return models.CategoryView{}, err
	}

	return models.CategoryView{Category: c, Threads: buildThreadViews(threads, authors, counts)}, nil
}

func (s *service) GetThread(ctx context.Context, id int64) (models.ThreadDetail, error) {
	if id <= 0 {
		return models.ThreadDetail{}, ErrNotFound
	}

	thread, err := scanThread(s.pool.QueryRow(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = $1`, id))
	if err != nil {
		return models.ThreadDetail{}, err
	}

	var c models.Category
	err = s.pool.QueryRow(ctx, `SELECT id, name, description, position FROM categories WHERE id = $1`, thread.CategoryID).
		Scan(&c.ID, &c.Name, &c.Description, &c.Position)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return models.ThreadDetail{}, err
	}

	rows, err := s.pool.Query(ctx, `
        SELECT `+postColumns+` FROM posts
        WHERE thread_id = $1
        ORDER BY created_at ASC, id ASC`, id)
	if err != nil {
		return models.ThreadDetail{}, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return models.ThreadDetail{}, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return models.ThreadDetail{}, err
	}

	ids := []int64{thread.AuthorID}
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	authors, err := s.getSafeAuthors(ctx, ids)
	if err != nil {
		return models.ThreadDetail{}, err
	}

	detail := models.ThreadDetail{
		Thread:   thread,
		Author:   authorOrGhost(authors, thread.AuthorID),
		Category: c,
		Posts:    make([]models.PostView, 0, len(posts)),
	}
	for _, p := range posts {
		detail.Posts = append(detail.Posts, models.PostView{Post: p, Author: authorOrGhost(authors, p.AuthorID)})
	}
	return detail, nil
}

// CreateThread inserts the thread and its body post in one transaction, so
// a thread never exists without the post row that represents its content.
func (s *service) CreateThread(ctx context.Context, thread models.Thread) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, thread.CategoryID).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrNotFound
	}

	var id int64
	err = tx.QueryRow(ctx, `
        INSERT INTO threads (title, content, category_id, author_id)
        VALUES ($1, $2, $3, $4) RETURNING id`,
		thread.Title, thread.Content, thread.CategoryID, thread.AuthorID).Scan(&id)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO posts (content, thread_id, author_id, file_url)
        VALUES ($1, $2, $3, '')`,
		thread.Content, id, thread.AuthorID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteThread removes the thread, its posts and its notifications in one
// transaction. The cascade is explicit; the schema does not do it for us.
func (s *service) DeleteThread(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM notifications WHERE thread_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE thread_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *service) GetPost(ctx context.Context, id int64) (models.Post, error) {
	if id <= 0 {
		return models.Post{}, ErrNotFound
	}
	return scanPost(s.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

// CreatePost writes the post and, when the thread belongs to someone else,
// a notification for the thread author in the same transaction.
func (s *service) CreatePost(ctx context.Context, post models.Post) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var threadAuthor int64
	err = tx.QueryRow(ctx, `SELECT author_id FROM threads WHERE id = $1`, post.ThreadID).Scan(&threadAuthor)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRow(ctx, `
        INSERT INTO posts (content, thread_id, author_id, file_url)
        VALUES ($1, $2, $3, $4) RETURNING id`,
		post.Content, post.ThreadID, post.AuthorID, post.FileURL).Scan(&id)
	if err != nil {
		return 0, err
	}

	if threadAuthor != post.AuthorID {
		_, err = tx.Exec(ctx, `
            INSERT INTO notifications (user_id, from_user_id, thread_id, is_read)
            VALUES ($1, $2, $3, false)`,
			threadAuthor, post.AuthorID, post.ThreadID)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *service) DeletePost(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *service) GetNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, user_id, from_user_id, thread_id, is_read, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifs := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.FromUserID, &n.ThreadID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func (s *service) MarkNotificationsRead(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE notifications SET is_read = true WHERE user_id = $1`, userID)
	return err
}

// getSafeAuthors fetches the given user ids in one batched query and returns
// them as safe projections keyed by id.
func (s *service) getSafeAuthors(ctx context.Context, ids []int64) (map[int64]models.SafeUser, error) {
	authors := make(map[int64]models.SafeUser)
	if len(ids) == 0 {
		return authors, nil
	}

	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, dedupe(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		authors[u.ID] = u.Safe()
	}
	return authors, rows.Err()
}

// getPostCounts returns the post count per thread for the given thread ids
// in one batched query.
func (s *service) getPostCounts(ctx context.Context, ids []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(ids) == 0 {
		return counts, nil
	}

	rows, err := s.pool.Query(ctx, `
        SELECT thread_id, COUNT(*) FROM posts
        WHERE thread_id = ANY($1)
        GROUP BY thread_id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var threadID int64
		var count int
		if err := rows.Scan(&threadID, &count); err != nil {
			return nil, err
		}
		counts[threadID] = count
	}
	return counts, rows.Err()
}

func authorIDs(threads []models.Thread) []int64 {
	ids := make([]int64, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.AuthorID)
	}
	return ids
}

func threadIDs(threads []models.Thread) []int64 {
	ids := make([]int64, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.ID)
	}
	return ids
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
