package database

import (
	"testing"

	"retroforum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildThreadViewsReplyCount(t *testing.T) {
	threads := []models.Thread{
		{ID: 1, AuthorID: 10},
		{ID: 2, AuthorID: 10},
		{ID: 3, AuthorID: 10},
	}
	authors := map[int64]models.SafeUser{10: {ID: 10, Username: "alice"}}
	counts := map[int64]int{
		1: 4, // body post + 3 replies
		2: 1, // body post only
		// thread 3 has no post rows at all
	}

	views := buildThreadViews(threads, authors, counts)
	require.Len(t, views, 3)
	assert.Equal(t, 3, views[0].ReplyCount)
	assert.Equal(t, 0, views[1].ReplyCount)
	assert.Equal(t, 0, views[2].ReplyCount, "reply count is floored at zero")
}

func TestBuildThreadViewsGhostAuthor(t *testing.T) {
	threads := []models.Thread{{ID: 1, AuthorID: 99}}

	views := buildThreadViews(threads, map[int64]models.SafeUser{}, map[int64]int{})
	require.Len(t, views, 1)
	assert.Equal(t, models.GhostUser(), views[0].Author)
}

func TestBuildThreadViewsPreservesOrder(t *testing.T) {
	threads := []models.Thread{{ID: 5}, {ID: 2}, {ID: 9}}

	views := buildThreadViews(threads, nil, nil)
	require.Len(t, views, 3)
	assert.Equal(t, int64(5), views[0].ID)
	assert.Equal(t, int64(2), views[1].ID)
	assert.Equal(t, int64(9), views[2].ID)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, dedupe([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, dedupe(nil))
}
