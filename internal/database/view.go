package database

import "retroforum/internal/models"

// buildThreadViews attaches safe authors and reply counts to raw thread rows.
// A thread's first post is its own body, so the reply count is the post count
// minus one, floored at zero. Unresolvable authors become the ghost user.
func buildThreadViews(threads []models.Thread, authors map[int64]models.SafeUser, postCounts map[int64]int) []models.ThreadView {
	views := make([]models.ThreadView, 0, len(threads))
	for _, t := range threads {
		replies := postCounts[t.ID] - 1
		if replies < 0 {
			replies = 0
		}
		views = append(views, models.ThreadView{
			Thread:     t,
			Author:     authorOrGhost(authors, t.AuthorID),
			ReplyCount: replies,
		})
	}
	return views
}

func authorOrGhost(authors map[int64]models.SafeUser, id int64) models.SafeUser {
	if author, ok := authors[id]; ok {
		return author
	}
	return models.GhostUser()
}
