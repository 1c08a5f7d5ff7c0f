package server

import (
	"net/http"

	"retroforum/internal/database"
	"retroforum/internal/models"

	"github.com/labstack/echo/v4"
)

type PostBodyCreate struct {
	ThreadID int64  `json:"thread_id"`
	Content  string `json:"content"`
	FileURL  string `json:"file_url"`
}

func (s *Server) HandlerCreatePost(c echo.Context) error {
	resp := make(map[string]any)

	user, _ := currentUser(c)
	if !canPost(user) {
		return jsonError(c, database.ErrForbidden, "Your account cannot post yet.")
	}

	body := new(PostBodyCreate)
	if err := c.Bind(body); err != nil {
		return jsonError(c, database.ErrValidation, "An error occured when creating the post.")
	}
	if body.Content == "" || body.ThreadID <= 0 {
		return jsonError(c, database.ErrValidation, "Content and thread are required.")
	}

	id, err := s.db.CreatePost(c.Request().Context(), models.Post{
		Content:  body.Content,
		ThreadID: body.ThreadID,
		AuthorID: user.ID,
		FileURL:  body.FileURL,
	})
	if err != nil {
		return jsonError(c, err, "Thread not found.")
	}

	post, err := s.db.GetPost(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "An error occured when creating the post.")
	}

	resp["message"] = "success"
	resp["post"] = models.PostView{Post: post, Author: user.Safe()}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) HandlerDeletePost(c echo.Context) error {
	resp := make(map[string]any)

	id, err := idParam(c)
	if err != nil {
		return jsonError(c, err, "Post not found.")
	}

	post, err := s.db.GetPost(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "Post not found.")
	}

	user, _ := currentUser(c)
	if post.AuthorID != user.ID && !models.CanModerate(user.Role) {
		return jsonError(c, database.ErrForbidden, "You cannot delete this post.")
	}

	if err := s.db.DeletePost(c.Request().Context(), id); err != nil {
		return jsonError(c, err, "Post not found.")
	}

	resp["message"] = "success"
	return c.JSON(http.StatusOK, resp)
}
