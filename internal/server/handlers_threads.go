package server

import (
	"net/http"

	"retroforum/internal/database"
	"retroforum/internal/models"

	"github.com/labstack/echo/v4"
)

func (s *Server) HandlerGetThread(c echo.Context) error {
	resp := make(map[string]any)

	id, err := idParam(c)
	if err != nil {
		return jsonError(c, err, "Thread not found.")
	}

	thread, err := s.db.GetThread(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "Thread not found.")
	}

	resp["thread"] = thread
	return c.JSON(http.StatusOK, resp)
}

type ThreadBodyCreate struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID int64  `json:"category_id"`
}

func (s *Server) HandlerCreateThread(c echo.Context) error {
	resp := make(map[string]any)

	user, _ := currentUser(c)
	if !canPost(user) {
		return jsonError(c, database.ErrForbidden, "Your account cannot post yet.")
	}

	body := new(ThreadBodyCreate)
	if err := c.Bind(body); err != nil {
		return jsonError(c, database.ErrValidation, "An error occured when creating the thread.")
	}
	if body.Title == "" || body.Content == "" || body.CategoryID <= 0 {
		return jsonError(c, database.ErrValidation, "Title, content and category are required.")
	}

	id, err := s.db.CreateThread(c.Request().Context(), models.Thread{
		Title:      body.Title,
		Content:    body.Content,
		CategoryID: body.CategoryID,
		AuthorID:   user.ID,
	})
	if err != nil {
		return jsonError(c, err, "Category not found.")
	}

	thread, err := s.db.GetThread(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "An error occured when creating the thread.")
	}

	resp["message"] = "success"
	resp["thread"] = thread
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) HandlerDeleteThread(c echo.Context) error {
	resp := make(map[string]any)

	id, err := idParam(c)
	if err != nil {
		return jsonError(c, err, "Thread not found.")
	}

	thread, err := s.db.GetThread(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "Thread not found.")
	}

	user, _ := currentUser(c)
	if thread.AuthorID != user.ID && !models.CanModerate(user.Role) {
		return jsonError(c, database.ErrForbidden, "You cannot delete this thread.")
	}

	if err := s.db.DeleteThread(c.Request().Context(), id); err != nil {
		return jsonError(c, err, "Thread not found.")
	}

	resp["message"] = "success"
	return c.JSON(http.StatusOK, resp)
}
