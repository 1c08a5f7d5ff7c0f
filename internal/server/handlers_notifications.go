package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) HandlerListNotifications(c echo.Context) error {
	resp := make(map[string]any)

	user, _ := currentUser(c)

	notifications, err := s.db.GetNotifications(c.Request().Context(), user.ID)
	if err != nil {
		return jsonError(c, err, "An error occured when fetching your notifications.")
	}

	resp["notifications"] = notifications
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) HandlerReadNotifications(c echo.Context) error {
	resp := make(map[string]any)

	user, _ := currentUser(c)

	if err := s.db.MarkNotificationsRead(c.Request().Context(), user.ID); err != nil {
		return jsonError(c, err, "An error occured when updating your notifications.")
	}

	resp["message"] = "success"
	return c.JSON(http.StatusOK, resp)
}
