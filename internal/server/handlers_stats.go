package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) HandlerStats(c echo.Context) error {
	resp := make(map[string]any)

	users, err := s.db.GetUserCount(c.Request().Context())
	if err != nil {
		return jsonError(c, err, "An error occured when fetching the stats.")
	}
	threads, err := s.db.GetThreadCount(c.Request().Context())
	if err != nil {
		return jsonError(c, err, "An error occured when fetching the stats.")
	}

	resp["users"] = users
	resp["threads"] = threads
	return c.JSON(http.StatusOK, resp)
}
