package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"retroforum/internal/database"

	"github.com/labstack/echo/v4"
)

// jsonError is the single place store error kinds become HTTP statuses.
// Unexpected errors are logged here and surfaced as an opaque 500.
func jsonError(c echo.Context, err error, message string) error {
	resp := map[string]any{"message": message}

	switch {
	case errors.Is(err, database.ErrNotFound):
		return c.JSON(http.StatusNotFound, resp)
	case errors.Is(err, database.ErrConflict):
		return c.JSON(http.StatusConflict, resp)
	case errors.Is(err, database.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, resp)
	case errors.Is(err, database.ErrForbidden):
		return c.JSON(http.StatusForbidden, resp)
	case errors.Is(err, database.ErrValidation):
		return c.JSON(http.StatusBadRequest, resp)
	default:
		log.Println(err)
		resp["message"] = "An unexpected error occured."
		return c.JSON(http.StatusInternalServerError, resp)
	}
}

// idParam parses the :id path segment. Anything non-numeric is treated as a
// missing row, not a malformed request.
func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, database.ErrNotFound
	}
	return id, nil
}
