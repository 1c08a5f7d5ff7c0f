package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) HandlerListCategories(c echo.Context) error {
	resp := make(map[string]any)

	categories, err := s.db.GetCategories(c.Request().Context())
	if err != nil {
		return jsonError(c, err, "An error occured when fetching the categories.")
	}

	resp["categories"] = categories
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) HandlerGetCategory(c echo.Context) error {
	resp := make(map[string]any)

	id, err := idParam(c)
	if err != nil {
		return jsonError(c, err, "Category not found.")
	}

	category, err := s.db.GetCategory(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "Category not found.")
	}

	resp["category"] = category
	return c.JSON(http.StatusOK, resp)
}
