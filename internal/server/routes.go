package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc:  func(origin string) (bool, error) { return true, nil },
		AllowCredentials: true,
	}))
	e.Use(s.ResolveIdentity)

	e.GET("/health", s.healthHandler)
	e.Static("/uploads", s.uploadDir)

	api := e.Group("/api")

	// Auth
	api.POST("/register", s.HandlerRegister)
	api.POST("/login", s.HandlerLogin)
	// No session guard: logging out while already anonymous (or with an
	// expired session row) is a successful no-op.
	api.POST("/logout", s.HandlerLogout)
	api.GET("/user", s.HandlerCurrentUser)

	// Forum
	api.GET("/categories", s.HandlerListCategories)
	api.GET("/categories/:id", s.HandlerGetCategory)
	api.GET("/threads/:id", s.HandlerGetThread)
	api.POST("/threads", s.HandlerCreateThread, s.RequireSession)
	api.DELETE("/threads/:id", s.HandlerDeleteThread, s.RequireSession)
	api.POST("/posts", s.HandlerCreatePost, s.RequireSession)
	api.DELETE("/posts/:id", s.HandlerDeletePost, s.RequireSession)

	// Users
	api.GET("/users", s.HandlerListUsers, s.RequireSession)
	api.GET("/users/:id", s.HandlerGetUserProfile)
	api.PATCH("/users/:id", s.HandlerUpdateProfile, s.RequireSession)
	api.PATCH("/users/:id/admin", s.HandlerAdminUpdateUser, s.RequireSession)

	// Misc
	api.GET("/stats", s.HandlerStats)
	api.POST("/upload", s.HandlerUpload, s.RequireSession)
	api.GET("/notifications", s.HandlerListNotifications, s.RequireSession)
	api.POST("/notifications/read", s.HandlerReadNotifications, s.RequireSession)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
