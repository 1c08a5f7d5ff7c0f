package server

import (
	"net/http"

	"retroforum/internal/models"

	"github.com/labstack/echo/v4"
)

const currentUserKey = "currentUser"

// ResolveIdentity turns a valid session cookie into the request's user. It
// never rejects; guards further down decide what anonymous callers may do.
func (s *Server) ResolveIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := s.sessions.Resolve(c)
		if err != nil {
			return next(c)
		}

		user, err := s.db.GetUser(c.Request().Context(), session.UserID)
		if err != nil {
			return next(c)
		}

		c.Set(currentUserKey, user)
		return next(c)
	}
}

func (s *Server) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := currentUser(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

func currentUser(c echo.Context) (models.User, bool) {
	user, ok := c.Get(currentUserKey).(models.User)
	return user, ok
}

// canPost reports whether the user may create threads or posts. Pending
// users hold valid sessions but cannot write until approved.
func canPost(user models.User) bool {
	if user.IsBanned {
		return false
	}
	return user.Status == models.StatusApproved || user.Role == models.RoleAdmin
}
