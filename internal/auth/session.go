package auth

import (
	"time"

	"retroforum/internal/database"
	"retroforum/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const (
	sessionName   = "session"
	sessionIDKey  = "session_id"
	sessionMaxAge = 86400 * 30
)

// Service manages the browser-facing side of sessions. The session row
// itself lives in the database; only its id travels in the cookie.
type Service interface {
	Establish(c echo.Context, userID int64) error
	Resolve(c echo.Context) (models.Session, error)
	Destroy(c echo.Context) error
}

type service struct {
	store sessions.Store
	db    database.Service
}

func New(store sessions.Store, db database.Service) Service {
	return &service{store: store, db: db}
}

func (s *service) Establish(c echo.Context, userID int64) error {
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionMaxAge * time.Second),
	}
	if err := s.db.CreateSession(c.Request().Context(), session); err != nil {
		return err
	}

	cookie, _ := s.store.Get(c.Request(), sessionName)
	cookie.Values[sessionIDKey] = session.ID
	return cookie.Save(c.Request(), c.Response().Writer)
}

func (s *service) Resolve(c echo.Context) (models.Session, error) {
	cookie, err := s.store.Get(c.Request(), sessionName)
	if err != nil {
		return models.Session{}, database.ErrUnauthorized
	}

	id, ok := cookie.Values[sessionIDKey].(string)
	if !ok || id == "" {
		return models.Session{}, database.ErrUnauthorized
	}

	session, err := s.db.GetSession(c.Request().Context(), id)
	if err != nil {
		return models.Session{}, database.ErrUnauthorized
	}
	return session, nil
}

// Destroy ends the session. It is a no-op for anonymous callers.
func (s *service) Destroy(c echo.Context) error {
	cookie, err := s.store.Get(c.Request(), sessionName)
	if err == nil {
		if id, ok := cookie.Values[sessionIDKey].(string); ok && id != "" {
			if err := s.db.DeleteSession(c.Request().Context(), id); err != nil {
				return err
			}
		}
	}

	cookie.Options.MaxAge = -1
	delete(cookie.Values, sessionIDKey)
	return cookie.Save(c.Request(), c.Response().Writer)
}

type SessionOptions struct {
	CookiesKey string
	MaxAge     int
	HttpOnly   bool
	Secure     bool
}

func NewCookieStore(opts SessionOptions) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(opts.CookiesKey))

	store.MaxAge(opts.MaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = opts.HttpOnly
	store.Options.Secure = opts.Secure

	return store
}
