package database

import (
	"context"
	"errors"
	"time"

	"retroforum/internal/models"

	"github.com/jackc/pgx/v5"
)

func (s *service) CreateSession(ctx context.Context, session models.Session) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO sessions (id, user_id, expires_at)
        VALUES ($1, $2, $3)`,
		session.ID, session.UserID, session.ExpiresAt)
	return err
}

func (s *service) GetSession(ctx context.Context, id string) (models.Session, error) {
	var session models.Session
	err := s.pool.QueryRow(ctx, `
        SELECT id, user_id, expires_at FROM sessions
        WHERE id = $1 AND expires_at > now()`, id).
		Scan(&session.ID, &session.UserID, &session.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *service) DeleteSession(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (s *service) CleanExpiredSessions(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now())
	return err
}
