package database

import "context"

// Migrate creates the schema. Statements are idempotent so it is safe to run
// on every start.
func (s *service) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            icq TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL DEFAULT 'MEMBER',
            status TEXT NOT NULL DEFAULT 'PENDING',
            is_banned BOOLEAN NOT NULL DEFAULT false,
            bio TEXT NOT NULL DEFAULT '',
            avatar_url TEXT NOT NULL DEFAULT '',
            banner_url TEXT NOT NULL DEFAULT '',
            application_reason TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS categories (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            position INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS threads (
            id BIGSERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            content TEXT NOT NULL,
            category_id BIGINT NOT NULL,
            author_id BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS posts (
            id BIGSERIAL PRIMARY KEY,
            content TEXT NOT NULL,
            thread_id BIGINT NOT NULL,
            author_id BIGINT NOT NULL,
            file_url TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS notifications (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            from_user_id BIGINT NOT NULL,
            thread_id BIGINT NOT NULL,
            is_read BOOLEAN NOT NULL DEFAULT false,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS sessions (
            id UUID PRIMARY KEY,
            user_id BIGINT NOT NULL,
            expires_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_threads_category ON threads (category_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_thread ON posts (thread_id, created_at ASC)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// SeedCategories inserts the fixed category set on a fresh database. It does
// nothing when any category already exists.
func (s *service) SeedCategories(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []struct {
		name        string
		description string
	}{
		{"General Discussion", "Anything and everything"},
		{"Introductions", "Say hello and tell us who you are"},
		{"Nostalgia Corner", "The old web, old software, old times"},
		{"Tech Talk", "Hardware, software and everything in between"},
		{"Off-Topic", "The rest"},
	}
	for i, c := range seed {
		_, err := s.pool.Exec(ctx, `INSERT INTO categories (name, description, position) VALUES ($1, $2, $3)`,
			c.name, c.description, i+1)
		if err != nil {
			return err
		}
	}
	return nil
}
