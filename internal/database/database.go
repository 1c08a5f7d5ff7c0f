package database

import (
	"context"
	"errors"
	"os"

	"retroforum/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
)

// Error taxonomy of the data access layer. The HTTP layer is the only place
// these become status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("invalid input")
)

type Service interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (int64, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) error
	ListUsers(ctx context.Context) ([]models.SafeUser, error)
	GetUserCount(ctx context.Context) (int, error)
	GetThreadCount(ctx context.Context) (int, error)

	GetCategories(ctx context.Context) ([]models.CategoryView, error)
	GetCategory(ctx context.Context, id int64) (models.CategoryView, error)
	GetThread(ctx context.Context, id int64) (models.ThreadDetail, error)
	CreateThread(ctx context.Context, thread models.Thread) (int64, error)
	DeleteThread(ctx context.Context, id int64) error
	GetPost(ctx context.Context, id int64) (models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (int64, error)
	DeletePost(ctx context.Context, id int64) error

	GetNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID int64) error

	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id string) (models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	CleanExpiredSessions(ctx context.Context) error

	Migrate(ctx context.Context) error
	SeedCategories(ctx context.Context) error
	Close()
}

type service struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context) (Service, error) {
	pool, err := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}
	return &service{pool: pool}, nil
}

func (s *service) Close() {
	s.pool.Close()
}

const userColumns = `id, username, password_hash, email, icq, role, status, is_banned, bio, avatar_url, banner_url, application_reason, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Icq, &u.Role,
		&u.Status, &u.IsBanned, &u.Bio, &u.AvatarURL, &u.BannerURL, &u.ApplicationReason, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (models.User, error) {
	if id <= 0 {
		return models.User{}, ErrNotFound
	}
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *service) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *service) CreateUser(ctx context.Context, user models.User) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
        INSERT INTO users (username, password_hash, email, icq, role, status, is_banned, bio, avatar_url, banner_url, application_reason)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id`,
		user.Username, user.PasswordHash, user.Email, user.Icq, user.Role, user.Status,
		user.IsBanned, user.Bio, user.AvatarURL, user.BannerURL, user.ApplicationReason,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrConflict
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UserUpdate is a partial user update; nil fields are left untouched.
type UserUpdate struct {
	Icq       *string        `json:"icq"`
	Bio       *string        `json:"bio"`
	AvatarURL *string        `json:"avatar_url"`
	BannerURL *string        `json:"banner_url"`
	Role      *models.Role   `json:"role"`
	Status    *models.Status `json:"status"`
	IsBanned  *bool          `json:"is_banned"`
}

func (s *service) UpdateUser(ctx context.Context, id int64, upd UserUpdate) error {
	if id <= 0 {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `
        UPDATE users SET
            icq        = COALESCE($2, icq),
            bio        = COALESCE($3, bio),
            avatar_url = COALESCE($4, avatar_url),
            banner_url = COALESCE($5, banner_url),
            role       = COALESCE($6, role),
            status     = COALESCE($7, status),
            is_banned  = COALESCE($8, is_banned)
        WHERE id = $1`,
		id, upd.Icq, upd.Bio, upd.AvatarURL, upd.BannerURL, upd.Role, upd.Status, upd.IsBanned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *service) ListUsers(ctx context.Context) ([]models.SafeUser, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.SafeUser{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u.Safe())
	}
	return users, rows.Err()
}

func (s *service) GetUserCount(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (s *service) GetThreadCount(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM threads`).Scan(&count)
	return count, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
