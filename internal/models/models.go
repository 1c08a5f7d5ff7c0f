package models

import "time"

type Role string

const (
	RoleMember    Role = "MEMBER"
	RoleOldgen    Role = "OLDGEN"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// CanModerate reports whether the role may delete other users' content
// and change roles or ban states.
func CanModerate(r Role) bool {
	return r == RoleModerator || r == RoleAdmin
}

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleOldgen, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
)

type User struct {
	ID                int64     `json:"id"`
	Username          string    `json:"username"`
	PasswordHash      string    `json:"-"`
	Email             string    `json:"email"`
	Icq               string    `json:"icq,omitempty"`
	Role              Role      `json:"role"`
	Status            Status    `json:"status"`
	IsBanned          bool      `json:"is_banned"`
	Bio               string    `json:"bio"`
	AvatarURL         string    `json:"avatar_url"`
	BannerURL         string    `json:"banner_url"`
	ApplicationReason string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}

// SafeUser is the only user shape that may leave the data access layer on
// read paths. It has no password field at all, so a hash cannot leak through
// serialization by accident.
type SafeUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Icq       string    `json:"icq,omitempty"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	IsBanned  bool      `json:"is_banned"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	BannerURL string    `json:"banner_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Username:  u.Username,
		Icq:       u.Icq,
		Role:      u.Role,
		Status:    u.Status,
		IsBanned:  u.IsBanned,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		BannerURL: u.BannerURL,
		CreatedAt: u.CreatedAt,
	}
}

// GhostUser stands in for an author whose user row no longer resolves.
func GhostUser() SafeUser {
	return SafeUser{
		ID:       0,
		Username: "Ghost",
		Role:     RoleMember,
		Status:   StatusApproved,
	}
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type Thread struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID int64     `json:"category_id"`
	AuthorID   int64     `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Post struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	ThreadID  int64     `json:"thread_id"`
	AuthorID  int64     `json:"author_id"`
	FileURL   string    `json:"file_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadView is a thread enriched with its author and reply count.
type ThreadView struct {
	Thread
	Author     SafeUser `json:"author"`
	ReplyCount int      `json:"reply_count"`
}

type PostView struct {
	Post
	Author SafeUser `json:"author"`
}

// CategoryView is a category with its (possibly truncated) thread list.
type CategoryView struct {
	Category
	Threads []ThreadView `json:"threads"`
}

// ThreadDetail is the full thread page: the thread, its author, its parent
// category and every post in oldest-first order.
type ThreadDetail struct {
	Thread
	Author   SafeUser   `json:"author"`
	Category Category   `json:"category"`
	Posts    []PostView `json:"posts"`
}

type Notification struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	FromUserID int64     `json:"from_user_id"`
	ThreadID   int64     `json:"thread_id"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
