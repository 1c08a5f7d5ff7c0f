package server

import (
	"net/http"

	"retroforum/internal/database"
	"retroforum/internal/models"

	"github.com/labstack/echo/v4"
)

func (s *Server) HandlerListUsers(c echo.Context) error {
	resp := make(map[string]any)

	users, err := s.db.ListUsers(c.Request().Context())
	if err != nil {
		return jsonError(c, err, "An error occured when fetching the users.")
	}

	resp["users"] = users
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) HandlerGetUserProfile(c echo.Context) error {
	resp := make(map[string]any)

	id, err := idParam(c)
	if err != nil {
		return jsonError(c, err, "User not found.")
	}

	user, err := s.db.GetUser(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "User not found.")
	}

	resp["user"] = user.Safe()
	return c.JSON(http.StatusOK, resp)
}

type ProfileBodyUpdate struct {
	Icq       *string `json:"icq"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	BannerURL *string `json:"banner_url"`
}

func (s *Server) HandlerUpdateProfile(c echo.Context) error {
	resp := make(map[string]any)

	id, err := idParam(c)
	if err != nil {
		return jsonError(c, err, "User not found.")
	}

	user, _ := currentUser(c)
	if user.ID != id {
		return jsonError(c, database.ErrForbidden, "You can only edit your own profile.")
	}

	body := new(ProfileBodyUpdate)
	if err := c.Bind(body); err != nil {
		return jsonError(c, database.ErrValidation, "An error occured when updating your profile.")
	}

	upd := database.UserUpdate{
		Icq:       body.Icq,
		Bio:       body.Bio,
		AvatarURL: body.AvatarURL,
		BannerURL: body.BannerURL,
	}
	if err := s.db.UpdateUser(c.Request().Context(), id, upd); err != nil {
		return jsonError(c, err, "User not found.")
	}

	updated, err := s.db.GetUser(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "User not found.")
	}

	resp["message"] = "success"
	resp["user"] = updated.Safe()
	return c.JSON(http.StatusOK, resp)
}

type AdminBodyUpdate struct {
	Role     *models.Role   `json:"role"`
	Status   *models.Status `json:"status"`
	IsBanned *bool          `json:"is_banned"`
}

func (s *Server) HandlerAdminUpdateUser(c echo.Context) error {
	resp := make(map[string]any)

	actor, _ := currentUser(c)
	if !models.CanModerate(actor.Role) {
		return jsonError(c, database.ErrForbidden, "Moderator access required.")
	}

	id, err := idParam(c)
	if err != nil {
		return jsonError(c, err, "User not found.")
	}

	body := new(AdminBodyUpdate)
	if err := c.Bind(body); err != nil {
		return jsonError(c, database.ErrValidation, "An error occured when updating the user.")
	}

	if body.Role != nil && !body.Role.Valid() {
		return jsonError(c, database.ErrValidation, "Unknown role.")
	}
	if body.Status != nil && *body.Status != models.StatusPending && *body.Status != models.StatusApproved {
		return jsonError(c, database.ErrValidation, "Unknown status.")
	}
	if body.IsBanned != nil && actor.ID == id {
		return jsonError(c, database.ErrForbidden, "You cannot change your own ban state.")
	}

	upd := database.UserUpdate{
		Role:     body.Role,
		Status:   body.Status,
		IsBanned: body.IsBanned,
	}
	if err := s.db.UpdateUser(c.Request().Context(), id, upd); err != nil {
		return jsonError(c, err, "User not found.")
	}

	updated, err := s.db.GetUser(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "User not found.")
	}

	resp["message"] = "success"
	resp["user"] = updated.Safe()
	return c.JSON(http.StatusOK, resp)
}
