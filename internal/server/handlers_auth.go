package server

import (
	"log"
	"net/http"
	"net/mail"

	"retroforum/internal/auth"
	"retroforum/internal/database"
	"retroforum/internal/models"

	"github.com/labstack/echo/v4"
)

// validEmail rejects addresses the stdlib parser would "repair", like ones
// carrying a display name.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

type UserBodyRegister struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	Email             string `json:"email"`
	Icq               string `json:"icq"`
	ApplicationReason string `json:"application_reason"`
}

func (s *Server) HandlerRegister(c echo.Context) error {
	resp := make(map[string]any)

	body := new(UserBodyRegister)
	if err := c.Bind(body); err != nil {
		log.Println(err)
		resp["message"] = "An error occured when creating your account."
		return c.JSON(http.StatusBadRequest, resp)
	}

	if body.Username == "" || body.Password == "" {
		resp["message"] = "Username and password are required."
		return c.JSON(http.StatusBadRequest, resp)
	}

	if body.Email != "" && !validEmail(body.Email) {
		resp["message"] = "The format of the email is invalid."
		return c.JSON(http.StatusBadRequest, resp)
	}

	_, err := s.db.GetUserByUsername(c.Request().Context(), body.Username)
	if err == nil {
		resp["message"] = "This username is unavailable."
		return c.JSON(http.StatusConflict, resp)
	}

	hashedPassword, err := auth.HashPassword(body.Password)
	if err != nil {
		log.Println(err)
		resp["message"] = "An error occured when creating your account."
		return c.JSON(http.StatusInternalServerError, resp)
	}

	role := models.RoleMember
	status := models.StatusPending

	// A fresh board has nobody to approve anyone, so the first account
	// becomes the administrator.
	count, err := s.db.GetUserCount(c.Request().Context())
	if err != nil {
		return jsonError(c, err, "An error occured when creating your account.")
	}
	if count == 0 {
		role = models.RoleAdmin
		status = models.StatusApproved
	}

	user := models.User{
		Username:          body.Username,
		PasswordHash:      hashedPassword,
		Email:             body.Email,
		Icq:               body.Icq,
		Role:              role,
		Status:            status,
		ApplicationReason: body.ApplicationReason,
	}

	userID, err := s.db.CreateUser(c.Request().Context(), user)
	if err != nil {
		return jsonError(c, err, "This username is unavailable.")
	}
	user.ID = userID

	if err := s.sessions.Establish(c, userID); err != nil {
		log.Println("error establishing a session after registration:", err)
		resp["message"] = "An error occured when signing you in."
		return c.JSON(http.StatusInternalServerError, resp)
	}

	resp["message"] = "success"
	resp["user"] = user.Safe()

	return c.JSON(http.StatusOK, resp)
}

type UserBodyLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) HandlerLogin(c echo.Context) error {
	resp := make(map[string]any)

	body := new(UserBodyLogin)
	if err := c.Bind(body); err != nil {
		log.Println(err)
		resp["message"] = "Please check your login information and try again."
		return c.JSON(http.StatusBadRequest, resp)
	}

	user, err := s.db.GetUserByUsername(c.Request().Context(), body.Username)
	if err != nil {
		resp["message"] = "Please check your login information and try again."
		return c.JSON(http.StatusUnauthorized, resp)
	}

	match, err := auth.VerifyPassword(body.Password, user.PasswordHash)
	if err != nil || !match {
		resp["message"] = "Please check your login information and try again."
		return c.JSON(http.StatusUnauthorized, resp)
	}

	if err := s.sessions.Establish(c, user.ID); err != nil {
		log.Println("error establishing a session on login:", err)
		resp["message"] = "An error occured when signing you in."
		return c.JSON(http.StatusInternalServerError, resp)
	}

	resp["message"] = "success"
	resp["user"] = user.Safe()

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) HandlerLogout(c echo.Context) error {
	resp := make(map[string]any)

	if err := s.sessions.Destroy(c); err != nil {
		log.Println(err)
		resp["message"] = "An error occured when signing you out."
		return c.JSON(http.StatusInternalServerError, resp)
	}

	resp["message"] = "success"
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) HandlerCurrentUser(c echo.Context) error {
	resp := make(map[string]any)

	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, database.ErrUnauthorized, "Not signed in.")
	}

	resp["user"] = user.Safe()
	return c.JSON(http.StatusOK, resp)
}
