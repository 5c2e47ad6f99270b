package server

import (
	"time"

	"whisperwall/internal/middleware"
	"whisperwall/internal/models"
	"whisperwall/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest represents the local signup payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the local login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.sessions.TTL()),
		HTTPOnly: true,
		Secure:   s.config.Env == "production" || s.config.Env == "prod",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Register creates a local password account.
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("invalid request body"))
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		return fail(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return fail(c, models.NewValidationError(err.Error()))
	}

	user, err := s.authService.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login authenticates local credentials and starts a session.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("invalid request body"))
	}

	user, err := s.authService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := s.sessions.Issue(c.UserContext(), user.ID, "password")
	if err != nil {
		return fail(c, err)
	}
	s.setSessionCookie(c, token)

	middleware.Logger.InfoContext(c.UserContext(), "user logged in", "user_id", user.ID)
	return c.Status(fiber.StatusOK).JSON(user)
}

// Logout revokes the current session. Logging out without a session succeeds.
func (s *Server) Logout(c *fiber.Ctx) error {
	token := c.Cookies(middleware.SessionCookie)
	if err := s.sessions.Revoke(c.UserContext(), token); err != nil {
		return fail(c, err)
	}
	s.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// CurrentUser returns the account attached to the session.
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return c.Status(fiber.StatusOK).JSON(user)
}
