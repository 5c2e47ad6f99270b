package server

import (
	"time"

	"whisperwall/internal/middleware"
	"whisperwall/internal/models"
	"whisperwall/internal/oauth"

	"github.com/gofiber/fiber/v2"
)

const stateTTL = 10 * time.Minute

// GoogleStart redirects the browser to Google's consent page.
func (s *Server) GoogleStart(c *fiber.Ctx) error {
	if s.google == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewValidationError("Google sign-in is not configured"))
	}

	state, err := oauth.NewStateToken([]byte(s.config.SessionSecret), stateTTL)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}
	return c.Redirect(s.google.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback completes the OAuth handshake, resolves the account and
// starts a session.
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	if s.google == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewValidationError("Google sign-in is not configured"))
	}

	if err := oauth.VerifyStateToken([]byte(s.config.SessionSecret), c.Query("state")); err != nil {
		return fail(c, models.NewUnauthorizedError("invalid or expired state parameter"))
	}

	code := c.Query("code")
	if code == "" {
		return fail(c, models.NewValidationError("missing authorization code"))
	}

	accessToken, err := s.google.Exchange(c.UserContext(), code)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "oauth code exchange failed", "error", err)
		return fail(c, models.NewUnauthorizedError("authorization code exchange failed"))
	}

	profile, err := s.google.FetchProfile(c.UserContext(), accessToken)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "oauth profile fetch failed", "error", err)
		return fail(c, models.NewUnauthorizedError("could not fetch provider profile"))
	}

	user, err := s.oauthService.Resolve(c.UserContext(), profile)
	if err != nil {
		return fail(c, err)
	}

	token, err := s.sessions.Issue(c.UserContext(), user.ID, "google")
	if err != nil {
		return fail(c, err)
	}
	s.setSessionCookie(c, token)

	middleware.Logger.InfoContext(c.UserContext(), "user logged in via google", "user_id", user.ID)
	return c.Redirect("/secrets", fiber.StatusFound)
}
