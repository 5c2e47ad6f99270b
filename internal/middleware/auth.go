package middleware

import (
	"context"
	"net/http"

	"whisperwall/internal/models"
	"whisperwall/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "whisperwall_session"

// SessionRequired resolves the session cookie and rejects the request when
// no valid session is present. On success the user is stored in Locals under
// "userID" and "user".
func SessionRequired(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := sessions.Resolve(c.UserContext(), c.Cookies(SessionCookie))
		if err != nil {
			return models.RespondWithError(c, http.StatusInternalServerError, err)
		}
		if user == nil {
			return models.RespondWithError(c, http.StatusUnauthorized,
				models.NewUnauthorizedError("authentication required"))
		}
		c.Locals("userID", user.ID)
		c.Locals("user", user)
		// sync to UserContext for logging and downstream services
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, user.ID))
		return c.Next()
	}
}

// SessionOptional resolves the session cookie when present but never rejects
// the request. Store failures are logged and treated as unauthenticated.
func SessionOptional(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := sessions.Resolve(c.UserContext(), c.Cookies(SessionCookie))
		if err != nil {
			Logger.WarnContext(c.UserContext(), "session resolution failed", "error", err)
			return c.Next()
		}
		if user != nil {
			c.Locals("userID", user.ID)
			c.Locals("user", user)
			c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, user.ID))
		}
		return c.Next()
	}
}
