package server

import (
	"whisperwall/internal/models"
	"whisperwall/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SecretRequest is the payload for posting a secret or a reply.
type SecretRequest struct {
	Text string `json:"text"`
}

// ListSecrets returns every user with secrets, threads included. The feed is
// public; an authenticated viewer additionally gets their own user ID so the
// client can render delete controls.
func (s *Server) ListSecrets(c *fiber.Ctx) error {
	users, err := s.secretService.ListSecrets(c.UserContext())
	if err != nil {
		return fail(c, err)
	}

	response := fiber.Map{"users_with_secrets": users}
	if uid, ok := c.Locals("userID").(uint); ok {
		response["current_user_id"] = uid
	}
	return c.Status(fiber.StatusOK).JSON(response)
}

// CreateSecret posts a new secret for the authenticated user.
func (s *Server) CreateSecret(c *fiber.Ctx) error {
	var req SecretRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("invalid request body"))
	}
	if err := validation.ValidateSecretText(req.Text); err != nil {
		return fail(c, models.NewValidationError(err.Error()))
	}

	userID := c.Locals("userID").(uint)
	secret, err := s.secretService.PostSecret(c.UserContext(), userID, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(secret)
}

// DeleteSecret removes one of the caller's secrets. Missing and foreign
// secrets return the same 204, so nothing leaks about other users' data.
func (s *Server) DeleteSecret(c *fiber.Ctx) error {
	secretID, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	userID := c.Locals("userID").(uint)
	if err := s.secretService.DeleteSecret(c.UserContext(), userID, secretID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateReply attaches a reply to a secret.
func (s *Server) CreateReply(c *fiber.Ctx) error {
	secretID, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req SecretRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("invalid request body"))
	}
	if err := validation.ValidateSecretText(req.Text); err != nil {
		return fail(c, models.NewValidationError(err.Error()))
	}

	userID := c.Locals("userID").(uint)
	reply, err := s.secretService.AddReply(c.UserContext(), userID, secretID, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// DeleteReply removes a reply the caller authored. Non-author attempts and
// missing replies return the same 204 as a successful delete.
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	secretID, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	replyID, err := parseID(c, "replyId")
	if err != nil {
		return fail(c, err)
	}

	userID := c.Locals("userID").(uint)
	if err := s.secretService.DeleteReply(c.UserContext(), userID, secretID, replyID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
