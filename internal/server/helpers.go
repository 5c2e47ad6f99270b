package server

import (
	"strconv"

	"whisperwall/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("invalid " + param + " parameter")
	}
	return uint(id), nil
}

// statusForError maps application error codes to HTTP status codes.
func statusForError(err error) int {
	switch {
	case models.IsCode(err, models.CodeNotFound):
		return fiber.StatusNotFound
	case models.IsCode(err, models.CodeValidation):
		return fiber.StatusBadRequest
	case models.IsCode(err, models.CodeUnauthorized):
		return fiber.StatusUnauthorized
	case models.IsCode(err, models.CodeDuplicateEmail):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail sends the standard error response for err with the mapped status.
func fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}
