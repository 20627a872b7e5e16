package handler

import (
	"go-supply-ledger/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorID extracts the authenticated actor set by the auth middleware.
func actorID(c *fiber.Ctx) uuid.UUID {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// fail resolves a service error to its taxonomy status code.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(apperr.StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
}
