package handler

import (
	"go-supply-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LedgerHandler struct {
	service service.LedgerService
}

func NewLedgerHandler(s service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: s}
}

// CreateTransaction is the single mutation endpoint: restock, usage, and
// manual adjustment all arrive here with a signed quantity.
func (h *LedgerHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.ApplyTransaction(&req, actorID(c))
	if err != nil {
		return fail(c, err)
	}

	status := 201
	if result.Replayed {
		// Duplicate submit collapsed onto the original commit.
		status = 200
	}
	return c.Status(status).JSON(fiber.Map{"message": "Transaction recorded", "data": result})
}

// AuditSupply exposes the reconstruction check for one supply.
func (h *LedgerHandler) AuditSupply(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supply ID"})
	}

	audit, err := h.service.AuditSupply(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(audit)
}
