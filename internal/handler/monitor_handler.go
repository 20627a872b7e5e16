package handler

import (
	"go-supply-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MonitorHandler struct {
	service service.MonitorService
}

func NewMonitorHandler(s service.MonitorService) *MonitorHandler {
	return &MonitorHandler{service: s}
}

func categoryFilter(c *fiber.Ctx) (*uuid.UUID, error) {
	raw := c.Query("category_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// GetSupplies renders the stock table: every active supply with its current
// level and classification.
func (h *MonitorHandler) GetSupplies(c *fiber.Ctx) error {
	categoryID, err := categoryFilter(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	supplies, err := h.service.ListSupplies(categoryID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(supplies)
}

// GetLowStockCount serves the sidebar badge the UI polls every minute.
func (h *MonitorHandler) GetLowStockCount(c *fiber.Ctx) error {
	categoryID, err := categoryFilter(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	count, err := h.service.CountLowStock(categoryID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"low_stock_count": count})
}
