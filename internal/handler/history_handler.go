package handler

import (
	"time"

	"go-supply-ledger/internal/repository"
	"go-supply-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type HistoryHandler struct {
	service service.HistoryService
}

func NewHistoryHandler(s service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: s}
}

// GetTransactions lists ledger rows, newest first.
// Query params: supply_id, kind_id, date_from, date_to (RFC 3339 or
// YYYY-MM-DD), page, page_size.
func (h *HistoryHandler) GetTransactions(c *fiber.Ctx) error {
	filter := repository.HistoryFilter{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}

	if raw := c.Query("supply_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid supply ID"})
		}
		filter.SupplyID = &id
	}
	if kindID := c.QueryInt("kind_id", 0); kindID > 0 {
		k := uint(kindID)
		filter.KindID = &k
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date_from"})
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date_to"})
		}
		filter.DateTo = &t
	}

	page, err := h.service.ListTransactions(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *HistoryHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	row, err := h.service.GetTransaction(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(row)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
