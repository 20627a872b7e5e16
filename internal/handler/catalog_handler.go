package handler

import (
	"encoding/json"

	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) CreateSupply(c *fiber.Ctx) error {
	var req service.CreateSupplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	supply, err := h.service.CreateSupply(&req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Supply created", "data": supply})
}

func (h *CatalogHandler) UpdateSupply(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supply ID"})
	}

	// Stock is never writable through the catalog; reject any body that
	// carries the column rather than silently dropping it.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if _, found := raw["current_stock_level"]; found {
		return c.Status(400).JSON(fiber.Map{"error": "current_stock_level is not editable; record a stock transaction instead"})
	}
	if _, found := raw["initial_stock"]; found {
		return c.Status(400).JSON(fiber.Map{"error": "initial_stock only applies at creation"})
	}

	var req service.UpdateSupplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateSupplyMeta(id, &req, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supply updated", "data": updated})
}

func (h *CatalogHandler) RetireSupply(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supply ID"})
	}

	if err := h.service.RetireSupply(id, actorID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supply retired"})
}

func (h *CatalogHandler) GetSupply(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supply ID"})
	}

	supply, err := h.service.GetSupply(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(supply)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateCategory(&category, actorID(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}
