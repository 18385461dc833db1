package handlers

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "signcraft/internal/log"
	"signcraft/internal/repos"
	"signcraft/internal/services"
)

type InventoryHandler struct {
	Inv  *services.InventoryService
	Repo *repos.InventoryRepo
}

// GET /admin/api/inventory
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.Inv.List()
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load inventory")
	}
	return c.JSON(fiber.Map{"items": items})
}

type inventoryRequest struct {
	ItemName         string   `json:"item_name"`
	Quantity         int      `json:"quantity"`
	Threshold        int      `json:"threshold"`
	SupplierWhatsapp string   `json:"supplier_whatsapp"`
	SupplierName     string   `json:"supplier_name"`
	UnitPrice        *float64 `json:"unit_price"`
}

func (r inventoryRequest) toInput() (repos.InventoryInput, error) {
	if strings.TrimSpace(r.ItemName) == "" {
		return repos.InventoryInput{}, errors.New("item name is required")
	}
	if r.Quantity < 0 || r.Threshold < 0 {
		return repos.InventoryInput{}, errors.New("quantity and threshold must not be negative")
	}
	return repos.InventoryInput{
		ItemName:         strings.TrimSpace(r.ItemName),
		Quantity:         r.Quantity,
		Threshold:        r.Threshold,
		SupplierWhatsapp: r.SupplierWhatsapp,
		SupplierName:     r.SupplierName,
		UnitPrice:        r.UnitPrice,
	}, nil
}

// POST /admin/api/inventory
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var req inventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	in, err := req.toInput()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	id, err := h.Repo.Create(in)
	if err != nil {
		applog.Error(c, "admin.inventory.create.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not save item")
	}
	applog.Audit(c, "admin.inventory.create", map[string]any{"item": id})
	return c.JSON(fiber.Map{"ok": true, "id": id})
}

// PUT /admin/api/inventory/:id
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var req inventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	in, err := req.toInput()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	id := c.Params("id")
	if err := h.Repo.Update(id, in); err != nil {
		applog.Error(c, "admin.inventory.update.fail", err, map[string]any{"item": id})
		return fail(c, fiber.StatusInternalServerError, "could not save item")
	}
	applog.Audit(c, "admin.inventory.update", map[string]any{"item": id})
	return ok(c)
}

// DELETE /admin/api/inventory/:id
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Repo.Delete(id); err != nil {
		applog.Error(c, "admin.inventory.delete.fail", err, map[string]any{"item": id})
		return fail(c, fiber.StatusInternalServerError, "could not delete item")
	}
	applog.Audit(c, "admin.inventory.delete", map[string]any{"item": id})
	return ok(c)
}

type adjustRequest struct {
	Delta int `json:"delta"`
}

// POST /admin/api/inventory/:id/adjust — the ±1 stepper, clamped at zero.
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	id := c.Params("id")
	qty, err := h.Inv.Adjust(id, req.Delta)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, fiber.StatusNotFound, "item not found")
		}
		applog.Error(c, "admin.inventory.adjust.fail", err, map[string]any{"item": id})
		return fail(c, fiber.StatusInternalServerError, "could not update quantity")
	}
	return c.JSON(fiber.Map{"ok": true, "quantity": qty})
}

// GET /admin/api/inventory/:id/reorder-link
func (h *InventoryHandler) ReorderLink(c *fiber.Ctx) error {
	link, err := h.Inv.ReorderLink(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrReorderUnavailable) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		if err == sql.ErrNoRows {
			return fail(c, fiber.StatusNotFound, "item not found")
		}
		return fail(c, fiber.StatusInternalServerError, "could not build reorder link")
	}
	return c.JSON(fiber.Map{"url": link})
}
