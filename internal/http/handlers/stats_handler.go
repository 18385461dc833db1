package handlers

import (
	"github.com/gofiber/fiber/v2"

	"signcraft/internal/domain"
	applog "signcraft/internal/log"
	"signcraft/internal/repos"
)

type StatsHandler struct {
	Enquiries *repos.EnquiryRepo
	Customers *repos.CustomerRepo
	Products  *repos.ProductRepo
	Inventory *repos.InventoryRepo
}

// GET /admin/api/stats — the dashboard counters.
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	total, err := h.Enquiries.Count()
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load stats")
	}
	pending, err := h.Enquiries.CountByStatus(domain.StatusPending)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load stats")
	}
	completed, err := h.Enquiries.CountByStatus(domain.StatusCompleted)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load stats")
	}
	customers, err := h.Customers.Count()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load stats")
	}
	products, err := h.Products.Count()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load stats")
	}
	lowStock, err := h.Inventory.CountLowStock()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load stats")
	}

	return c.JSON(fiber.Map{
		"enquiries_total":     total,
		"enquiries_pending":   pending,
		"enquiries_completed": completed,
		"customers":           customers,
		"products":            products,
		"low_stock_items":     lowStock,
	})
}
