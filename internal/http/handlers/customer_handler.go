package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	applog "signcraft/internal/log"
	"signcraft/internal/repos"
)

type CustomerHandler struct {
	Customers *repos.CustomerRepo
}

// GET /admin/api/customers — the directory the enquiry list links into.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	customers, err := h.Customers.List()
	if err != nil {
		applog.Error(c, "admin.customers.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load customers")
	}
	return c.JSON(fiber.Map{"customers": customers})
}

// GET /admin/api/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	cust, err := h.Customers.ByID(c.Params("id"))
	if err == sql.ErrNoRows {
		return fail(c, fiber.StatusNotFound, "customer not found")
	}
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load customer")
	}
	return c.JSON(cust)
}
