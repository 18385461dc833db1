package handlers

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "signcraft/internal/log"
	"signcraft/internal/services"
	"signcraft/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/categories
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "catalog.categories.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load categories")
	}
	return c.JSON(fiber.Map{"categories": cats})
}

// GET /api/v1/products?category=...
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	prods, err := h.Catalog.ListProducts(c.Query("category"))
	if err != nil {
		applog.Error(c, "catalog.products.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(fiber.Map{"products": prods})
}

// GET /api/v1/products/:id
func (h *CatalogHandler) Product(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	p, err := h.Catalog.GetProduct(id)
	if err == sql.ErrNoRows {
		return fail(c, fiber.StatusNotFound, "product not found")
	}
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load product")
	}
	return c.JSON(p)
}

// GET /api/v1/top-sellers
func (h *CatalogHandler) TopSellers(c *fiber.Ctx) error {
	prods, err := h.Catalog.TopSellers()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(fiber.Map{"products": prods})
}

// GET /api/v1/search?q=...
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q == "" {
		return fail(c, fiber.StatusBadRequest, "missing query")
	}
	prods, err := h.Catalog.Search(q)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "search failed")
	}
	return c.JSON(fiber.Map{"products": prods})
}
