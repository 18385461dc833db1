package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "signcraft/internal/log"
	"signcraft/internal/repos"
)

type AdminCatalogHandler struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CategoryID  string   `json:"category_id"`
	ImageURL    string   `json:"image_url"`
	Sizes       []string `json:"sizes"`
	Materials   []string `json:"materials"`
	Active      bool     `json:"is_active"`
	TopSeller   bool     `json:"top_seller"`
}

func (r productRequest) toInput() (repos.ProductInput, error) {
	if strings.TrimSpace(r.Name) == "" || r.CategoryID == "" {
		return repos.ProductInput{}, errInvalidProduct
	}
	sizes, err := json.Marshal(orEmpty(r.Sizes))
	if err != nil {
		return repos.ProductInput{}, err
	}
	materials, err := json.Marshal(orEmpty(r.Materials))
	if err != nil {
		return repos.ProductInput{}, err
	}
	return repos.ProductInput{
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		ImageURL:      r.ImageURL,
		SizesJSON:     string(sizes),
		MaterialsJSON: string(materials),
		Active:        r.Active,
		TopSeller:     r.TopSeller,
	}, nil
}

var errInvalidProduct = fiber.NewError(fiber.StatusBadRequest, "name and category are required")

// GET /admin/api/products — includes inactive rows, unlike the public list.
func (h *AdminCatalogHandler) Products(c *fiber.Ctx) error {
	prods, err := h.Prods.ListAll()
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(fiber.Map{"products": prods})
}

// POST /admin/api/products
func (h *AdminCatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	in, err := req.toInput()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	id, err := h.Prods.Create(in)
	if err != nil {
		applog.Error(c, "admin.products.create.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not save product")
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": id})
	return c.JSON(fiber.Map{"ok": true, "id": id})
}

// PUT /admin/api/products/:id
func (h *AdminCatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	in, err := req.toInput()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	id := c.Params("id")
	if err := h.Prods.Update(id, in); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
		return fail(c, fiber.StatusInternalServerError, "could not save product")
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id})
	return ok(c)
}

// DELETE /admin/api/products/:id
func (h *AdminCatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Prods.Delete(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return fail(c, fiber.StatusInternalServerError, "could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return ok(c)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// POST /admin/api/categories
func (h *AdminCatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return fail(c, fiber.StatusBadRequest, "name is required")
	}
	id, err := h.Cats.Create(strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		applog.Error(c, "admin.categories.create.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not save category")
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category": id})
	return c.JSON(fiber.Map{"ok": true, "id": id})
}

// PUT /admin/api/categories/:id
func (h *AdminCatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return fail(c, fiber.StatusBadRequest, "name is required")
	}
	id := c.Params("id")
	if err := h.Cats.Update(id, strings.TrimSpace(req.Name), req.Description); err != nil {
		applog.Error(c, "admin.categories.update.fail", err, map[string]any{"category": id})
		return fail(c, fiber.StatusInternalServerError, "could not save category")
	}
	applog.Audit(c, "admin.categories.update", map[string]any{"category": id})
	return ok(c)
}

// DELETE /admin/api/categories/:id — restricted while products reference it.
func (h *AdminCatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Cats.Delete(id); err != nil {
		applog.Error(c, "admin.categories.delete.fail", err, map[string]any{"category": id})
		return fail(c, fiber.StatusBadRequest, "could not delete category")
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"category": id})
	return ok(c)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
