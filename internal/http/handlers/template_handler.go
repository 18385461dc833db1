package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "signcraft/internal/log"
	"signcraft/internal/repos"
)

type TemplateHandler struct {
	Templates *repos.TemplateRepo
}

// GET /admin/api/templates?type=&active=1
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	if typ := c.Query("type"); typ != "" && c.Query("active") == "1" {
		tpls, err := h.Templates.ListActive(typ)
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, "could not load templates")
		}
		return c.JSON(fiber.Map{"templates": tpls})
	}
	tpls, err := h.Templates.List()
	if err != nil {
		applog.Error(c, "admin.templates.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load templates")
	}
	return c.JSON(fiber.Map{"templates": tpls})
}

type templateRequest struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Active   bool   `json:"is_active"`
}

func (r templateRequest) toInput() (repos.TemplateInput, bool) {
	if (r.Type != "customer" && r.Type != "supplier") ||
		strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Content) == "" {
		return repos.TemplateInput{}, false
	}
	return repos.TemplateInput{
		Type:     r.Type,
		Category: r.Category,
		Title:    strings.TrimSpace(r.Title),
		Content:  r.Content,
		Active:   r.Active,
	}, true
}

// POST /admin/api/templates
func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	in, valid := req.toInput()
	if !valid {
		return fail(c, fiber.StatusBadRequest, "type, title and content are required")
	}
	id, err := h.Templates.Create(in)
	if err != nil {
		applog.Error(c, "admin.templates.create.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not save template")
	}
	applog.Audit(c, "admin.templates.create", map[string]any{"template": id})
	return c.JSON(fiber.Map{"ok": true, "id": id})
}

// PUT /admin/api/templates/:id
func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	in, valid := req.toInput()
	if !valid {
		return fail(c, fiber.StatusBadRequest, "type, title and content are required")
	}
	id := c.Params("id")
	if err := h.Templates.Update(id, in); err != nil {
		applog.Error(c, "admin.templates.update.fail", err, map[string]any{"template": id})
		return fail(c, fiber.StatusInternalServerError, "could not save template")
	}
	applog.Audit(c, "admin.templates.update", map[string]any{"template": id})
	return ok(c)
}

// DELETE /admin/api/templates/:id
func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Templates.Delete(id); err != nil {
		applog.Error(c, "admin.templates.delete.fail", err, map[string]any{"template": id})
		return fail(c, fiber.StatusInternalServerError, "could not delete template")
	}
	applog.Audit(c, "admin.templates.delete", map[string]any{"template": id})
	return ok(c)
}
