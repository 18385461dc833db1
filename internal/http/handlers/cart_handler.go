package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"signcraft/internal/config"
	"signcraft/internal/domain"
	applog "signcraft/internal/log"
	"signcraft/internal/mail"
	"signcraft/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
	Enq  *services.EnquiryService
	Mail mail.Sender
	Cfg  config.Config
}

func (h *CartHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return sid
}

// GET /api/v1/cart
func (h *CartHandler) List(c *fiber.Ctx) error {
	lines, err := h.Cart.Lines(h.ensureSID(c))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load cart")
	}
	return c.JSON(fiber.Map{"items": lines})
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req services.CartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	id, err := h.Cart.Add(h.ensureSID(c), req)
	if err != nil {
		if errors.Is(err, services.ErrUnknownLineKind) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return fail(c, fiber.StatusBadRequest, "could not add item")
	}
	return c.JSON(fiber.Map{"ok": true, "id": id})
}

// PATCH /api/v1/cart/:id
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var req services.CartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.Cart.Update(h.ensureSID(c), c.Params("id"), req); err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not update item")
	}
	return ok(c)
}

// DELETE /api/v1/cart/:id
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	if err := h.Cart.Remove(h.ensureSID(c), c.Params("id")); err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not remove item")
	}
	return ok(c)
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(h.ensureSID(c)); err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not clear cart")
	}
	return ok(c)
}

type submitRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	Contact     string `json:"contact"`
	Delivery    string `json:"delivery"`
	Comments    string `json:"comments"`
}

// POST /api/v1/cart/submit
// Store first, notify best-effort: enquiry rows are committed before the
// email send, and a send failure never rolls them back.
func (h *CartHandler) Submit(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}

	lines, err := h.Cart.Lines(sid)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load cart")
	}

	sub := services.ToSubmission(lines, req.CompanyName, req.Email,
		req.Department, req.Contact, req.Delivery, req.Comments)

	ids, err := h.Enq.Submit(sub, "web")
	switch {
	case errors.Is(err, services.ErrEmptyCompany), errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrUnknownLineKind):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		applog.Error(c, "cart.submit.fail", err, map[string]any{"company": req.CompanyName})
		return fail(c, fiber.StatusInternalServerError, "failed to save enquiry")
	}

	msg := h.Enq.SubmissionEmail(sub, h.Cfg.QuoteMailbox)
	msg.Attachments = h.collectAttachments(lines)
	emailErr := h.Mail.Send(msg)
	if emailErr != nil {
		applog.Error(c, "cart.submit.email.fail", emailErr, map[string]any{"company": req.CompanyName})
	}

	_ = h.Cart.Clear(sid)

	resp := fiber.Map{"ok": true, "enquiry_ids": ids}
	if emailErr != nil {
		resp["email_error"] = "notification email failed; enquiry was saved"
	}
	applog.Info(c, "cart.submit", map[string]any{"company": req.CompanyName, "items": len(ids)})
	return c.JSON(resp)
}

// collectAttachments loads each line's stored upload files. Filenames encode
// line kind, line id and the original name so a multi-item cart cannot
// collide.
func (h *CartHandler) collectAttachments(lines []domain.CartLine) []mail.Attachment {
	var out []mail.Attachment
	for _, line := range lines {
		for i, p := range services.LineImages(line) {
			name := filepath.Base(p)
			content, err := os.ReadFile(filepath.Join(h.Cfg.UploadDir, name))
			if err != nil {
				continue
			}
			out = append(out, mail.Attachment{
				Filename: fmt.Sprintf("%s-%s-%d-%s", line.Kind, line.ID, i, strings.TrimPrefix(name, "/")),
				Content:  content,
			})
		}
	}
	return out
}
