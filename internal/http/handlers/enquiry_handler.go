package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"signcraft/internal/config"
	applog "signcraft/internal/log"
	"signcraft/internal/mail"
	"signcraft/internal/services"
	"signcraft/internal/validate"
)

type EnquiryHandler struct {
	Enq  *services.EnquiryService
	Mail mail.Sender
	Cfg  config.Config
}

// POST /api/v1/cart-enquiries
// Persists customer/product/enquiry rows from a submitted cart. The matching
// notification email is a separate call (see Quotation); a client that fails
// between the two still leaves the committed rows in place.
func (h *EnquiryHandler) Create(c *fiber.Ctx) error {
	var sub services.Submission
	if err := c.BodyParser(&sub); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}

	ids, err := h.Enq.Submit(sub, "web")
	switch {
	case errors.Is(err, services.ErrEmptyCompany), errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrUnknownLineKind):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		applog.Error(c, "enquiry.create.fail", err, map[string]any{"company": sub.CompanyName})
		return fail(c, fiber.StatusInternalServerError, "failed to save enquiry")
	}

	applog.Info(c, "enquiry.create", map[string]any{"company": sub.CompanyName, "items": len(ids)})
	return c.JSON(fiber.Map{"ok": true, "enquiry_ids": ids})
}

// POST /api/v1/quotation-email
// Multipart form: subject, body, optional to/reply_to, optional cart_manifest
// appended for traceability, and file parts named item{N}_file_{M} or file_*.
func (h *EnquiryHandler) Quotation(c *fiber.Ctx) error {
	subject := c.FormValue("subject")
	body := c.FormValue("body")
	if subject == "" || body == "" {
		return fail(c, fiber.StatusBadRequest, "missing fields")
	}
	to := c.FormValue("to")
	if to == "" {
		to = h.Cfg.QuoteMailbox
	}

	if manifest := c.FormValue("cart_manifest"); manifest != "" {
		body += "\n\nCart manifest:\n" + manifest
	}

	msg := mail.Message{
		To:      to,
		ReplyTo: c.FormValue("reply_to"),
		Subject: subject,
		Body:    body,
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for key, files := range form.File {
			if !attachmentField(key) {
				continue
			}
			for i, fh := range files {
				content, err := readPart(fh)
				if err != nil {
					return fail(c, fiber.StatusBadRequest, "unreadable attachment")
				}
				name := fh.Filename
				if name == "" {
					name = "attachment"
				}
				// Prefix with the part key so two items uploading the same
				// filename cannot collide.
				msg.Attachments = append(msg.Attachments, mail.Attachment{
					Filename: fmt.Sprintf("%s-%d-%s", key, i, name),
					Content:  content,
				})
			}
		}
	}

	if err := h.Mail.Send(msg); err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			return fail(c, fiber.StatusInternalServerError, err.Error())
		}
		applog.Error(c, "quotation.send.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "failed to send")
	}
	applog.Info(c, "quotation.send", map[string]any{"to": to, "attachments": len(msg.Attachments)})
	return ok(c)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// POST /api/v1/contact
func (h *EnquiryHandler) Contact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		return fail(c, fiber.StatusBadRequest, "name and message are required")
	}
	email, okEmail := validate.Email(req.Email)
	if !okEmail {
		return fail(c, fiber.StatusBadRequest, "a valid email is required")
	}
	if req.Phone != "" {
		phone, okPhone := validate.Phone(req.Phone)
		if !okPhone {
			return fail(c, fiber.StatusBadRequest, "phone number is not valid")
		}
		req.Phone = phone
	}

	msg := mail.Message{
		To:      h.Cfg.QuoteMailbox,
		ReplyTo: email,
		Subject: "Website contact from " + req.Name,
		Body:    "Name: " + req.Name + "\nEmail: " + email + "\nPhone: " + req.Phone + "\n\n" + req.Message,
	}
	if err := h.Mail.Send(msg); err != nil {
		applog.Error(c, "contact.send.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "failed to send")
	}
	return ok(c)
}

// attachmentField accepts the two client naming conventions for file parts.
func attachmentField(key string) bool {
	if strings.HasPrefix(key, "file_") {
		return true
	}
	return strings.HasPrefix(key, "item") && strings.Contains(key, "_file_")
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
