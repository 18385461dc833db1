package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "signcraft/internal/log"
	"signcraft/internal/mail"
	"signcraft/internal/repos"
	"signcraft/internal/services"
	"signcraft/internal/validate"
)

type AdminEnquiryHandler struct {
	Enq  *services.EnquiryService
	Repo *repos.EnquiryRepo
}

// GET /admin/api/enquiries?status=&q=
func (h *AdminEnquiryHandler) List(c *fiber.Ctx) error {
	rows, err := h.Repo.ListJoined(c.Query("status"), c.Query("q"))
	if err != nil {
		applog.Error(c, "admin.enquiries.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load enquiries")
	}
	return c.JSON(fiber.Map{"enquiries": rows})
}

type manualEnquiryRequest struct {
	CompanyName  string `json:"company_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ProductID    string `json:"product_id"`
	Size         string `json:"size"`
	Quantity     int    `json:"quantity"`
	Material     string `json:"material"`
	DeliveryDate string `json:"delivery_date"`
	Comments     string `json:"comments"`
}

// POST /admin/api/enquiries — manual intake for walk-in or phone enquiries.
func (h *AdminEnquiryHandler) Create(c *fiber.Ctx) error {
	var req manualEnquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	company, okCompany := validate.CompanyName(req.CompanyName)
	if req.ProductID == "" || !okCompany {
		return fail(c, fiber.StatusBadRequest, "company name and product are required")
	}

	sub := services.Submission{
		CompanyName: company,
		Email:       req.Email,
		Contact:     req.Phone,
		Delivery:    req.DeliveryDate,
		Items: []services.SubmissionItem{{
			Kind:      "product",
			ProductID: req.ProductID,
			Size:      req.Size,
			Quantity:  validate.Qty(req.Quantity),
			Material:  req.Material,
			Comments:  req.Comments,
		}},
	}
	ids, err := h.Enq.Submit(sub, "manual")
	switch {
	case errors.Is(err, services.ErrEmptyCompany):
		return fail(c, fiber.StatusBadRequest, "company name and product are required")
	case err != nil:
		applog.Error(c, "admin.enquiries.create.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "failed to create enquiry")
	}
	applog.Audit(c, "admin.enquiries.create", map[string]any{"ids": ids})
	return c.JSON(fiber.Map{"ok": true, "enquiry_ids": ids})
}

type replyRequest struct {
	TemplateID      string `json:"template_id"`
	QuotationAmount string `json:"quotation_amount"`
}

// POST /admin/api/enquiries/:id/reply
func (h *AdminEnquiryHandler) Reply(c *fiber.Ctx) error {
	var req replyRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	id := c.Params("id")
	if err := h.Enq.Reply(id, req.TemplateID, req.QuotationAmount); err != nil {
		if errors.Is(err, services.ErrBadAmount) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "enquiry not found")
		}
		applog.Error(c, "admin.enquiries.reply.fail", err, map[string]any{"enquiry": id})
		return fail(c, fiber.StatusInternalServerError, "failed to update enquiry")
	}
	applog.Audit(c, "admin.enquiries.reply", map[string]any{"enquiry": id, "template": req.TemplateID})
	return ok(c)
}

type statusRequest struct {
	Status        string `json:"status"`
	InvoiceNumber string `json:"invoice_number"`
}

// POST /admin/api/enquiries/:id/status
// Completing requires an invoice number; the client prompt is enforced here
// so a bare status write cannot slip through.
func (h *AdminEnquiryHandler) SetStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	id := c.Params("id")
	err := h.Enq.SetStatus(id, req.Status, req.InvoiceNumber)
	switch {
	case errors.Is(err, services.ErrBadStatus), errors.Is(err, services.ErrInvoiceRequired):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		return fail(c, fiber.StatusNotFound, "enquiry not found")
	case err != nil:
		applog.Error(c, "admin.enquiries.status.fail", err, map[string]any{"enquiry": id})
		return fail(c, fiber.StatusInternalServerError, "failed to update status")
	}
	applog.Audit(c, "admin.enquiries.status", map[string]any{"enquiry": id, "status": req.Status})
	return ok(c)
}

type bulkStatusRequest struct {
	EnquiryIDs []string `json:"enquiryIds"`
	Status     string   `json:"status"`
}

// POST /admin/api/enquiries/bulk-status
// The bulk path intentionally skips the invoice prompt the single path has.
func (h *AdminEnquiryHandler) BulkStatus(c *fiber.Ctx) error {
	var req bulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	err := h.Enq.BulkStatus(req.EnquiryIDs, req.Status)
	switch {
	case errors.Is(err, services.ErrBadStatus), errors.Is(err, services.ErrNoEnquiries):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		applog.Error(c, "admin.enquiries.bulk_status.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "failed to update status")
	}
	applog.Audit(c, "admin.enquiries.bulk_status", map[string]any{"count": len(req.EnquiryIDs), "status": req.Status})
	return ok(c)
}

// DELETE /admin/api/enquiries/:id — hard delete, no tombstone.
func (h *AdminEnquiryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Enq.Delete(id); err != nil {
		applog.Error(c, "admin.enquiries.delete.fail", err, map[string]any{"enquiry": id})
		return fail(c, fiber.StatusInternalServerError, "failed to delete enquiry")
	}
	applog.Audit(c, "admin.enquiries.delete", map[string]any{"enquiry": id})
	return ok(c)
}

type bulkDeleteRequest struct {
	EnquiryIDs []string `json:"enquiryIds"`
}

// POST /admin/api/enquiries/bulk-delete
func (h *AdminEnquiryHandler) BulkDelete(c *fiber.Ctx) error {
	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.Enq.BulkDelete(req.EnquiryIDs); err != nil {
		if errors.Is(err, services.ErrNoEnquiries) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		applog.Error(c, "admin.enquiries.bulk_delete.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "failed to delete enquiries")
	}
	applog.Audit(c, "admin.enquiries.bulk_delete", map[string]any{"count": len(req.EnquiryIDs)})
	return ok(c)
}

type sendReplyRequest struct {
	EnquiryIDs []string `json:"enquiryIds"`
	TemplateID string   `json:"templateId"`
	Status     string   `json:"status"`
}

// POST /admin/api/enquiries/send-reply
func (h *AdminEnquiryHandler) SendReply(c *fiber.Ctx) error {
	var req sendReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	err := h.Enq.SendReply(req.EnquiryIDs, req.TemplateID, req.Status)
	switch {
	case errors.Is(err, services.ErrMixedCustomers),
		errors.Is(err, services.ErrNoCustomerEmail),
		errors.Is(err, services.ErrNoEnquiries),
		errors.Is(err, services.ErrBadStatus):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, mail.ErrNotConfigured):
		return fail(c, fiber.StatusInternalServerError, err.Error())
	case err != nil:
		applog.Error(c, "admin.enquiries.send_reply.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "failed to send reply")
	}
	applog.Audit(c, "admin.enquiries.send_reply", map[string]any{
		"count": len(req.EnquiryIDs), "template": req.TemplateID, "status": req.Status,
	})
	return ok(c)
}

// GET /admin/api/enquiries/export — CSV download of the current filter.
func (h *AdminEnquiryHandler) Export(c *fiber.Ctx) error {
	rows, err := h.Repo.ListJoined(c.Query("status"), c.Query("q"))
	if err != nil {
		applog.Error(c, "admin.enquiries.export.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not export enquiries")
	}
	data, err := services.ExportCSV(rows)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not export enquiries")
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="enquiries.csv"`)
	return c.Send(data)
}

// GET /admin/api/enquiries/:id/activity
func (h *AdminEnquiryHandler) Activity(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Repo.Get(id); err != nil {
		return fail(c, fiber.StatusNotFound, "enquiry not found")
	}
	acts, err := h.Repo.ActivityFor(id)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "could not load activity")
	}
	return c.JSON(fiber.Map{"activity": acts})
}
