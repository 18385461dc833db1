package services

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"signcraft/internal/domain"
	"signcraft/internal/mail"
	"signcraft/internal/repos"
)

var (
	ErrEmptyCompany    = errors.New("company name is required")
	ErrEmptyCart       = errors.New("at least one item is required")
	ErrBadStatus       = errors.New("unknown enquiry status")
	ErrInvoiceRequired = errors.New("invoice number is required to complete an enquiry")
	ErrMixedCustomers  = errors.New("different companies/emails selected; select a single customer")
	ErrNoCustomerEmail = errors.New("customer has no email on file")
	ErrNoEnquiries     = errors.New("enquiries not found")
	ErrBadAmount       = errors.New("quotation amount is not a valid number")
)

// SubmissionItem is one cart line in an intake request. Kind selects the
// variant: product lines carry ProductID, custom lines only a display name.
type SubmissionItem struct {
	Kind      string `json:"type"`
	ProductID string `json:"id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Material  string `json:"material"`
	Comments  string `json:"comments"`
}

type Submission struct {
	CompanyName string           `json:"company_name"`
	Email       string           `json:"email"`
	Department  string           `json:"department"`
	Contact     string           `json:"contact"`
	Delivery    string           `json:"delivery"`
	Comments    string           `json:"comments"`
	Items       []SubmissionItem `json:"items"`
}

type EnquiryService struct {
	Customers *repos.CustomerRepo
	Cats      *repos.CategoryRepo
	Prods     *repos.ProductRepo
	Enquiries *repos.EnquiryRepo
	Templates *repos.TemplateRepo
	Mail      mail.Sender
}

func NewEnquiryService(customers *repos.CustomerRepo, cats *repos.CategoryRepo,
	prods *repos.ProductRepo, enquiries *repos.EnquiryRepo,
	templates *repos.TemplateRepo, mailer mail.Sender) *EnquiryService {
	return &EnquiryService{
		Customers: customers, Cats: cats, Prods: prods,
		Enquiries: enquiries, Templates: templates, Mail: mailer,
	}
}

// Submit runs the intake pipeline: customer upsert-by-company-name, product
// resolution per line, then one pending enquiry row per line. Validation
// happens before any write; a failed insert aborts the remaining steps but
// does not undo rows already committed.
func (s *EnquiryService) Submit(sub Submission, source string) ([]string, error) {
	company, ok := validCompany(sub.CompanyName)
	if !ok {
		return nil, ErrEmptyCompany
	}
	if len(sub.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range sub.Items {
		if item.Kind != domain.LineProduct && item.Kind != domain.LineCustom {
			return nil, ErrUnknownLineKind
		}
	}

	customerID, err := s.resolveCustomer(company, sub.Email, sub.Contact, source)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(sub.Items))
	for _, item := range sub.Items {
		var productID string
		if item.Kind == domain.LineCustom {
			productID, err = s.ensureCustomProduct(strings.TrimSpace(item.Name))
		} else {
			productID = item.ProductID
			_, err = s.Prods.Get(productID)
		}
		if err != nil {
			return ids, err
		}

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		id, err := s.Enquiries.Create(repos.EnquiryInput{
			CustomerID:   customerID,
			ProductID:    productID,
			Size:         item.Size,
			Quantity:     qty,
			Material:     item.Material,
			DeliveryDate: sub.Delivery,
			Comments:     joinComments(sub.Comments, item.Comments),
		})
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *EnquiryService) resolveCustomer(company, email, phone, source string) (string, error) {
	existing, err := s.Customers.ByCompanyName(company)
	if err == nil {
		// Reuse; last submission wins on contact fields.
		if err := s.Customers.UpdateContact(existing.ID, email, phone); err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	return s.Customers.Create(company, email, phone, source)
}

// ensureCustomProduct resolves a freeform product by exact name inside the
// reserved Custom Orders category, creating category and product lazily.
func (s *EnquiryService) ensureCustomProduct(name string) (string, error) {
	cat, err := s.Cats.ByName(domain.CustomOrdersCategory)
	var categoryID string
	switch {
	case err == nil:
		categoryID = cat.ID
	case err == sql.ErrNoRows:
		categoryID, err = s.Cats.Create(domain.CustomOrdersCategory, "")
		if err != nil {
			return "", err
		}
	default:
		return "", err
	}

	if p, err := s.Prods.ByNameInCategory(name, categoryID); err == nil {
		return p.ID, nil
	} else if err != sql.ErrNoRows {
		return "", err
	}
	return s.Prods.Create(repos.ProductInput{
		Name:          name,
		CategoryID:    categoryID,
		SizesJSON:     "[]",
		MaterialsJSON: "[]",
		Active:        true,
	})
}

// SubmissionEmail builds the single outbound notification for an intake.
func (s *EnquiryService) SubmissionEmail(sub Submission, to string) mail.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", sub.CompanyName)
	fmt.Fprintf(&b, "Email: %s\n", sub.Email)
	fmt.Fprintf(&b, "Department: %s\n", sub.Department)
	fmt.Fprintf(&b, "Contact: %s\n", sub.Contact)
	fmt.Fprintf(&b, "Delivery: %s\n", sub.Delivery)
	fmt.Fprintf(&b, "Comments: %s\n\nItems:\n", sub.Comments)
	for i, item := range sub.Items {
		fmt.Fprintf(&b, "%d. %s (%s) | Qty: %d", i+1, item.Name, item.Kind, item.Quantity)
		if item.Size != "" {
			fmt.Fprintf(&b, " | Size: %s", item.Size)
		}
		if item.Material != "" {
			fmt.Fprintf(&b, " | Material: %s", item.Material)
		}
		if item.Comments != "" {
			fmt.Fprintf(&b, " | %s", item.Comments)
		}
		b.WriteString("\n")
	}
	return mail.Message{
		To:      to,
		ReplyTo: sub.Email,
		Subject: fmt.Sprintf("Quotation Request - %d item(s)", len(sub.Items)),
		Body:    b.String(),
	}
}

// Reply applies the reply form to one enquiry: status replied, optional
// template id, optional quotation amount parsed from decimal text.
func (s *EnquiryService) Reply(id, templateID, amountText string) error {
	var amount *float64
	if strings.TrimSpace(amountText) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(amountText), 64)
		if err != nil {
			return ErrBadAmount
		}
		amount = &v
	}
	if err := s.Enquiries.UpdateReply(id, domain.StatusReplied, templateID, amount); err != nil {
		return err
	}
	note := "template:" + templateID
	if amount != nil {
		note += fmt.Sprintf("; amount:%.2f", *amount)
	}
	return s.Enquiries.AddActivity(id, domain.ActionReply, note)
}

// SetStatus changes one enquiry's status. The completed transition is gated
// on an invoice number; every other label is an unrestricted move.
func (s *EnquiryService) SetStatus(id, status, invoiceNumber string) error {
	if !domain.ValidStatus(status) {
		return ErrBadStatus
	}
	if status == domain.StatusCompleted {
		invoiceNumber = strings.TrimSpace(invoiceNumber)
		if invoiceNumber == "" {
			return ErrInvoiceRequired
		}
		if err := s.Enquiries.Complete(id, invoiceNumber); err != nil {
			return err
		}
		return s.Enquiries.AddActivity(id, domain.ActionStatusChange,
			"status:completed; invoice:"+invoiceNumber)
	}
	if err := s.Enquiries.UpdateStatus(id, status); err != nil {
		return err
	}
	return s.Enquiries.AddActivity(id, domain.ActionStatusChange, "status:"+status)
}

// BulkStatus applies one label to many enquiries in a single statement.
// Unlike the single-item path it does not collect invoice numbers, even for
// completed; that asymmetry matches the admin bulk action's traced behavior.
func (s *EnquiryService) BulkStatus(ids []string, status string) error {
	if len(ids) == 0 {
		return ErrNoEnquiries
	}
	if !domain.ValidStatus(status) {
		return ErrBadStatus
	}
	if err := s.Enquiries.BulkStatus(ids, status); err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Enquiries.AddActivity(id, domain.ActionStatusChange, "status:"+status+"; bulk"); err != nil {
			return err
		}
	}
	return nil
}

func (s *EnquiryService) Delete(id string) error { return s.Enquiries.Delete(id) }

func (s *EnquiryService) BulkDelete(ids []string) error {
	if len(ids) == 0 {
		return ErrNoEnquiries
	}
	return s.Enquiries.BulkDelete(ids)
}

// SendReply composes one multi-section email for a batch of enquiries that
// must all belong to a single customer, sends it, then updates every row and
// appends one activity entry per enquiry. Validation precedes the send and
// the send precedes the row updates.
func (s *EnquiryService) SendReply(ids []string, templateID, status string) error {
	if len(ids) == 0 || templateID == "" {
		return ErrNoEnquiries
	}
	if status != "" && !domain.ValidStatus(status) {
		return ErrBadStatus
	}

	tpl, err := s.Templates.Get(templateID)
	if err != nil {
		return fmt.Errorf("template not found: %w", err)
	}
	rows, err := s.Enquiries.ListJoinedByIDs(ids)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNoEnquiries
	}

	companies := map[string]struct{}{}
	emails := map[string]struct{}{}
	for _, r := range rows {
		companies[r.CompanyName] = struct{}{}
		emails[r.CustomerEmail.String] = struct{}{}
	}
	if len(companies) > 1 || len(emails) > 1 {
		return ErrMixedCustomers
	}
	to := rows[0].CustomerEmail.String
	if to == "" {
		return ErrNoCustomerEmail
	}

	sections := make([]string, 0, len(rows))
	for i, r := range rows {
		ctx := map[string]string{
			"customer_name": r.CompanyName,
			"product_name":  r.ProductName,
			"quotation_id":  r.Enquiry.ID,
			"delivery_date": r.DeliveryDate.String,
			"size":          r.Size.String,
			"material":      r.Material.String,
			"quantity":      strconv.Itoa(r.Quantity),
		}
		sections = append(sections,
			fmt.Sprintf("Item %d (%s)\n%s", i+1, r.ProductName, FillTemplate(tpl.Content, ctx)))
	}

	plural := ""
	if len(rows) > 1 {
		plural = "s"
	}
	msg := mail.Message{
		To:      to,
		Subject: fmt.Sprintf("%s - Enquiry Update (%d item%s)", rows[0].CompanyName, len(rows), plural),
		Body:    strings.Join(sections, "\n\n---\n\n"),
	}
	if err := s.Mail.Send(msg); err != nil {
		return err
	}

	if status != "" {
		if err := s.Enquiries.SetReplyTemplate(ids, templateID, status); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if err := s.Enquiries.AddActivity(id, domain.ActionReplyEmail,
			fmt.Sprintf("template:%s; status:%s", templateID, status)); err != nil {
			return err
		}
	}
	return nil
}

// ExportCSV renders enquiries as header + one row each; encoding/csv handles
// quoting of embedded commas and quotes.
func ExportCSV(rows []repos.JoinedRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"id", "company_name", "customer_email", "product_name", "size",
		"quantity", "material", "delivery_date", "comments", "status",
		"quotation_amount", "invoice_number", "created_at",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		amount := ""
		if r.QuotationAmount.Valid {
			amount = strconv.FormatFloat(r.QuotationAmount.Float64, 'f', 2, 64)
		}
		rec := []string{
			r.Enquiry.ID, r.CompanyName, r.CustomerEmail.String, r.ProductName,
			r.Size.String, strconv.Itoa(r.Quantity), r.Material.String,
			r.DeliveryDate.String, r.Comments.String, r.Status,
			amount, r.InvoiceNumber.String, r.Enquiry.CreatedAt,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func joinComments(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, " | ")
}

func validCompany(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
