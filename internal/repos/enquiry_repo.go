package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"signcraft/internal/domain"
)

type EnquiryRepo struct{ db *sqlx.DB }

func NewEnquiryRepo(db *sqlx.DB) *EnquiryRepo { return &EnquiryRepo{db: db} }

// JoinedRow carries an enquiry with its owning customer and subject product,
// the shape the admin list, reply composer and CSV export work from.
type JoinedRow struct {
	domain.Enquiry
	CompanyName   string         `db:"company_name" json:"company_name"`
	CustomerEmail sql.NullString `db:"customer_email" json:"customer_email"`
	CustomerPhone sql.NullString `db:"customer_phone" json:"customer_phone"`
	ProductName   string         `db:"product_name" json:"product_name"`
}

const joinedSelect = `
  SELECT e.id, e.customer_id, e.product_id, e.size, e.quantity, e.material,
         e.delivery_date, e.comments, e.status, e.reply_template_id,
         e.quotation_amount, e.invoice_number, e.created_at, e.updated_at,
         c.company_name, c.email AS customer_email, c.phone AS customer_phone,
         p.name AS product_name
  FROM enquiries e
  JOIN customers c ON c.id = e.customer_id
  JOIN products  p ON p.id = e.product_id`

type EnquiryInput struct {
	CustomerID   string
	ProductID    string
	Size         string
	Quantity     int
	Material     string
	DeliveryDate string
	Comments     string
}

func (r *EnquiryRepo) Create(in EnquiryInput) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
		INSERT INTO enquiries(id, customer_id, product_id, size, quantity, material,
		                      delivery_date, comments, status)
		VALUES(?,?,?,?,?,?,?,?,?)
	`, id, in.CustomerID, in.ProductID, nullable(in.Size), in.Quantity,
		nullable(in.Material), nullable(in.DeliveryDate), nullable(in.Comments),
		domain.StatusPending)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *EnquiryRepo) Get(id string) (*domain.Enquiry, error) {
	var e domain.Enquiry
	err := r.db.Get(&e, `
		SELECT id, customer_id, product_id, size, quantity, material, delivery_date,
		       comments, status, reply_template_id, quotation_amount, invoice_number,
		       created_at, updated_at
		FROM enquiries WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnquiryRepo) ListJoined(status, search string) ([]JoinedRow, error) {
	q := joinedSelect
	args := []any{}
	where := ""
	if status != "" {
		where = ` WHERE e.status = ?`
		args = append(args, status)
	}
	if search != "" {
		if where == "" {
			where = ` WHERE `
		} else {
			where += ` AND `
		}
		where += `(LOWER(c.company_name) LIKE ? OR LOWER(p.name) LIKE ? OR LOWER(COALESCE(e.comments,'')) LIKE ?)`
		pat := "%" + search + "%"
		args = append(args, pat, pat, pat)
	}
	var out []JoinedRow
	err := r.db.Select(&out, q+where+` ORDER BY e.created_at DESC`, args...)
	return out, err
}

func (r *EnquiryRepo) ListJoinedByIDs(ids []string) ([]JoinedRow, error) {
	query, args, err := sqlx.In(joinedSelect+` WHERE e.id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var out []JoinedRow
	err = r.db.Select(&out, r.db.Rebind(query), args...)
	return out, err
}

// UpdateReply applies the reply form: status, optional template and amount.
func (r *EnquiryRepo) UpdateReply(id, status, templateID string, amount *float64) error {
	res, err := r.db.Exec(`
		UPDATE enquiries
		SET status=?,
		    reply_template_id=COALESCE(?, reply_template_id),
		    quotation_amount=COALESCE(?, quotation_amount),
		    updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, status, nullable(templateID), amount, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *EnquiryRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`
		UPDATE enquiries SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Complete persists the completed status together with its invoice number.
func (r *EnquiryRepo) Complete(id, invoiceNumber string) error {
	res, err := r.db.Exec(`
		UPDATE enquiries
		SET status=?, invoice_number=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, domain.StatusCompleted, invoiceNumber, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow maps a zero-row UPDATE to sql.ErrNoRows so callers can answer
// not-found instead of silently succeeding.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BulkStatus applies one status to every selected id in a single statement.
func (r *EnquiryRepo) BulkStatus(ids []string, status string) error {
	query, args, err := sqlx.In(`
		UPDATE enquiries SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id IN (?)
	`, status, ids)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(r.db.Rebind(query), args...)
	return err
}

func (r *EnquiryRepo) SetReplyTemplate(ids []string, templateID, status string) error {
	query, args, err := sqlx.In(`
		UPDATE enquiries
		SET status=?, reply_template_id=?, updated_at=CURRENT_TIMESTAMP
		WHERE id IN (?)
	`, status, templateID, ids)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(r.db.Rebind(query), args...)
	return err
}

func (r *EnquiryRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM enquiries WHERE id=?`, id)
	return err
}

func (r *EnquiryRepo) BulkDelete(ids []string) error {
	query, args, err := sqlx.In(`DELETE FROM enquiries WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(r.db.Rebind(query), args...)
	return err
}

func (r *EnquiryRepo) AddActivity(enquiryID, action, note string) error {
	_, err := r.db.Exec(`
		INSERT INTO enquiry_activity(enquiry_id, action, note) VALUES(?,?,?)
	`, enquiryID, action, note)
	return err
}

func (r *EnquiryRepo) ActivityFor(enquiryID string) ([]domain.Activity, error) {
	var out []domain.Activity
	err := r.db.Select(&out, `
		SELECT id, enquiry_id, action, note, created_at
		FROM enquiry_activity WHERE enquiry_id=?
		ORDER BY id DESC
	`, enquiryID)
	return out, err
}

func (r *EnquiryRepo) CountByStatus(status string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM enquiries WHERE status=?`, status)
	return n, err
}

func (r *EnquiryRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM enquiries`)
	return n, err
}
