package repos

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"signcraft/internal/domain"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) ByCompanyName(name string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `
		SELECT id, company_name, email, phone, source, created_at, updated_at
		FROM customers WHERE company_name = ?
	`, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) ByID(id string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.Get(&c, `
		SELECT id, company_name, email, phone, source, created_at, updated_at
		FROM customers WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Create(companyName, email, phone, source string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
		INSERT INTO customers(id, company_name, email, phone, source)
		VALUES(?,?,?,?,?)
	`, id, strings.TrimSpace(companyName), nullable(email), nullable(phone), source)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateContact overwrites email/phone with the latest submission (last write wins).
func (r *CustomerRepo) UpdateContact(id, email, phone string) error {
	_, err := r.db.Exec(`
		UPDATE customers SET email=?, phone=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, nullable(email), nullable(phone), id)
	return err
}

func (r *CustomerRepo) List() ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.db.Select(&out, `
		SELECT id, company_name, email, phone, source, created_at, updated_at
		FROM customers ORDER BY company_name
	`)
	return out, err
}

func (r *CustomerRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM customers`)
	return n, err
}

// nullable maps blank strings to SQL NULL.
func nullable(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
