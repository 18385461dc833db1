package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"signcraft/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
		SELECT id, name, description, created_at, updated_at
		FROM categories ORDER BY name
	`)
	return out, err
}

func (r *CategoryRepo) ByName(name string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `
		SELECT id, name, description, created_at, updated_at
		FROM categories WHERE name = ?
	`, name)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(name, description string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
		INSERT INTO categories(id, name, description) VALUES(?,?,?)
	`, id, name, nullable(description))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *CategoryRepo) Update(id, name, description string) error {
	_, err := r.db.Exec(`
		UPDATE categories SET name=?, description=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, name, nullable(description), id)
	return err
}

func (r *CategoryRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM categories WHERE id=?`, id)
	return err
}
