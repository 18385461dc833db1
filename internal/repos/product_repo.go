package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"signcraft/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, description, category_id, image_url,
  sizes_json, materials_json, active, top_seller,
  created_at, updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) ByNameInCategory(name, categoryID string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
		SELECT`+productCols+` FROM products WHERE name = ? AND category_id = ?
	`, name, categoryID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) ListActive() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT`+productCols+` FROM products WHERE active = 1 ORDER BY name
	`)
	return out, err
}

func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT`+productCols+` FROM products ORDER BY name`)
	return out, err
}

func (r *ProductRepo) ListByCategory(categoryID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT`+productCols+` FROM products
		WHERE category_id = ? AND active = 1 ORDER BY name
	`, categoryID)
	return out, err
}

func (r *ProductRepo) TopSellers() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT`+productCols+` FROM products
		WHERE active = 1 AND top_seller = 1 ORDER BY name
	`)
	return out, err
}

func (r *ProductRepo) Search(q string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT`+productCols+` FROM products
		WHERE active = 1 AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)
		ORDER BY name
	`, "%"+q+"%", "%"+q+"%")
	return out, err
}

type ProductInput struct {
	Name          string
	Description   string
	CategoryID    string
	ImageURL      string
	SizesJSON     string
	MaterialsJSON string
	Active        bool
	TopSeller     bool
}

func (r *ProductRepo) Create(in ProductInput) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
		INSERT INTO products(id, name, description, category_id, image_url,
		                     sizes_json, materials_json, active, top_seller)
		VALUES(?,?,?,?,?,?,?,?,?)
	`, id, in.Name, nullable(in.Description), in.CategoryID, nullable(in.ImageURL),
		in.SizesJSON, in.MaterialsJSON, in.Active, in.TopSeller)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *ProductRepo) Update(id string, in ProductInput) error {
	_, err := r.db.Exec(`
		UPDATE products SET name=?, description=?, category_id=?, image_url=?,
		       sizes_json=?, materials_json=?, active=?, top_seller=?,
		       updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, in.Name, nullable(in.Description), in.CategoryID, nullable(in.ImageURL),
		in.SizesJSON, in.MaterialsJSON, in.Active, in.TopSeller, id)
	return err
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	return err
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}
