package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"signcraft/internal/domain"
)

type TemplateRepo struct{ db *sqlx.DB }

func NewTemplateRepo(db *sqlx.DB) *TemplateRepo { return &TemplateRepo{db: db} }

const templateCols = ` id, type, category, title, content, active, created_at, updated_at `

func (r *TemplateRepo) Get(id string) (*domain.Template, error) {
	var t domain.Template
	err := r.db.Get(&t, `SELECT`+templateCols+`FROM templates WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepo) List() ([]domain.Template, error) {
	var out []domain.Template
	err := r.db.Select(&out, `SELECT`+templateCols+`FROM templates ORDER BY type, title`)
	return out, err
}

// ListActive returns active templates of one type, for the reply picker.
func (r *TemplateRepo) ListActive(typ string) ([]domain.Template, error) {
	var out []domain.Template
	err := r.db.Select(&out, `
		SELECT`+templateCols+`FROM templates WHERE type = ? AND active = 1 ORDER BY title
	`, typ)
	return out, err
}

type TemplateInput struct {
	Type     string
	Category string
	Title    string
	Content  string
	Active   bool
}

func (r *TemplateRepo) Create(in TemplateInput) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
		INSERT INTO templates(id, type, category, title, content, active)
		VALUES(?,?,?,?,?,?)
	`, id, in.Type, nullable(in.Category), in.Title, in.Content, in.Active)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *TemplateRepo) Update(id string, in TemplateInput) error {
	_, err := r.db.Exec(`
		UPDATE templates
		SET type=?, category=?, title=?, content=?, active=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, in.Type, nullable(in.Category), in.Title, in.Content, in.Active, id)
	return err
}

func (r *TemplateRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM templates WHERE id=?`, id)
	return err
}
