package repos

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"signcraft/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

type CartLineInput struct {
	Kind       string // product | custom
	ProductID  string // required for product lines
	Name       string
	Size       string
	Material   string
	Quantity   int
	Comments   string
	ImagesJSON string
}

func (r *CartRepo) AddLine(cartID string, in CartLineInput) (string, error) {
	id := uuid.NewString()
	images := in.ImagesJSON
	if images == "" {
		images = "[]"
	}
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id, cart_id, kind, product_id, name, size, material,
		                       quantity, comments, images_json, position)
		VALUES(?,?,?,?,?,?,?,?,?,?,
		  COALESCE((SELECT MAX(position)+1 FROM cart_items WHERE cart_id=?),0))
	`, id, cartID, in.Kind, nullable(in.ProductID), in.Name, nullable(in.Size),
		nullable(in.Material), in.Quantity, nullable(in.Comments), images, cartID)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *CartRepo) UpdateLine(cartID, lineID string, in CartLineInput) error {
	_, err := r.db.Exec(`
		UPDATE cart_items
		SET size=?, material=?, quantity=?, comments=?
		WHERE id=? AND cart_id=?
	`, nullable(in.Size), nullable(in.Material), in.Quantity, nullable(in.Comments),
		lineID, cartID)
	return err
}

func (r *CartRepo) Lines(cartID string) ([]domain.CartLine, error) {
	out := []domain.CartLine{}
	err := r.db.Select(&out, `
		SELECT id, cart_id, kind, product_id, name, size, material, quantity,
		       comments, images_json, position, created_at
		FROM cart_items WHERE cart_id = ?
		ORDER BY position
	`, cartID)
	return out, err
}

func (r *CartRepo) RemoveLine(cartID, lineID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE id=? AND cart_id=?`, lineID, cartID)
	return err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
