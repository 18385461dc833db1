package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"signcraft/internal/domain"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

const inventoryCols = `
  id, item_name, quantity, threshold, supplier_whatsapp, supplier_name,
  unit_price, created_at, updated_at`

func (r *InventoryRepo) Get(id string) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := r.db.Get(&it, `SELECT`+inventoryCols+` FROM inventory WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *InventoryRepo) List() ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	err := r.db.Select(&out, `SELECT`+inventoryCols+` FROM inventory ORDER BY item_name`)
	return out, err
}

type InventoryInput struct {
	ItemName         string
	Quantity         int
	Threshold        int
	SupplierWhatsapp string
	SupplierName     string
	UnitPrice        *float64
}

func (r *InventoryRepo) Create(in InventoryInput) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
		INSERT INTO inventory(id, item_name, quantity, threshold,
		                      supplier_whatsapp, supplier_name, unit_price)
		VALUES(?,?,?,?,?,?,?)
	`, id, in.ItemName, in.Quantity, in.Threshold,
		nullable(in.SupplierWhatsapp), nullable(in.SupplierName), in.UnitPrice)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *InventoryRepo) Update(id string, in InventoryInput) error {
	_, err := r.db.Exec(`
		UPDATE inventory
		SET item_name=?, quantity=?, threshold=?, supplier_whatsapp=?,
		    supplier_name=?, unit_price=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, in.ItemName, in.Quantity, in.Threshold,
		nullable(in.SupplierWhatsapp), nullable(in.SupplierName), in.UnitPrice, id)
	return err
}

// SetQuantity persists a stepper move; callers clamp at zero first.
func (r *InventoryRepo) SetQuantity(id string, qty int) error {
	_, err := r.db.Exec(`
		UPDATE inventory SET quantity=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, qty, id)
	return err
}

func (r *InventoryRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM inventory WHERE id=?`, id)
	return err
}

func (r *InventoryRepo) CountLowStock() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM inventory WHERE quantity < threshold`)
	return n, err
}
