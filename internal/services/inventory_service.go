package services

import (
	"errors"
	"fmt"
	"net/url"

	"signcraft/internal/domain"
	"signcraft/internal/repos"
)

var ErrReorderUnavailable = errors.New("reorder needs low stock and a supplier contact")

type InventoryService struct {
	Inv         *repos.InventoryRepo
	CompanyName string
}

func NewInventoryService(inv *repos.InventoryRepo, companyName string) *InventoryService {
	return &InventoryService{Inv: inv, CompanyName: companyName}
}

// ItemView decorates a row with the derived low-stock flag. The flag is
// recomputed on every read and never stored.
type ItemView struct {
	domain.InventoryItem
	LowStock bool `json:"low_stock"`
}

func (s *InventoryService) List() ([]ItemView, error) {
	items, err := s.Inv.List()
	if err != nil {
		return nil, err
	}
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, ItemView{InventoryItem: it, LowStock: it.LowStock()})
	}
	return out, nil
}

// Adjust moves quantity by delta (the admin stepper uses ±1) and clamps the
// result at zero before persisting.
func (s *InventoryService) Adjust(id string, delta int) (int, error) {
	it, err := s.Inv.Get(id)
	if err != nil {
		return 0, err
	}
	qty := it.Quantity + delta
	if qty < 0 {
		qty = 0
	}
	if err := s.Inv.SetQuantity(id, qty); err != nil {
		return 0, err
	}
	return qty, nil
}

// ReorderLink builds the supplier hand-off: a fixed-format message wrapped in
// a wa.me deep link. No order state is recorded.
func (s *InventoryService) ReorderLink(id string) (string, error) {
	it, err := s.Inv.Get(id)
	if err != nil {
		return "", err
	}
	if !it.LowStock() || !it.SupplierWhatsapp.Valid || it.SupplierWhatsapp.String == "" {
		return "", ErrReorderUnavailable
	}
	msg := fmt.Sprintf(
		"Hello,\n\nWe need to place an order for:\nItem: %s\nQuantity: %d\nCurrent Stock: %d\n\nPlease confirm availability and pricing.\n\nBest regards,\n%s",
		it.ItemName, it.Threshold, it.Quantity, s.CompanyName)
	return fmt.Sprintf("https://wa.me/%s?text=%s",
		it.SupplierWhatsapp.String, url.QueryEscape(msg)), nil
}
