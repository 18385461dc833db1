package services_test

import (
	"strings"
	"testing"

	"signcraft/internal/repos"
	"signcraft/internal/services"
)

func seedInventory(t *testing.T, inv *repos.InventoryRepo, name string, qty, threshold int, whatsapp string) string {
	t.Helper()
	id, err := inv.Create(repos.InventoryInput{
		ItemName: name, Quantity: qty, Threshold: threshold,
		SupplierWhatsapp: whatsapp, SupplierName: "Mahesh Traders",
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestInventoryList_LowStockIsStrictlyBelowThreshold(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)
	svc := services.NewInventoryService(inv, "SignCraft Displays")

	seedInventory(t, inv, "ACP Sheet 8x4", 5, 10, "")
	seedInventory(t, inv, "Flex Roll 8ft", 10, 10, "")

	items, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	flags := map[string]bool{}
	for _, it := range items {
		flags[it.ItemName] = it.LowStock
	}
	if !flags["ACP Sheet 8x4"] {
		t.Fatal("5 of 10 should be low stock")
	}
	if flags["Flex Roll 8ft"] {
		t.Fatal("quantity equal to threshold must not be low stock")
	}
}

func TestInventoryAdjust_ClampsAtZero(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)
	svc := services.NewInventoryService(inv, "SignCraft Displays")
	id := seedInventory(t, inv, "Brass Eyelets (100)", 2, 20, "")

	qty, err := svc.Adjust(id, -5)
	if err != nil {
		t.Fatal(err)
	}
	if qty != 0 {
		t.Fatalf("want clamp at 0, got %d", qty)
	}
	it, err := inv.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if it.Quantity != 0 {
		t.Fatalf("persisted quantity %d, want 0", it.Quantity)
	}

	if qty, err = svc.Adjust(id, 1); err != nil || qty != 1 {
		t.Fatalf("increment after clamp: qty=%d err=%v", qty, err)
	}
}

func TestReorderLink_GatedAndEscaped(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)
	svc := services.NewInventoryService(inv, "SignCraft Displays")

	healthy := seedInventory(t, inv, "Flex Roll 8ft", 12, 5, "919812345001")
	if _, err := svc.ReorderLink(healthy); err != services.ErrReorderUnavailable {
		t.Fatalf("healthy stock must not offer reorder, got %v", err)
	}

	noSupplier := seedInventory(t, inv, "Brass Eyelets (100)", 1, 20, "")
	if _, err := svc.ReorderLink(noSupplier); err != services.ErrReorderUnavailable {
		t.Fatalf("missing supplier must not offer reorder, got %v", err)
	}

	low := seedInventory(t, inv, "ACP Sheet 8x4", 3, 6, "919812345002")
	link, err := svc.ReorderLink(low)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(link, "https://wa.me/919812345002?text=") {
		t.Fatalf("bad link prefix: %q", link)
	}
	if strings.ContainsAny(link, " \n") {
		t.Fatalf("message not URL-escaped: %q", link)
	}
	if !strings.Contains(link, "ACP+Sheet+8x4") || !strings.Contains(link, "Current+Stock%3A+3") {
		t.Fatalf("message content missing: %q", link)
	}
}
