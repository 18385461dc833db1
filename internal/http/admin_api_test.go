package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"signcraft/internal/config"
	"signcraft/internal/http/handlers"
)

func adminApp(t *testing.T, sender *fakeSender) *fiber.App {
	t.Helper()
	db := openTestDB(t)
	cfg := config.Config{
		UploadDir:    t.TempDir(),
		QuoteMailbox: "sales@signcraft.example",
		CompanyName:  "SignCraft Displays",
	}
	deps := handlers.NewDeps(db, cfg, sender)

	app := fiber.New()
	api := app.Group("/admin/api")
	api.Get("/stats", deps.StatsHandler.Stats)
	api.Get("/enquiries", deps.AdminEnquiries.List)
	api.Get("/enquiries/export", deps.AdminEnquiries.Export)
	api.Post("/enquiries", deps.AdminEnquiries.Create)
	api.Post("/enquiries/bulk-status", deps.AdminEnquiries.BulkStatus)
	api.Post("/enquiries/send-reply", deps.AdminEnquiries.SendReply)
	api.Post("/enquiries/:id/status", deps.AdminEnquiries.SetStatus)
	api.Get("/enquiries/:id/activity", deps.AdminEnquiries.Activity)
	api.Post("/inventory/:id/adjust", deps.InventoryHandler.Adjust)
	return app
}

func adminPost(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

// seedEnquiry creates one enquiry through the manual intake endpoint and
// returns its id.
func seedEnquiry(t *testing.T, app *fiber.App, company string) string {
	t.Helper()
	resp := adminPost(t, app, "/admin/api/enquiries",
		`{"company_name":"`+company+`","email":"ops@`+strings.ToLower(strings.ReplaceAll(company, " ", ""))+`.example","product_id":"prd-flex-banner","quantity":2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("manual intake failed: %d", resp.StatusCode)
	}
	var out struct {
		IDs []string `json:"enquiry_ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.IDs) != 1 {
		t.Fatalf("want one id, got %v", out.IDs)
	}
	return out.IDs[0]
}

func TestAdminStatusEndpoint_InvoiceGate(t *testing.T) {
	app := adminApp(t, &fakeSender{})
	id := seedEnquiry(t, app, "Acme Signs")

	resp := adminPost(t, app, "/admin/api/enquiries/"+id+"/status",
		`{"status":"completed"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("completion without invoice must 400, got %d", resp.StatusCode)
	}

	resp = adminPost(t, app, "/admin/api/enquiries/"+id+"/status",
		`{"status":"completed","invoice_number":"INV-77"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("completion with invoice failed: %d", resp.StatusCode)
	}

	resp = adminPost(t, app, "/admin/api/enquiries/"+id+"/status",
		`{"status":"shipped"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown status must 400, got %d", resp.StatusCode)
	}

	resp = adminPost(t, app, "/admin/api/enquiries/nope/status",
		`{"status":"wip"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown enquiry must 404, got %d", resp.StatusCode)
	}
}

func TestAdminBulkStatusEndpoint(t *testing.T) {
	app := adminApp(t, &fakeSender{})
	a := seedEnquiry(t, app, "Acme Signs")
	b := seedEnquiry(t, app, "Borealis Prints")

	resp := adminPost(t, app, "/admin/api/enquiries/bulk-status",
		`{"enquiryIds":["`+a+`","`+b+`"],"status":"wip"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bulk status failed: %d", resp.StatusCode)
	}

	resp = adminPost(t, app, "/admin/api/enquiries/bulk-status",
		`{"enquiryIds":[],"status":"wip"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty selection must 400, got %d", resp.StatusCode)
	}
}

func TestAdminSendReplyEndpoint_MixedSelection(t *testing.T) {
	sender := &fakeSender{}
	app := adminApp(t, sender)
	a := seedEnquiry(t, app, "Acme Signs")
	b := seedEnquiry(t, app, "Borealis Prints")

	resp := adminPost(t, app, "/admin/api/enquiries/send-reply",
		`{"enquiryIds":["`+a+`","`+b+`"],"templateId":"tpl-quote","status":"replied"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("mixed selection must 400, got %d", resp.StatusCode)
	}
	if len(sender.sent) != 0 {
		t.Fatal("rejected batch still sent mail")
	}

	resp = adminPost(t, app, "/admin/api/enquiries/send-reply",
		`{"enquiryIds":["`+a+`"],"templateId":"tpl-quote","status":"replied"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("single-customer batch failed: %d", resp.StatusCode)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("want one mail, got %d", len(sender.sent))
	}
}

func TestAdminExportCSV(t *testing.T) {
	app := adminApp(t, &fakeSender{})
	seedEnquiry(t, app, "Acme Signs")
	seedEnquiry(t, app, "Borealis Prints")

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/api/enquiries/export", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export failed: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("want text/csv, got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "enquiries.csv") {
		t.Fatalf("missing download disposition: %q", cd)
	}
	raw, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %d lines", len(lines))
	}
}

func TestAdminInventoryAdjustEndpoint(t *testing.T) {
	app := adminApp(t, &fakeSender{})

	// Seeded ACP sheet starts at 3; a -5 step clamps at zero.
	resp := adminPost(t, app, "/admin/api/inventory/inv-acp-sheet/adjust", `{"delta":-5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("adjust failed: %d", resp.StatusCode)
	}
	var out struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Quantity != 0 {
		t.Fatalf("want clamp at 0, got %d", out.Quantity)
	}
}
