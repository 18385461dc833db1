package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"signcraft/internal/config"
	"signcraft/internal/http/handlers"
)

func cartApp(t *testing.T, sender *fakeSender) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db := openTestDB(t)
	cfg := config.Config{
		UploadDir:    t.TempDir(),
		QuoteMailbox: "sales@signcraft.example",
		CompanyName:  "SignCraft Displays",
	}
	deps := handlers.NewDeps(db, cfg, sender)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Get("/cart", deps.CartHandler.List)
	api.Post("/cart", deps.CartHandler.Add)
	api.Post("/cart/submit", deps.CartHandler.Submit)
	api.Post("/quotation-email", deps.EnquiryHandler.Quotation)
	return app, db
}

func postJSONWithCookie(t *testing.T, app *fiber.App, path, body, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

// A broken mail server must not lose the enquiry: rows are committed before
// the notification is attempted, and the response flags the send failure.
func TestCartSubmit_MailFailureKeepsRows(t *testing.T) {
	sender := &fakeSender{fail: errors.New("smtp down")}
	app, db := cartApp(t, sender)

	resp := postJSONWithCookie(t, app, "/api/v1/cart",
		`{"type":"product","product_id":"prd-flex-banner","quantity":2}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: got %d", resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("no session cookie issued")
	}

	resp = postJSONWithCookie(t, app, "/api/v1/cart/submit",
		`{"company_name":"Acme Signs","email":"buyer@acme.example"}`, sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: got %d", resp.StatusCode)
	}
	var body struct {
		OK         bool     `json:"ok"`
		EnquiryIDs []string `json:"enquiry_ids"`
		EmailError string   `json:"email_error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.OK || len(body.EnquiryIDs) != 1 {
		t.Fatalf("expected ok with one enquiry, got %+v", body)
	}
	if body.EmailError == "" {
		t.Fatal("expected email_error to be reported")
	}

	var pending int
	if err := db.Get(&pending, `SELECT COUNT(*) FROM enquiries WHERE status='pending'`); err != nil {
		t.Fatal(err)
	}
	if pending != 1 {
		t.Fatalf("expected 1 pending enquiry, got %d", pending)
	}

	// Cart still clears even when the notification failed.
	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	listResp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	var cart struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&cart); err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected cleared cart, got %d items", len(cart.Items))
	}
}

// Two cart items may upload the same client filename; the forwarded
// attachments must still be distinguishable.
func TestQuotation_SameFilenameAttachmentsStayDistinct(t *testing.T) {
	sender := &fakeSender{}
	app, _ := cartApp(t, sender)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("subject", "Quotation request"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteField("body", "Two banners, same artwork name."); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"item1_file_0", "item2_file_0"} {
		part, err := w.CreateFormFile(key, "logo.png")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(part, "png-bytes-"+key); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/api/v1/quotation-email", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	atts := sender.sent[0].Attachments
	if len(atts) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(atts))
	}
	if atts[0].Filename == atts[1].Filename {
		t.Fatalf("attachment names collide: %q", atts[0].Filename)
	}
	for _, a := range atts {
		if !strings.HasSuffix(a.Filename, "logo.png") {
			t.Fatalf("original name lost: %q", a.Filename)
		}
	}
}
