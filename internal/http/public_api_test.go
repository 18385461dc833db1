package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"signcraft/internal/config"
	"signcraft/internal/http/handlers"
)

func publicApp(t *testing.T, sender *fakeSender) *fiber.App {
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
	api.Get("/products", deps.CatalogHandler.Products)
	api.Post("/cart-enquiries", deps.EnquiryHandler.Create)
	api.Post("/contact", deps.EnquiryHandler.Contact)
	api.Post("/upload", deps.UploadHandler.Image)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCartEnquiries_RejectsIncompleteSubmission(t *testing.T) {
	app := publicApp(t, &fakeSender{})

	resp := postJSON(t, app, "/api/v1/cart-enquiries",
		`{"company_name":"","items":[{"type":"product","id":"prd-flex-banner","quantity":1}]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing company, got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/api/v1/cart-enquiries",
		`{"company_name":"Acme Signs","items":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", resp.StatusCode)
	}
}

func TestCartEnquiries_PersistsSeededProductLine(t *testing.T) {
	app := publicApp(t, &fakeSender{})

	resp := postJSON(t, app, "/api/v1/cart-enquiries", `{
		"company_name": "Acme Signs",
		"email": "buyer@acme.example",
		"items": [
			{"type":"product","id":"prd-flex-banner","name":"Flex Banner","size":"6x3 ft","quantity":2},
			{"type":"custom","name":"Neon Arrow","quantity":1}
		]
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		OK  bool     `json:"ok"`
		IDs []string `json:"enquiry_ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.OK || len(out.IDs) != 2 {
		t.Fatalf("expected 2 enquiry ids, got %+v", out)
	}
}

func TestContact_ValidatesThenForwards(t *testing.T) {
	sender := &fakeSender{}
	app := publicApp(t, sender)

	resp := postJSON(t, app, "/api/v1/contact",
		`{"name":"Priya","email":"not-an-email","message":"Need a quote"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", resp.StatusCode)
	}
	if len(sender.sent) != 0 {
		t.Fatal("rejected form still sent mail")
	}

	resp = postJSON(t, app, "/api/v1/contact",
		`{"name":"Priya","email":"priya@acme.example","message":"Need a quote"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "sales@signcraft.example" {
		t.Fatalf("contact mail not forwarded to the sales mailbox: %+v", sender.sent)
	}
}

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestUpload_RejectsNonImageContent(t *testing.T) {
	app := publicApp(t, &fakeSender{})

	body, ct := multipartImage(t, "image", "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest("POST", "/api/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image part, got %d", resp.StatusCode)
	}
}

func TestUpload_StoresImageUnderGeneratedName(t *testing.T) {
	app := publicApp(t, &fakeSender{})

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	body, ct := multipartImage(t, "image", "../sketch.png", "image/png", png)
	req := httptest.NewRequest("POST", "/api/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.URL, "/uploads/") {
		t.Fatalf("unexpected url %q", out.URL)
	}
	// Client filename never leaks into the stored name.
	if strings.Contains(out.URL, "sketch") || strings.Contains(out.URL, "..") {
		t.Fatalf("stored name derived from client filename: %q", out.URL)
	}
	if !strings.HasSuffix(out.URL, ".png") {
		t.Fatalf("extension not kept: %q", out.URL)
	}
}
