package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"signcraft/internal/mail"
	"signcraft/internal/repos"
	"signcraft/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// modernc gives every connection its own :memory: database.
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE customers(id TEXT PRIMARY KEY, company_name TEXT NOT NULL UNIQUE,
	  email TEXT, phone TEXT, source TEXT NOT NULL DEFAULT 'web',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE categories(id TEXT PRIMARY KEY, name TEXT NOT NULL UNIQUE,
	  description TEXT, created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE products(id TEXT PRIMARY KEY, name TEXT NOT NULL, description TEXT,
	  category_id TEXT NOT NULL, image_url TEXT,
	  sizes_json TEXT NOT NULL DEFAULT '[]', materials_json TEXT NOT NULL DEFAULT '[]',
	  active INTEGER NOT NULL DEFAULT 1, top_seller INTEGER NOT NULL DEFAULT 0,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE enquiries(id TEXT PRIMARY KEY, customer_id TEXT NOT NULL,
	  product_id TEXT NOT NULL, size TEXT, quantity INTEGER NOT NULL DEFAULT 1,
	  material TEXT, delivery_date TEXT, comments TEXT,
	  status TEXT NOT NULL DEFAULT 'pending', reply_template_id TEXT,
	  quotation_amount NUMERIC, invoice_number TEXT,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE enquiry_activity(id INTEGER PRIMARY KEY AUTOINCREMENT,
	  enquiry_id TEXT NOT NULL, action TEXT NOT NULL, note TEXT NOT NULL DEFAULT '',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE templates(id TEXT PRIMARY KEY, type TEXT NOT NULL, category TEXT,
	  title TEXT NOT NULL, content TEXT NOT NULL, active INTEGER NOT NULL DEFAULT 1,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE inventory(id TEXT PRIMARY KEY, item_name TEXT NOT NULL,
	  quantity INTEGER NOT NULL DEFAULT 0, threshold INTEGER NOT NULL DEFAULT 10,
	  supplier_whatsapp TEXT, supplier_name TEXT, unit_price NUMERIC,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE carts(id TEXT PRIMARY KEY, session_id TEXT UNIQUE NOT NULL, updated_at TEXT);
	CREATE TABLE cart_items(id TEXT PRIMARY KEY, cart_id TEXT NOT NULL,
	  kind TEXT NOT NULL, product_id TEXT, name TEXT NOT NULL, size TEXT, material TEXT,
	  quantity INTEGER NOT NULL DEFAULT 1, comments TEXT,
	  images_json TEXT NOT NULL DEFAULT '[]', position INTEGER NOT NULL DEFAULT 0,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);

	INSERT INTO categories(id,name) VALUES ('cat-banners','Banners');
	INSERT INTO products(id,name,category_id,sizes_json,materials_json,active,top_seller)
	  VALUES ('prd-flex','Flex Banner','cat-banners','["6x3 ft"]','["Star flex"]',1,1);
	INSERT INTO templates(id,type,title,content,active)
	  VALUES ('tpl-quote','customer','Standard Quotation',
	          'Dear {customer_name}, quote for {product_name} x{quantity} ref {quotation_id}.',1);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

// fakeSender records outbound mail instead of dialing SMTP.
type fakeSender struct {
	sent []mail.Message
	fail error
}

func (f *fakeSender) Send(m mail.Message) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, m)
	return nil
}

func newEnquirySvc(db *sqlx.DB, sender mail.Sender) *services.EnquiryService {
	return services.NewEnquiryService(
		repos.NewCustomerRepo(db),
		repos.NewCategoryRepo(db),
		repos.NewProductRepo(db),
		repos.NewEnquiryRepo(db),
		repos.NewTemplateRepo(db),
		sender,
	)
}
