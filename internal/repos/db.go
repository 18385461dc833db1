package repos

import (
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// modernc scopes :memory: per connection; a second pooled connection
	// would see an empty database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog and templates if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure the admin user exists (idempotent; safe to run every start)
	if err := seedAdmin(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Admin users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Customers, keyed by company name
CREATE TABLE IF NOT EXISTS customers(
  id TEXT PRIMARY KEY,
  company_name TEXT NOT NULL UNIQUE,
  email TEXT,
  phone TEXT,
  source TEXT NOT NULL DEFAULT 'web' CHECK (source IN ('web','manual')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_company ON customers(company_name);

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  image_url TEXT,
  sizes_json TEXT NOT NULL DEFAULT '[]',
  materials_json TEXT NOT NULL DEFAULT '[]',
  active INTEGER NOT NULL DEFAULT 1,
  top_seller INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Enquiries: one row per requested line item
CREATE TABLE IF NOT EXISTS enquiries(
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES customers(id),
  product_id TEXT NOT NULL REFERENCES products(id),
  size TEXT,
  quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
  material TEXT,
  delivery_date TEXT,
  comments TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  reply_template_id TEXT,
  quotation_amount NUMERIC,
  invoice_number TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_enquiries_customer ON enquiries(customer_id);
CREATE INDEX IF NOT EXISTS idx_enquiries_status   ON enquiries(status);
CREATE INDEX IF NOT EXISTS idx_enquiries_created  ON enquiries(created_at);

-- Append-only per-enquiry audit trail
CREATE TABLE IF NOT EXISTS enquiry_activity(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  enquiry_id TEXT NOT NULL REFERENCES enquiries(id) ON DELETE CASCADE,
  action TEXT NOT NULL CHECK (action IN ('reply','status_change','reply_email')),
  note TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_activity_enquiry ON enquiry_activity(enquiry_id);

-- Communication templates
CREATE TABLE IF NOT EXISTS templates(
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL CHECK (type IN ('customer','supplier')),
  category TEXT,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Workshop inventory
CREATE TABLE IF NOT EXISTS inventory(
  id TEXT PRIMARY KEY,
  item_name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  threshold INTEGER NOT NULL DEFAULT 10,
  supplier_whatsapp TEXT,
  supplier_name TEXT,
  unit_price NUMERIC,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Visitor carts (one per anonymous session cookie)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  kind TEXT NOT NULL CHECK (kind IN ('product','custom')),
  product_id TEXT REFERENCES products(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  size TEXT,
  material TEXT,
  quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
  comments TEXT,
  images_json TEXT NOT NULL DEFAULT '[]',
  position INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting starter categories/products/templates/inventory")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,description) VALUES
	  ('cat-banners','Banners','Flex and vinyl banners for indoor and outdoor use'),
	  ('cat-boards','Sign Boards','ACP, acrylic and LED sign boards'),
	  ('cat-vehicle','Vehicle Branding','Full and partial vehicle wraps')`)

	tx.MustExec(`INSERT INTO products(id,name,description,category_id,image_url,sizes_json,materials_json,active,top_seller) VALUES
	  ('prd-flex-banner','Flex Banner','Digitally printed flex banner with eyelets','cat-banners',
	   '/uploads/seed-flex-banner.jpg','["3x2 ft","6x3 ft","8x4 ft"]','["Star flex","Backlit flex"]',1,1),
	  ('prd-acp-board','ACP Sign Board','Aluminium composite panel board with routed lettering','cat-boards',
	   '["/uploads/seed-acp-front.jpg","/uploads/seed-acp-side.jpg"]','["4x3 ft","8x4 ft"]','["ACP","Acrylic"]',1,1),
	  ('prd-led-board','LED Glow Sign','Backlit LED glow sign board','cat-boards',
	   '/uploads/seed-led-board.jpg','["2x2 ft","4x2 ft"]','["Acrylic","Polycarbonate"]',1,0)`)

	tx.MustExec(`INSERT INTO templates(id,type,category,title,content,active) VALUES
	  ('tpl-quote','customer',NULL,'Standard Quotation',
	   'Dear {customer_name},' || char(10) || char(10) ||
	   'Thank you for your enquiry about {product_name}.' || char(10) ||
	   'Size: {size} | Material: {material} | Quantity: {quantity}' || char(10) ||
	   'We will deliver by {delivery_date}.' || char(10) || char(10) ||
	   'Regards,' || char(10) || 'SignCraft Displays',1),
	  ('tpl-reorder','supplier',NULL,'Reorder Request',
	   'Hello {supplier_name}, we would like to reorder {item_name} ({quantity} units).',1)`)

	tx.MustExec(`INSERT INTO inventory(id,item_name,quantity,threshold,supplier_whatsapp,supplier_name,unit_price) VALUES
	  ('inv-flex-roll','Flex Roll 8ft',12,5,'919812345001','Mahesh Traders',2150),
	  ('inv-acp-sheet','ACP Sheet 8x4',3,6,'919812345002','Alucobond Depot',1880),
	  ('inv-eyelets','Brass Eyelets (100)',40,20,NULL,NULL,260)`)

	return tx.Commit()
}

// seedAdmin ensures a single admin login exists (idempotent).
func seedAdmin(db *sqlx.DB) error {
	pass := os.Getenv("ADMIN_PASSWORD")
	if pass == "" {
		pass = "ChangeMe!1"
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pass), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,username,password_hash)
		VALUES('u-admin','admin',?)
		ON CONFLICT(username) DO NOTHING
	`, string(h))
	return err
}
