package domain

import "database/sql"

// CustomOrdersCategory is the reserved bucket that hosts freeform products
// submitted through the custom-order form.
const CustomOrdersCategory = "Custom Orders"

type Customer struct {
	ID          string         `db:"id" json:"id"`
	CompanyName string         `db:"company_name" json:"company_name"`
	Email       sql.NullString `db:"email" json:"email"`
	Phone       sql.NullString `db:"phone" json:"phone"`
	Source      string         `db:"source" json:"source"` // web | manual
	CreatedAt   string         `db:"created_at" json:"created_at"`
	UpdatedAt   sql.NullString `db:"updated_at" json:"updated_at"`
}

type Category struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description"`
	CreatedAt   string         `db:"created_at" json:"created_at"`
	UpdatedAt   sql.NullString `db:"updated_at" json:"updated_at"`
}

type Product struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description"`
	CategoryID  string         `db:"category_id" json:"category_id"`
	// Either a single URL or a JSON-encoded ordered list (slideshow).
	ImageURL      sql.NullString `db:"image_url" json:"image_url"`
	SizesJSON     string         `db:"sizes_json" json:"sizes_json"`
	MaterialsJSON string         `db:"materials_json" json:"materials_json"`
	Active        bool           `db:"active" json:"is_active"`
	TopSeller     bool           `db:"top_seller" json:"top_seller"`
	CreatedAt     string         `db:"created_at" json:"created_at"`
	UpdatedAt     sql.NullString `db:"updated_at" json:"updated_at"`
}

type Enquiry struct {
	ID              string          `db:"id" json:"id"`
	CustomerID      string          `db:"customer_id" json:"customer_id"`
	ProductID       string          `db:"product_id" json:"product_id"`
	Size            sql.NullString  `db:"size" json:"size"`
	Quantity        int             `db:"quantity" json:"quantity"`
	Material        sql.NullString  `db:"material" json:"material"`
	DeliveryDate    sql.NullString  `db:"delivery_date" json:"delivery_date"`
	Comments        sql.NullString  `db:"comments" json:"comments"`
	Status          string          `db:"status" json:"status"`
	ReplyTemplateID sql.NullString  `db:"reply_template_id" json:"reply_template_id"`
	QuotationAmount sql.NullFloat64 `db:"quotation_amount" json:"quotation_amount"`
	InvoiceNumber   sql.NullString  `db:"invoice_number" json:"invoice_number"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
	UpdatedAt       sql.NullString  `db:"updated_at" json:"updated_at"`
}

// Enquiry statuses. An open label set: any status may follow any other.
const (
	StatusPending        = "pending"
	StatusPOPending      = "po_pending"
	StatusOrderConfirmed = "order_confirmed"
	StatusIncorrectPO    = "incorrect_po"
	StatusArtworkSent    = "artwork_sent"
	StatusWIP            = "wip"
	StatusReplied        = "replied"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
)

var EnquiryStatuses = []string{
	StatusPending, StatusPOPending, StatusOrderConfirmed, StatusIncorrectPO,
	StatusArtworkSent, StatusWIP, StatusReplied, StatusCompleted, StatusCancelled,
}

func ValidStatus(s string) bool {
	for _, v := range EnquiryStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Activity actions.
const (
	ActionReply        = "reply"
	ActionStatusChange = "status_change"
	ActionReplyEmail   = "reply_email"
)

type Activity struct {
	ID        int64  `db:"id" json:"id"`
	EnquiryID string `db:"enquiry_id" json:"enquiry_id"`
	Action    string `db:"action" json:"action"`
	Note      string `db:"note" json:"note"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Template struct {
	ID        string         `db:"id" json:"id"`
	Type      string         `db:"type" json:"type"` // customer | supplier
	Category  sql.NullString `db:"category" json:"category"`
	Title     string         `db:"title" json:"title"`
	Content   string         `db:"content" json:"content"`
	Active    bool           `db:"active" json:"is_active"`
	CreatedAt string         `db:"created_at" json:"created_at"`
	UpdatedAt sql.NullString `db:"updated_at" json:"updated_at"`
}

type InventoryItem struct {
	ID               string          `db:"id" json:"id"`
	ItemName         string          `db:"item_name" json:"item_name"`
	Quantity         int             `db:"quantity" json:"quantity"`
	Threshold        int             `db:"threshold" json:"threshold"`
	SupplierWhatsapp sql.NullString  `db:"supplier_whatsapp" json:"supplier_whatsapp"`
	SupplierName     sql.NullString  `db:"supplier_name" json:"supplier_name"`
	UnitPrice        sql.NullFloat64 `db:"unit_price" json:"unit_price"`
	CreatedAt        string          `db:"created_at" json:"created_at"`
	UpdatedAt        sql.NullString  `db:"updated_at" json:"updated_at"`
}

// LowStock is derived on every read, never stored.
func (i InventoryItem) LowStock() bool { return i.Quantity < i.Threshold }

// Cart line kinds. A line is a tagged variant: "product" lines reference a
// catalog product, "custom" lines carry only a display name.
const (
	LineProduct = "product"
	LineCustom  = "custom"
)

type CartLine struct {
	ID         string         `db:"id" json:"id"`
	CartID     string         `db:"cart_id" json:"-"`
	Kind       string         `db:"kind" json:"type"`
	ProductID  sql.NullString `db:"product_id" json:"product_id"`
	Name       string         `db:"name" json:"name"`
	Size       sql.NullString `db:"size" json:"size"`
	Material   sql.NullString `db:"material" json:"material"`
	Quantity   int            `db:"quantity" json:"quantity"`
	Comments   sql.NullString `db:"comments" json:"comments"`
	ImagesJSON string         `db:"images_json" json:"-"`
	Position   int            `db:"position" json:"-"`
	CreatedAt  string         `db:"created_at" json:"created_at"`
}
