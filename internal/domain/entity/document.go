package entity

import (
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a numbered business paper issued for an order or refund.
// The number is allocated exactly once at generation time and never reused
// or mutated; re-rendering produces new bytes under the same number.
type Document struct {
	ID         uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Number     string              `gorm:"size:100;unique;not null" json:"number"`
	Type       enum.DocumentType   `gorm:"not null;index" json:"type"`
	Status     enum.DocumentStatus `gorm:"default:0" json:"status"`
	StoreID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"store_id"`
	OrderID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"order_id"`
	RefundID   *uuid.UUID          `gorm:"type:uuid;index" json:"refund_id,omitempty"`
	ContentRef string              `gorm:"size:255" json:"content_ref,omitempty"`
	PrintCount int                 `gorm:"default:0" json:"print_count"`
	IssuedAt   time.Time           `json:"issued_at"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	DeletedAt  gorm.DeletedAt      `gorm:"index" json:"-"`

	// Relationships
	Store  Store   `gorm:"foreignKey:StoreID" json:"-"`
	Order  Order   `gorm:"foreignKey:OrderID" json:"-"`
	Refund *Refund `gorm:"foreignKey:RefundID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new document
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Document model
func (Document) TableName() string {
	return "documents"
}

// DocumentHeader holds the store header printed at the top of a document.
type DocumentHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// DocumentLine represents a single line item on a rendered document.
type DocumentLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// DocumentData is a value object handed to a builder for rendering.
// It is not a database entity; it is composed from order/refund data at
// generation time and the renderer treats it as a read-only snapshot.
type DocumentData struct {
	Header      DocumentHeader `json:"header"`
	Number      string         `json:"number"`
	Title       string         `json:"title"`
	Date        string         `json:"date"`
	Cashier     string         `json:"cashier,omitempty"`
	Customer    string         `json:"customer,omitempty"`
	OrderNumber string         `json:"order_number"`
	Lines       []DocumentLine `json:"lines"`
	SubTotal    float64        `json:"sub_total"`
	Tax         float64        `json:"tax"`
	Discount    float64        `json:"discount"`
	Total       float64        `json:"total"`
	Paid        float64        `json:"paid"`
	Remaining   float64        `json:"remaining"`
	ValidUntil  string         `json:"valid_until,omitempty"`
	Footnote    string         `json:"footnote,omitempty"`
}
