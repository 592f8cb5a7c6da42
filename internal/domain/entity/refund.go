package entity

import (
	"encoding/json"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Refund represents a return against a completed order.
type Refund struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Number      string            `gorm:"size:100;unique;not null" json:"number"`
	OrderID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"order_id"`
	StoreID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	RequestedBy uuid.UUID         `gorm:"type:uuid;not null" json:"requested_by"`
	Type        enum.RefundType   `gorm:"default:0" json:"type"`
	Status      enum.RefundStatus `gorm:"default:0" json:"status"`
	Amount      int64             `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Reason      string            `gorm:"type:text" json:"reason,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	Order Order        `gorm:"foreignKey:OrderID" json:"-"`
	Store Store        `gorm:"foreignKey:StoreID" json:"-"`
	Items []RefundItem `gorm:"foreignKey:RefundID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Refund) MarshalJSON() ([]byte, error) {
	type Alias Refund
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(r),
		Amount: float64(r.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new refund
func (r *Refund) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Refund model
func (Refund) TableName() string {
	return "refunds"
}

// RefundItem is a returned line within a refund.
type RefundItem struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RefundID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"refund_id"`
	ProductID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity          int            `gorm:"not null" json:"quantity"`
	Amount            int64          `gorm:"not null" json:"-"`  // Stored in cents, excluded from JSON
	RestockingFee     int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ExchangeProductID *uuid.UUID     `gorm:"type:uuid" json:"exchange_product_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Refund  Refund  `gorm:"foreignKey:RefundID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ri RefundItem) MarshalJSON() ([]byte, error) {
	type Alias RefundItem
	return json.Marshal(&struct {
		Alias
		Amount        float64 `json:"amount"`
		RestockingFee float64 `json:"restocking_fee"`
	}{
		Alias:         Alias(ri),
		Amount:        float64(ri.Amount) / 100,
		RestockingFee: float64(ri.RestockingFee) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new refund item
func (ri *RefundItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RefundItem model
func (RefundItem) TableName() string {
	return "refund_items"
}
