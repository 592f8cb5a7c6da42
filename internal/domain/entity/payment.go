package entity

import (
	"encoding/json"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment records a single payment against an order. A payment is immutable
// once created; the only permitted mutation is the cancellation transition.
type Payment struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	CashierID uuid.UUID          `gorm:"type:uuid;not null;index" json:"cashier_id"`
	ShiftID   *uuid.UUID         `gorm:"type:uuid;index" json:"shift_id,omitempty"`
	Method    enum.PaymentMethod `gorm:"default:0" json:"method"`
	State     enum.PaymentState  `gorm:"default:0" json:"state"`
	Amount    int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Reference string             `gorm:"size:100" json:"reference,omitempty"`
	PaidAt    time.Time          `json:"paid_at"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	DeletedAt gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Order   Order        `gorm:"foreignKey:OrderID" json:"-"`
	Cashier User         `gorm:"foreignKey:CashierID" json:"-"`
	Shift   *ShiftReport `gorm:"foreignKey:ShiftID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
