package entity

import (
	"encoding/json"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order represents a sales order. Orders are only ever constructed through
// the order service; monetary fields are stored in cents.
// Invariants: Total = SubTotal + Tax - Discount, Remaining = Total - Paid - Credit.
type Order struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Number        string             `gorm:"size:100;unique;not null" json:"number"`
	StoreID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"store_id"`
	CashierID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CustomerID    *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	OrderType     enum.OrderType     `gorm:"default:0" json:"order_type"`
	Status        enum.OrderStatus   `gorm:"default:0" json:"status"`
	PaymentStatus enum.PaymentStatus `gorm:"default:0" json:"payment_status"`
	TotalItems    int                `gorm:"default:0" json:"total_items"`
	SubTotal      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax           int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total         int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Paid          int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Credit        int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Remaining     int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Notes         string             `gorm:"type:text" json:"notes,omitempty"`
	ShippingAddr  *string            `gorm:"type:text" json:"shipping_address,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Store    Store      `gorm:"foreignKey:StoreID" json:"-"`
	Cashier  User       `gorm:"foreignKey:CashierID" json:"-"`
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		SubTotal  float64 `json:"sub_total"`
		Tax       float64 `json:"tax"`
		Discount  float64 `json:"discount"`
		Total     float64 `json:"total"`
		Paid      float64 `json:"paid"`
		Credit    float64 `json:"credit"`
		Remaining float64 `json:"remaining"`
	}{
		Alias:     Alias(o),
		SubTotal:  float64(o.SubTotal) / 100,
		Tax:       float64(o.Tax) / 100,
		Discount:  float64(o.Discount) / 100,
		Total:     float64(o.Total) / 100,
		Paid:      float64(o.Paid) / 100,
		Credit:    float64(o.Credit) / 100,
		Remaining: float64(o.Remaining) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// RecomputeTotals derives the monetary aggregates from the order's items.
func (o *Order) RecomputeTotals() {
	var subTotal, discount int64
	var totalItems int
	for _, item := range o.Items {
		subTotal += item.UnitPrice * int64(item.Quantity)
		discount += item.DiscountAmount
		totalItems += item.Quantity
	}
	o.SubTotal = subTotal
	o.Discount = discount
	o.TotalItems = totalItems
	o.Total = o.SubTotal + o.Tax - o.Discount
	o.Remaining = o.Total - o.Paid - o.Credit
}

// ApplyPayments recomputes paid/credit/remaining from the given payments.
// Paid sums settled payments, credit sums credit-state payments; cancelled
// payments are ignored.
func (o *Order) ApplyPayments(payments []Payment) {
	var paid, credit int64
	for _, p := range payments {
		if !p.State.IsActive() {
			continue
		}
		if p.State == enum.PaymentStateCredit {
			credit += p.Amount
		} else {
			paid += p.Amount
		}
	}
	o.Paid = paid
	o.Credit = credit
	o.Remaining = o.Total - paid - credit
	switch {
	case o.Total > 0 && paid+credit >= o.Total:
		o.PaymentStatus = enum.PaymentStatusPaid
		if o.Remaining < 0 {
			// cash overpayment: change due, the order itself is settled
			o.Remaining = 0
		}
	case paid+credit > 0:
		o.PaymentStatus = enum.PaymentStatusPartial
	default:
		o.PaymentStatus = enum.PaymentStatusUnpaid
	}
}

// GetTotalDecimal returns the total as a decimal
func (o *Order) GetTotalDecimal() float64 {
	return float64(o.Total) / 100
}

// OrderItem represents a line item in an order, owned exclusively by it.
// UnitPrice is a snapshot of the product price at sale time.
type OrderItem struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity       int            `gorm:"not null" json:"quantity"`
	UnitPrice      int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	DiscountPct    float64        `gorm:"default:0" json:"discount_pct"`
	DiscountAmount int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	FinalPrice     int64          `gorm:"not null" json:"-"`  // Stored in cents, excluded from JSON
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice      float64 `json:"unit_price"`
		DiscountAmount float64 `json:"discount_amount"`
		FinalPrice     float64 `json:"final_price"`
	}{
		Alias:          Alias(oi),
		UnitPrice:      float64(oi.UnitPrice) / 100,
		DiscountAmount: float64(oi.DiscountAmount) / 100,
		FinalPrice:     float64(oi.FinalPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
