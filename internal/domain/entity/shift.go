package entity

import (
	"encoding/json"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShiftReport is a cash-register session bounded by an open and close action.
// Running totals are mutated additively by settled payments while the shift
// is open and frozen once it is closed. At most one OPEN shift may exist per
// cashier per register; a partial unique index enforces this at the storage
// boundary.
type ShiftReport struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	StoreID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"store_id"`
	CashierID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CashRegisterCode string           `gorm:"size:50;not null" json:"cash_register_code"`
	Status           enum.ShiftStatus `gorm:"default:0" json:"status"`
	OpeningBalance   int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ExpectedBalance  int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ActualBalance    int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discrepancy      int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CashTotal        int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CardTotal        int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	MobileTotal      int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalSales       int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalRefunds     int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CashRefunds      int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TransactionCount int              `gorm:"default:0" json:"transaction_count"`
	Notes            string           `gorm:"type:text" json:"notes,omitempty"`
	OpenedAt         time.Time        `json:"opened_at"`
	ClosedAt         *time.Time       `json:"closed_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Store   Store `gorm:"foreignKey:StoreID" json:"-"`
	Cashier User  `gorm:"foreignKey:CashierID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s ShiftReport) MarshalJSON() ([]byte, error) {
	type Alias ShiftReport
	return json.Marshal(&struct {
		Alias
		OpeningBalance  float64 `json:"opening_balance"`
		ExpectedBalance float64 `json:"expected_balance"`
		ActualBalance   float64 `json:"actual_balance"`
		Discrepancy     float64 `json:"discrepancy"`
		CashTotal       float64 `json:"cash_total"`
		CardTotal       float64 `json:"card_total"`
		MobileTotal     float64 `json:"mobile_total"`
		TotalSales      float64 `json:"total_sales"`
		TotalRefunds    float64 `json:"total_refunds"`
		CashRefunds     float64 `json:"cash_refunds"`
	}{
		Alias:           Alias(s),
		OpeningBalance:  float64(s.OpeningBalance) / 100,
		ExpectedBalance: float64(s.ExpectedBalance) / 100,
		ActualBalance:   float64(s.ActualBalance) / 100,
		Discrepancy:     float64(s.Discrepancy) / 100,
		CashTotal:       float64(s.CashTotal) / 100,
		CardTotal:       float64(s.CardTotal) / 100,
		MobileTotal:     float64(s.MobileTotal) / 100,
		TotalSales:      float64(s.TotalSales) / 100,
		TotalRefunds:    float64(s.TotalRefunds) / 100,
		CashRefunds:     float64(s.CashRefunds) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new shift report
func (s *ShiftReport) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ShiftReport model
func (ShiftReport) TableName() string {
	return "shift_reports"
}

// ComputeExpectedBalance returns the till balance the register should hold.
// Only cash moves through the physical till; card and mobile totals are
// informational.
func (s *ShiftReport) ComputeExpectedBalance() int64 {
	return s.OpeningBalance + s.CashTotal - s.CashRefunds
}
