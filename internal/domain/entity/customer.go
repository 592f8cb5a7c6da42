package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a buyer. Aggregate purchase statistics and loyalty
// points are maintained by post-commit reactions to completed orders.
type Customer struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Email          *string        `gorm:"size:255" json:"email,omitempty"`
	Phone          *string        `gorm:"size:50" json:"phone,omitempty"`
	KRAPin         *string        `gorm:"size:50;column:kra_pin" json:"kra_pin,omitempty"`
	Address        *string        `gorm:"type:text" json:"address,omitempty"`
	CreditLimit    int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalPurchases int            `gorm:"default:0" json:"total_purchases"`
	TotalSpent     int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	LoyaltyPoints  int64          `gorm:"default:0" json:"loyalty_points"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Store  Store   `gorm:"foreignKey:StoreID" json:"-"`
	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		CreditLimit float64 `json:"credit_limit"`
		TotalSpent  float64 `json:"total_spent"`
	}{
		Alias:       Alias(c),
		CreditLimit: float64(c.CreditLimit) / 100,
		TotalSpent:  float64(c.TotalSpent) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
