package request

import "github.com/google/uuid"

// OrderItemRequest is one line of a new order
type OrderItemRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	DiscountPct float64   `json:"discount_pct" binding:"min=0,max=100"`
}

// InitialPaymentRequest optionally settles (part of) the order at creation
type InitialPaymentRequest struct {
	Method    int     `json:"method" binding:"min=0,max=3"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Reference string  `json:"reference" binding:"omitempty,max=255"`
}

// CreateOrderRequest represents an order creation request
type CreateOrderRequest struct {
	CustomerID     *uuid.UUID             `json:"customer_id"`
	OrderType      int                    `json:"order_type" binding:"min=0,max=3"`
	Notes          string                 `json:"notes" binding:"omitempty,max=1000"`
	ShippingAddr   *string                `json:"shipping_address"`
	Items          []OrderItemRequest     `json:"items" binding:"required,min=1,dive"`
	InitialPayment *InitialPaymentRequest `json:"initial_payment"`
}

// SubmitPaymentRequest represents a payment submission for an order
type SubmitPaymentRequest struct {
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	Method    int       `json:"method" binding:"min=0,max=3"`
	Amount    float64   `json:"amount" binding:"required,gt=0"`
	Reference string    `json:"reference" binding:"omitempty,max=255"`
}
