package request

import "github.com/google/uuid"

// GenerateDocumentRequest represents a document generation request
type GenerateDocumentRequest struct {
	OrderID  uuid.UUID  `json:"order_id" binding:"required"`
	Type     int        `json:"type" binding:"min=0,max=5"`
	RefundID *uuid.UUID `json:"refund_id"`
}

// RefundItemRequest is one line of a refund request
type RefundItemRequest struct {
	ProductID         uuid.UUID  `json:"product_id" binding:"required"`
	Quantity          int        `json:"quantity" binding:"required,min=1"`
	Amount            float64    `json:"amount" binding:"required,gt=0"`
	RestockingFee     float64    `json:"restocking_fee" binding:"min=0"`
	ExchangeProductID *uuid.UUID `json:"exchange_product_id"`
}

// CreateRefundRequest represents a refund creation request
type CreateRefundRequest struct {
	OrderID uuid.UUID           `json:"order_id" binding:"required"`
	Type    int                 `json:"type" binding:"min=0,max=2"`
	Reason  string              `json:"reason" binding:"required,min=3,max=1000"`
	Items   []RefundItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TransitionRefundRequest moves a refund to a new status
type TransitionRefundRequest struct {
	Status int `json:"status" binding:"min=0,max=6"`
}
