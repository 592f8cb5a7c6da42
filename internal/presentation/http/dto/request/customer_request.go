package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	KRAPin      *string `json:"kra_pin" binding:"omitempty,max=50"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	CreditLimit float64 `json:"credit_limit" binding:"min=0"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Email       *string  `json:"email" binding:"omitempty,email"`
	Phone       *string  `json:"phone" binding:"omitempty,max=50"`
	KRAPin      *string  `json:"kra_pin" binding:"omitempty,max=50"`
	Address     *string  `json:"address" binding:"omitempty,max=500"`
	CreditLimit *float64 `json:"credit_limit" binding:"omitempty,min=0"`
}

// CreateStoreRequest represents a store creation request
type CreateStoreRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Code    string  `json:"code" binding:"required,min=2,max=20"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Email   *string `json:"email" binding:"omitempty,email"`
	TaxID   *string `json:"tax_id" binding:"omitempty,max=50"`
}

// UpdateStoreRequest represents a store update request
type UpdateStoreRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Email   *string `json:"email" binding:"omitempty,email"`
	TaxID   *string `json:"tax_id" binding:"omitempty,max=50"`
	Active  *bool   `json:"active"`
}
