package request

// OpenShiftRequest represents a shift opening request
type OpenShiftRequest struct {
	CashRegisterCode string  `json:"cash_register_code" binding:"required,min=1,max=50"`
	OpeningBalance   float64 `json:"opening_balance" binding:"min=0"`
	Notes            string  `json:"notes" binding:"omitempty,max=1000"`
}

// CloseShiftRequest represents a shift closing request
type CloseShiftRequest struct {
	ActualBalance float64 `json:"actual_balance" binding:"min=0"`
	Notes         string  `json:"notes" binding:"omitempty,max=1000"`
}
