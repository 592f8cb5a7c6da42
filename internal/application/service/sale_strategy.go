package service

import (
	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
)

// SaleStrategy is the per-order-type policy governing validation, initial
// state and completion rules. The set of strategies is closed; resolution
// happens over the OrderType enum so a missing strategy cannot occur at
// runtime.
type SaleStrategy interface {
	// Validate returns human-readable violations; an empty slice means the
	// draft order is acceptable. Violations abort creation before persistence.
	Validate(order *entity.Order) []string
	// PrepareOrder sets the initial status and payment status on the draft.
	PrepareOrder(order *entity.Order)
	// FinalizeOrder promotes the order after payments have been applied.
	FinalizeOrder(order *entity.Order)
	DocumentType() enum.DocumentType
	AllowsPartialPayment() bool
}

// strategyForOrderType resolves the policy for an order type. Unknown values
// fall back to counter sale.
func strategyForOrderType(t enum.OrderType) SaleStrategy {
	switch t {
	case enum.OrderTypeCreditSale:
		return creditSaleStrategy{}
	case enum.OrderTypeProforma:
		return proformaStrategy{}
	case enum.OrderTypeOnlineSale:
		return onlineSaleStrategy{}
	default:
		return counterSaleStrategy{}
	}
}

type counterSaleStrategy struct{}

func (counterSaleStrategy) Validate(order *entity.Order) []string {
	var violations []string
	if len(order.Items) == 0 {
		violations = append(violations, "order must contain at least one item")
	}
	if order.Total <= 0 {
		violations = append(violations, "order total must be positive")
	}
	return violations
}

func (counterSaleStrategy) PrepareOrder(order *entity.Order) {
	order.Status = enum.OrderStatusPending
	order.PaymentStatus = enum.PaymentStatusUnpaid
	order.Notes = appendTypeMarker(order.Notes, "counter sale")
}

func (counterSaleStrategy) FinalizeOrder(order *entity.Order) {
	if order.PaymentStatus == enum.PaymentStatusPaid {
		order.Status = enum.OrderStatusCompleted
	}
}

func (counterSaleStrategy) DocumentType() enum.DocumentType { return enum.DocumentTypeTicket }
func (counterSaleStrategy) AllowsPartialPayment() bool      { return true }

type creditSaleStrategy struct{}

func (creditSaleStrategy) Validate(order *entity.Order) []string {
	var violations []string
	if len(order.Items) == 0 {
		violations = append(violations, "order must contain at least one item")
	}
	if order.Total <= 0 {
		violations = append(violations, "order total must be positive")
	}
	if order.CustomerID == nil {
		violations = append(violations, "customer is mandatory for credit sale")
	}
	return violations
}

func (creditSaleStrategy) PrepareOrder(order *entity.Order) {
	order.Status = enum.OrderStatusPending
	order.PaymentStatus = enum.PaymentStatusUnpaid
	order.Notes = appendTypeMarker(order.Notes, "credit sale")
}

// FinalizeOrder leaves credit sales PENDING; settlement happens through
// follow-up payments against the outstanding balance.
func (creditSaleStrategy) FinalizeOrder(order *entity.Order) {}

func (creditSaleStrategy) DocumentType() enum.DocumentType { return enum.DocumentTypeInvoice }
func (creditSaleStrategy) AllowsPartialPayment() bool      { return true }

type proformaStrategy struct{}

func (proformaStrategy) Validate(order *entity.Order) []string {
	var violations []string
	if len(order.Items) == 0 {
		violations = append(violations, "order must contain at least one item")
	}
	return violations
}

func (proformaStrategy) PrepareOrder(order *entity.Order) {
	order.Status = enum.OrderStatusPending
	order.PaymentStatus = enum.PaymentStatusUnpaid
	order.Notes = appendTypeMarker(order.Notes, "proforma")
}

// FinalizeOrder keeps proformas PENDING; they carry no payment requirement.
func (proformaStrategy) FinalizeOrder(order *entity.Order) {}

func (proformaStrategy) DocumentType() enum.DocumentType { return enum.DocumentTypeProforma }
func (proformaStrategy) AllowsPartialPayment() bool      { return false }

type onlineSaleStrategy struct{}

func (onlineSaleStrategy) Validate(order *entity.Order) []string {
	var violations []string
	if len(order.Items) == 0 {
		violations = append(violations, "order must contain at least one item")
	}
	if order.Total <= 0 {
		violations = append(violations, "order total must be positive")
	}
	return violations
}

func (onlineSaleStrategy) PrepareOrder(order *entity.Order) {
	order.Status = enum.OrderStatusProcessing
	order.PaymentStatus = enum.PaymentStatusUnpaid
	order.Notes = appendTypeMarker(order.Notes, "online sale")
}

// FinalizeOrder keeps online sales PROCESSING pending external fulfillment.
func (onlineSaleStrategy) FinalizeOrder(order *entity.Order) {}

func (onlineSaleStrategy) DocumentType() enum.DocumentType { return enum.DocumentTypeTicket }
func (onlineSaleStrategy) AllowsPartialPayment() bool      { return false }

func appendTypeMarker(notes, marker string) string {
	if notes == "" {
		return "[" + marker + "]"
	}
	return "[" + marker + "] " + notes
}
