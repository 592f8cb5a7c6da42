package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/dukapos/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// RefundService handles returns against completed orders. A refund walks a
// state machine from PENDING to a terminal state; the completion transition
// carries all the side effects (stock, customer stats, shift totals).
type RefundService struct {
	refundRepo   repository.RefundRepository
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	paymentRepo  repository.PaymentRepository
	shiftRepo    repository.ShiftRepository
	events       *EventBus
}

// NewRefundService creates a new refund service
func NewRefundService(
	refundRepo repository.RefundRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentRepository,
	shiftRepo repository.ShiftRepository,
	events *EventBus,
) *RefundService {
	return &RefundService{
		refundRepo:   refundRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		shiftRepo:    shiftRepo,
		events:       events,
	}
}

// RefundItemInput represents a returned line in a refund request
type RefundItemInput struct {
	ProductID         uuid.UUID
	Quantity          int
	Amount            float64
	RestockingFee     float64
	ExchangeProductID *uuid.UUID
}

// CreateRefundInput represents the create refund input
type CreateRefundInput struct {
	OrderID     uuid.UUID
	RequestedBy uuid.UUID
	Type        enum.RefundType
	Reason      string
	Items       []RefundItemInput
}

// CreateRefund opens a PENDING refund against a completed order. An order
// qualifies while it is COMPLETED and not yet refunded in full; requested
// quantities must fit within what was originally sold.
func (s *RefundService) CreateRefund(ctx context.Context, input *CreateRefundInput) (*entity.Refund, error) {
	order, err := s.orderRepo.GetWithItems(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	if order.Status != enum.OrderStatusCompleted {
		return nil, apperror.NewBadRequestError("Only completed orders can be refunded")
	}

	alreadyRefunded, err := s.refundRepo.SumCompletedByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if alreadyRefunded >= order.Total {
		return nil, apperror.NewBadRequestError("Order is already fully refunded")
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewViolationsError([]string{"refund must contain at least one item"})
	}

	orderedQty := make(map[uuid.UUID]int, len(order.Items))
	for _, item := range order.Items {
		orderedQty[item.ProductID] += item.Quantity
	}

	var violations []string
	var amount, fees int64
	items := make([]entity.RefundItem, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			violations = append(violations, fmt.Sprintf("quantity for %s must be positive", line.ProductID))
			continue
		}
		if line.Quantity > orderedQty[line.ProductID] {
			violations = append(violations, fmt.Sprintf("quantity for %s exceeds the ordered quantity", line.ProductID))
			continue
		}
		amountCents := int64(line.Amount * 100)
		feeCents := int64(line.RestockingFee * 100)
		if amountCents <= 0 {
			violations = append(violations, fmt.Sprintf("amount for %s must be positive", line.ProductID))
			continue
		}
		amount += amountCents
		fees += feeCents
		items = append(items, entity.RefundItem{
			ProductID:         line.ProductID,
			Quantity:          line.Quantity,
			Amount:            amountCents,
			RestockingFee:     feeCents,
			ExchangeProductID: line.ExchangeProductID,
		})
	}
	if len(violations) > 0 {
		return nil, apperror.NewViolationsError(violations)
	}

	payable := amount - fees
	if payable <= 0 {
		return nil, apperror.NewViolationsError([]string{"refund amount must exceed restocking fees"})
	}
	if alreadyRefunded+payable > order.Total {
		return nil, apperror.NewBadRequestError("Refund would exceed the order total")
	}

	number, err := s.allocateNumber(ctx)
	if err != nil {
		return nil, err
	}

	refund := &entity.Refund{
		Number:      number,
		OrderID:     order.ID,
		StoreID:     order.StoreID,
		RequestedBy: input.RequestedBy,
		Type:        input.Type,
		Status:      enum.RefundStatusPending,
		Amount:      payable,
		Reason:      input.Reason,
		Items:       items,
	}
	if err := s.refundRepo.Create(ctx, refund); err != nil {
		return nil, err
	}

	return refund, nil
}

// TransitionRefund moves a refund along its state machine. Completion runs
// the side effects; any other transition is a plain status change.
func (s *RefundService) TransitionRefund(ctx context.Context, refundID uuid.UUID, target enum.RefundStatus, actorID uuid.UUID) (*entity.Refund, error) {
	refund, err := s.refundRepo.GetWithItems(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, apperror.NewNotFoundError("Refund")
	}

	if !refund.Status.CanTransitionTo(target) {
		return nil, apperror.NewConflictError(
			fmt.Sprintf("Refund cannot move from %s to %s", refund.Status, target))
	}

	if target == enum.RefundStatusCompleted {
		if err := s.completeRefund(ctx, refund, actorID); err != nil {
			return nil, err
		}
	} else {
		refund.Status = target
		if err := s.refundRepo.Update(ctx, refund); err != nil {
			return nil, err
		}
	}

	return refund, nil
}

// completeRefund applies the completion side effects: returned stock goes
// back, exchanged stock goes out, the customer's aggregates shrink and the
// acting cashier's open shift absorbs the payout.
func (s *RefundService) completeRefund(ctx context.Context, refund *entity.Refund, actorID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, refund.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	restock := make(map[uuid.UUID]int)
	exchangeOut := make(map[uuid.UUID]int)
	for _, item := range refund.Items {
		restock[item.ProductID] += item.Quantity
		if item.ExchangeProductID != nil {
			exchangeOut[*item.ExchangeProductID] += item.Quantity
		}
	}

	if len(exchangeOut) > 0 {
		failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, exchangeOut)
		if err != nil {
			return err
		}
		if len(failedIDs) > 0 {
			return apperror.NewConflictError(fmt.Sprintf("Insufficient stock for exchange: %v", failedIDs))
		}
	}
	if err := s.productRepo.AtomicIncrementBatch(ctx, restock); err != nil {
		return err
	}

	now := time.Now()
	refund.Status = enum.RefundStatusCompleted
	refund.CompletedAt = &now
	if err := s.refundRepo.Update(ctx, refund); err != nil {
		return err
	}

	if order.CustomerID != nil {
		if err := s.customerRepo.IncrementPurchaseStats(ctx, *order.CustomerID, 0, -refund.Amount); err != nil {
			return err
		}
	}

	if err := s.applyToShift(ctx, refund, order, actorID); err != nil {
		return err
	}

	s.events.Publish(ctx, EventRefundCompleted, refund)
	return nil
}

// applyToShift subtracts the payout from the acting cashier's open shift.
// Only the cash portion leaves the till; an order settled by card or mobile
// money is reversed outside the register.
func (s *RefundService) applyToShift(ctx context.Context, refund *entity.Refund, order *entity.Order, actorID uuid.UUID) error {
	shift, err := s.shiftRepo.GetOpenByCashier(ctx, actorID)
	if err != nil {
		return err
	}
	if shift == nil {
		// No open shift: the refund is still a business fact, it just does
		// not reconcile against a till session.
		return nil
	}

	delta := repository.ShiftTotalsDelta{TotalRefunds: refund.Amount}
	paidCash, err := s.orderPaidCash(ctx, order.ID)
	if err != nil {
		return err
	}
	if paidCash {
		delta.CashRefunds = refund.Amount
	}
	return s.shiftRepo.AddToTotals(ctx, shift.ID, delta)
}

func (s *RefundService) orderPaidCash(ctx context.Context, orderID uuid.UUID) (bool, error) {
	payments, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return false, err
	}
	for _, p := range payments {
		if p.Method == enum.PaymentMethodCash && p.State == enum.PaymentStatePaid {
			return true, nil
		}
	}
	return false, nil
}

// GetRefund retrieves a refund with its items
func (s *RefundService) GetRefund(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	refund, err := s.refundRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, apperror.NewNotFoundError("Refund")
	}
	return refund, nil
}

// ListRefunds lists refunds with filtering
func (s *RefundService) ListRefunds(ctx context.Context, params *repository.RefundFilterParams) (*pagination.PaginatedResult[entity.Refund], error) {
	refunds, total, err := s.refundRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(refunds, pag), nil
}

// allocateNumber picks a short unique refund reference. The refund document
// carries the sequential audit number; this is the internal handle.
func (s *RefundService) allocateNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := fmt.Sprintf("RFD-%s", uuid.New().String()[:8])
		exists, err := s.refundRepo.ExistsByNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperror.NewConflictError("Refund numbering exhausted")
}
