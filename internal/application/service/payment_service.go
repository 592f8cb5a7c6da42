package service

import (
	"context"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/google/uuid"
)

// SubmitPaymentInput represents a payment submission against an order
type SubmitPaymentInput struct {
	OrderID   uuid.UUID
	CashierID uuid.UUID
	Method    enum.PaymentMethod
	Amount    float64
	Reference string
}

// paymentHandler validates and records one payment for the single method it
// serves, returning the persisted payment.
type paymentHandler func(ctx context.Context, input *SubmitPaymentInput, order *entity.Order) (*entity.Payment, error)

// PaymentService routes payment submissions to per-method handlers and keeps
// the order's aggregates and the cashier's open shift in sync. The dispatch
// table is fixed at construction; an unknown method is a wiring bug, not a
// business rejection.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	shiftRepo   repository.ShiftRepository
	events      *EventBus
	handlers    map[enum.PaymentMethod]paymentHandler
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	shiftRepo repository.ShiftRepository,
	events *EventBus,
) *PaymentService {
	s := &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		shiftRepo:   shiftRepo,
		events:      events,
	}
	s.handlers = map[enum.PaymentMethod]paymentHandler{
		enum.PaymentMethodCash:        s.handleCash,
		enum.PaymentMethodCard:        s.handleCard,
		enum.PaymentMethodMobileMoney: s.handleMobileMoney,
		enum.PaymentMethodCredit:      s.handleCredit,
	}
	return s
}

// SubmitPayment records one payment against an order and recomputes the
// order's paid/credit/remaining aggregates from its active payments.
func (s *PaymentService) SubmitPayment(ctx context.Context, input *SubmitPaymentInput) (*entity.Payment, error) {
	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewBadRequestError("Cannot pay a cancelled order")
	}
	if order.PaymentStatus == enum.PaymentStatusPaid {
		return nil, apperror.NewBadRequestError("Order is already fully paid")
	}

	if input.Amount <= 0 {
		return nil, apperror.NewViolationsError([]string{"payment amount must be positive"})
	}

	strategy := strategyForOrderType(order.OrderType)
	amountCents := int64(input.Amount * 100)
	if !strategy.AllowsPartialPayment() && amountCents < order.Remaining {
		return nil, apperror.NewViolationsError([]string{"partial payment is not allowed for this order type"})
	}

	handler, ok := s.handlers[input.Method]
	if !ok {
		return nil, apperror.NewConfigurationError("No payment handler accepts method " + input.Method.String())
	}

	payment, err := handler(ctx, input, order)
	if err != nil {
		return nil, err
	}

	if err := s.recomputeOrder(ctx, order, strategy); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, EventPaymentRecorded, payment)
	if order.Status == enum.OrderStatusCompleted {
		s.events.Publish(ctx, EventOrderCompleted, order)
	}

	return payment, nil
}

// CancelPayment voids a recorded payment and reverses its shift effect.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return apperror.NewNotFoundError("Payment")
	}
	if payment.State == enum.PaymentStateCancelled {
		return apperror.NewBadRequestError("Payment is already cancelled")
	}

	if err := s.paymentRepo.UpdateState(ctx, paymentID, enum.PaymentStateCancelled); err != nil {
		return err
	}

	// Settled payments fed the shift; back the amount out again.
	if payment.ShiftID != nil && payment.State == enum.PaymentStatePaid {
		delta := repository.ShiftTotalsDelta{TotalSales: -payment.Amount, Transactions: -1}
		switch payment.Method {
		case enum.PaymentMethodCash:
			delta.CashTotal = -payment.Amount
		case enum.PaymentMethodCard:
			delta.CardTotal = -payment.Amount
		case enum.PaymentMethodMobileMoney:
			delta.MobileTotal = -payment.Amount
		}
		if err := s.shiftRepo.AddToTotals(ctx, *payment.ShiftID, delta); err != nil {
			return err
		}
	}

	order, err := s.orderRepo.GetByID(ctx, payment.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	return s.recomputeOrder(ctx, order, strategyForOrderType(order.OrderType))
}

// ListByOrder returns all payments recorded against an order
func (s *PaymentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	return s.paymentRepo.GetByOrderID(ctx, orderID)
}

// recomputeOrder refreshes the order's aggregates from its active payments
// and lets the sale policy promote the status.
func (s *PaymentService) recomputeOrder(ctx context.Context, order *entity.Order, strategy SaleStrategy) error {
	payments, err := s.paymentRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}

	order.ApplyPayments(payments)
	strategy.FinalizeOrder(order)
	if order.Status == enum.OrderStatusCompleted && order.CompletedAt == nil {
		now := time.Now()
		order.CompletedAt = &now
	}

	return s.orderRepo.Update(ctx, order)
}

// handleCash records an immediate cash settlement. Cash may exceed the
// remaining balance; the surplus is change due back to the customer.
func (s *PaymentService) handleCash(ctx context.Context, input *SubmitPaymentInput, order *entity.Order) (*entity.Payment, error) {
	shift, err := s.requireOpenShift(ctx, input.CashierID)
	if err != nil {
		return nil, err
	}

	amountCents := int64(input.Amount * 100)
	payment := &entity.Payment{
		OrderID:   order.ID,
		CashierID: input.CashierID,
		ShiftID:   &shift.ID,
		Method:    enum.PaymentMethodCash,
		State:     enum.PaymentStatePaid,
		Amount:    amountCents,
		Reference: input.Reference,
		PaidAt:    time.Now(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	err = s.shiftRepo.AddToTotals(ctx, shift.ID, repository.ShiftTotalsDelta{
		CashTotal:    amountCents,
		TotalSales:   amountCents,
		Transactions: 1,
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *PaymentService) handleCard(ctx context.Context, input *SubmitPaymentInput, order *entity.Order) (*entity.Payment, error) {
	return s.handleExactMethod(ctx, input, order, enum.PaymentMethodCard)
}

func (s *PaymentService) handleMobileMoney(ctx context.Context, input *SubmitPaymentInput, order *entity.Order) (*entity.Payment, error) {
	return s.handleExactMethod(ctx, input, order, enum.PaymentMethodMobileMoney)
}

// handleExactMethod covers card and mobile money. Unlike cash these cannot
// give change, so the amount may not exceed what is still due.
func (s *PaymentService) handleExactMethod(ctx context.Context, input *SubmitPaymentInput, order *entity.Order, method enum.PaymentMethod) (*entity.Payment, error) {
	amountCents := int64(input.Amount * 100)
	if amountCents > order.Remaining {
		return nil, apperror.NewViolationsError([]string{"amount exceeds amount due"})
	}

	shift, err := s.requireOpenShift(ctx, input.CashierID)
	if err != nil {
		return nil, err
	}

	payment := &entity.Payment{
		OrderID:   order.ID,
		CashierID: input.CashierID,
		ShiftID:   &shift.ID,
		Method:    method,
		State:     enum.PaymentStatePaid,
		Amount:    amountCents,
		Reference: input.Reference,
		PaidAt:    time.Now(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	delta := repository.ShiftTotalsDelta{
		TotalSales:   amountCents,
		Transactions: 1,
	}
	if method == enum.PaymentMethodCard {
		delta.CardTotal = amountCents
	} else {
		delta.MobileTotal = amountCents
	}
	if err := s.shiftRepo.AddToTotals(ctx, shift.ID, delta); err != nil {
		return nil, err
	}

	return payment, nil
}

// handleCredit books the amount against the customer's account. Credit never
// touches a shift; nothing moved through the till.
func (s *PaymentService) handleCredit(ctx context.Context, input *SubmitPaymentInput, order *entity.Order) (*entity.Payment, error) {
	if order.CustomerID == nil {
		return nil, apperror.NewViolationsError([]string{"customer is required for credit payment"})
	}

	payment := &entity.Payment{
		OrderID:   order.ID,
		CashierID: input.CashierID,
		Method:    enum.PaymentMethodCredit,
		State:     enum.PaymentStateCredit,
		Amount:    int64(input.Amount * 100),
		Reference: input.Reference,
		PaidAt:    time.Now(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *PaymentService) requireOpenShift(ctx context.Context, cashierID uuid.UUID) (*entity.ShiftReport, error) {
	shift, err := s.shiftRepo.GetOpenByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewBadRequestError("No open shift for cashier; open a shift before taking payments")
	}
	return shift, nil
}
