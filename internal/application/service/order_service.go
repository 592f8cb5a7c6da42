package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	infraRepo "github.com/dukapos/dukapos-api/internal/infrastructure/repository"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/dukapos/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// OrderService owns the only path that creates an order. The creation
// workflow is a fixed sequence; the sale policy and an optional initial
// payment are its only extension points.
type OrderService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	storeRepo     repository.StoreRepository
	numbering     *DocumentNumberService
	payments      *PaymentService
	events        *EventBus
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	storeRepo repository.StoreRepository,
	numbering *DocumentNumberService,
	payments *PaymentService,
	events *EventBus,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		storeRepo:     storeRepo,
		numbering:     numbering,
		payments:      payments,
		events:        events,
	}
}

// OrderItemInput represents a requested line in an order
type OrderItemInput struct {
	ProductID   uuid.UUID
	Quantity    int
	DiscountPct float64
}

// InitialPaymentInput optionally settles (part of) the order at creation
type InitialPaymentInput struct {
	Method    enum.PaymentMethod
	Amount    float64
	Reference string
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	CashierID      uuid.UUID
	CustomerID     *uuid.UUID
	OrderType      enum.OrderType
	Notes          string
	ShippingAddr   *string
	Items          []OrderItemInput
	InitialPayment *InitialPaymentInput
}

// CreateOrder runs the full order creation workflow: resolve the sale
// policy, materialize items with price snapshots, validate, persist,
// atomically decrement stock with compensation on later failure, optionally
// attach an initial payment, finalize and report.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}

	strategy := strategyForOrderType(input.OrderType)

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	// Materialize line items with a price snapshot and accumulate tax.
	// Exclusive-tax products add VAT on top; inclusive products already
	// carry it in the price.
	var tax int64
	items := make([]entity.OrderItem, 0, len(input.Items))
	stockDecrements := make(map[uuid.UUID]int)

	for _, line := range input.Items {
		product, exists := productMap[line.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", line.ProductID))
		}
		if line.Quantity <= 0 {
			return nil, apperror.NewViolationsError([]string{
				fmt.Sprintf("quantity for %s must be positive", product.Name)})
		}

		lineTotal := product.SellingPrice * int64(line.Quantity)
		discount := int64(float64(lineTotal) * line.DiscountPct / 100)
		finalPrice := lineTotal - discount

		if product.TaxType == enum.TaxTypeExclusive && product.TaxRate > 0 {
			tax += finalPrice * int64(product.TaxRate) / 100
		}

		items = append(items, entity.OrderItem{
			ProductID:      product.ID,
			Quantity:       line.Quantity,
			UnitPrice:      product.SellingPrice,
			DiscountPct:    line.DiscountPct,
			DiscountAmount: discount,
			FinalPrice:     finalPrice,
		})
		stockDecrements[product.ID] += line.Quantity
	}

	order := &entity.Order{
		StoreID:      storeID,
		CashierID:    input.CashierID,
		CustomerID:   input.CustomerID,
		OrderType:    input.OrderType,
		Notes:        input.Notes,
		ShippingAddr: input.ShippingAddr,
		Tax:          tax,
		Items:        items,
	}
	order.RecomputeTotals()

	if violations := strategy.Validate(order); len(violations) > 0 {
		return nil, apperror.NewViolationsError(violations)
	}

	strategy.PrepareOrder(order)

	number, err := s.numbering.GenerateOrderNumber(ctx, store, time.Now())
	if err != nil {
		return nil, err
	}
	order.Number = number

	// Atomic stock decrement before persisting the order. A check-then-act
	// race for the last unit fails here, loudly, naming the products.
	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, stockDecrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				failedNames = append(failedNames, product.Name)
			}
		}
		return nil, apperror.NewConflictError(fmt.Sprintf("Insufficient stock for: %v", failedNames))
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// Stock was already decremented - restore it
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		return nil, err
	}

	if input.InitialPayment != nil {
		_, err := s.payments.SubmitPayment(ctx, &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: input.CashierID,
			Method:    input.InitialPayment.Method,
			Amount:    input.InitialPayment.Amount,
			Reference: input.InitialPayment.Reference,
		})
		if err != nil {
			// Undo the whole creation: the order must not survive with a
			// rejected initial payment attached.
			_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
			_ = s.orderRepo.UpdateStatus(ctx, order.ID, enum.OrderStatusCancelled)
			return nil, err
		}
	}

	// SubmitPayment already finalized and saved the order when an initial
	// payment was attached; run it here for the unpaid path.
	if input.InitialPayment == nil {
		strategy.FinalizeOrder(order)
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return nil, err
		}
	}

	if input.CustomerID != nil {
		if err := s.customerRepo.IncrementPurchaseStats(ctx, *input.CustomerID, 1, order.Total); err != nil {
			return nil, err
		}
	}

	s.notifyLowStock(ctx, stockDecrements)

	full, err := s.orderRepo.GetWithItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if full != nil && full.Status == enum.OrderStatusCompleted {
		s.events.Publish(ctx, EventOrderCompleted, full)
	}
	return full, nil
}

// GetOrder retrieves an order by ID with its items and payments
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// CancelOrder cancels an order and restores its stock. Terminal orders
// cannot be cancelled; completed orders go through a refund instead.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetWithItems(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	if order.Status.IsTerminal() {
		return apperror.NewBadRequestError("Order is already " + order.Status.String())
	}

	// Back out any recorded payments first so the shift totals no longer
	// carry a sale that never happened.
	payments, err := s.payments.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].State == enum.PaymentStateCancelled {
			continue
		}
		if err := s.payments.CancelPayment(ctx, payments[i].ID); err != nil {
			return err
		}
	}
	if len(payments) > 0 {
		order, err = s.orderRepo.GetWithItems(ctx, orderID)
		if err != nil {
			return err
		}
	}

	stockIncrements := make(map[uuid.UUID]int)
	for _, item := range order.Items {
		stockIncrements[item.ProductID] += item.Quantity
	}

	if err := s.productRepo.AtomicIncrementBatch(ctx, stockIncrements); err != nil {
		return err
	}

	now := time.Now()
	order.Status = enum.OrderStatusCancelled
	order.CancelledAt = &now
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	if order.CustomerID != nil {
		if err := s.customerRepo.IncrementPurchaseStats(ctx, *order.CustomerID, -1, -order.Total); err != nil {
			return err
		}
	}

	return nil
}

// notifyLowStock emits a low-stock event for every touched product that has
// fallen to or below its alert threshold.
func (s *OrderService) notifyLowStock(ctx context.Context, touched map[uuid.UUID]int) {
	ids := make([]uuid.UUID, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return
	}
	for i := range products {
		if products[i].IsLowStock() {
			s.events.Publish(ctx, EventLowStock, &products[i])
		}
	}
}
