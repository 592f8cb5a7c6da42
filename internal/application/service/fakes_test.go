package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	infraRepo "github.com/dukapos/dukapos-api/internal/infrastructure/repository"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/dukapos/dukapos-api/pkg/filestore"
	"github.com/dukapos/dukapos-api/pkg/pagination"
	"github.com/dukapos/dukapos-api/pkg/printer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the contracts the services rely
// on: atomic batch stock updates that fail as a whole, duplicate-key errors
// on document numbers, and nil results for missing rows. Every fake is
// mutex-guarded so tests can hit the services from concurrent goroutines.

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*entity.Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id], nil
}

func (f *fakeOrderRepo) GetByNumber(_ context.Context, number string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.Number == number {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetWithItems(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id], nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (f *fakeOrderRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderRepo) CountByPeriod(_ context.Context, start, end time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, o := range f.orders {
		if !o.CreatedAt.Before(start) && o.CreatedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (f *fakeOrderRepo) List(_ context.Context, _ *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

type fakeOrderItemRepo struct {
	mu    sync.Mutex
	items []entity.OrderItem
}

func (f *fakeOrderItemRepo) CreateBatch(_ context.Context, items []entity.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeOrderItemRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.OrderItem
	for _, it := range f.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeOrderItemRepo) DeleteByOrderID(_ context.Context, orderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, it := range f.items {
		if it.OrderID != orderID {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (f *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id], nil
}

func (f *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) GetLowStock(_ context.Context) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Product
	for _, p := range f.products {
		if p.IsLowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) AtomicDecrementBatch(_ context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var failed []uuid.UUID
	for id, qty := range decrements {
		p, ok := f.products[id]
		if !ok || p.Quantity < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range decrements {
		f.products[id].Quantity -= qty
	}
	return nil, nil
}

func (f *fakeProductRepo) AtomicIncrementBatch(_ context.Context, increments map[uuid.UUID]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, qty := range increments {
		if p, ok := f.products[id]; ok {
			p.Quantity += qty
		}
	}
	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCustomerRepo) IncrementPurchaseStats(_ context.Context, id uuid.UUID, orders int, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok {
		return apperror.NewNotFoundError("Customer")
	}
	c.TotalPurchases += orders
	c.TotalSpent += amount
	return nil
}

func (f *fakeCustomerRepo) AddLoyaltyPoints(_ context.Context, id uuid.UUID, points int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok {
		return apperror.NewNotFoundError("Customer")
	}
	c.LoyaltyPoints += points
	return nil
}

type fakeStoreRepo struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*entity.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[uuid.UUID]*entity.Store)}
}

func (f *fakeStoreRepo) Create(_ context.Context, store *entity.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	f.stores[store.ID] = store
	return nil
}

func (f *fakeStoreRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stores[id], nil
}

func (f *fakeStoreRepo) GetByCode(_ context.Context, code string) (*entity.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stores {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStoreRepo) Update(_ context.Context, store *entity.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stores[store.ID] = store
	return nil
}

func (f *fakeStoreRepo) List(_ context.Context) ([]entity.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Store, 0, len(f.stores))
	for _, s := range f.stores {
		out = append(out, *s)
	}
	return out, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*entity.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments = append(f.payments, payment)
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Payment
	for _, p := range f.payments {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) UpdateState(_ context.Context, id uuid.UUID, state enum.PaymentState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ID == id {
			p.State = state
			return nil
		}
	}
	return apperror.NewNotFoundError("Payment")
}

type fakeShiftRepo struct {
	mu     sync.Mutex
	shifts map[uuid.UUID]*entity.ShiftReport
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[uuid.UUID]*entity.ShiftReport)}
}

func (f *fakeShiftRepo) Create(_ context.Context, shift *entity.ShiftReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shifts {
		if s.Status != enum.ShiftStatusOpen {
			continue
		}
		if s.CashierID == shift.CashierID || s.CashRegisterCode == shift.CashRegisterCode {
			return apperror.NewConflictError("An open shift already exists")
		}
	}
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ShiftReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shifts[id], nil
}

func (f *fakeShiftRepo) GetOpenByCashier(_ context.Context, cashierID uuid.UUID) (*entity.ShiftReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shifts {
		if s.CashierID == cashierID && s.Status == enum.ShiftStatusOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeShiftRepo) GetOpenByRegister(_ context.Context, registerCode string) (*entity.ShiftReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shifts {
		if s.CashRegisterCode == registerCode && s.Status == enum.ShiftStatusOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeShiftRepo) Update(_ context.Context, shift *entity.ShiftReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeShiftRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.ShiftStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.shifts[id]; ok {
		s.Status = status
	}
	return nil
}

func (f *fakeShiftRepo) AddToTotals(_ context.Context, id uuid.UUID, delta repository.ShiftTotalsDelta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shifts[id]
	if !ok {
		return apperror.NewNotFoundError("Shift")
	}
	if s.Status != enum.ShiftStatusOpen {
		return apperror.NewConflictError("Shift is not open")
	}
	s.CashTotal += delta.CashTotal
	s.CardTotal += delta.CardTotal
	s.MobileTotal += delta.MobileTotal
	s.TotalSales += delta.TotalSales
	s.TotalRefunds += delta.TotalRefunds
	s.CashRefunds += delta.CashRefunds
	s.TransactionCount += delta.Transactions
	return nil
}

func (f *fakeShiftRepo) List(_ context.Context, _ *repository.ShiftFilterParams) ([]entity.ShiftReport, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.ShiftReport, 0, len(f.shifts))
	for _, s := range f.shifts {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeDocumentRepo struct {
	mu        sync.Mutex
	documents map[uuid.UUID]*entity.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{documents: make(map[uuid.UUID]*entity.Document)}
}

func (f *fakeDocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.documents {
		if d.Number == doc.Number {
			return gorm.ErrDuplicatedKey
		}
	}
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	f.documents[doc.ID] = doc
	return nil
}

func (f *fakeDocumentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.documents[id], nil
}

func (f *fakeDocumentRepo) GetByNumber(_ context.Context, number string) (*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.documents {
		if d.Number == number {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Document
	for _, d := range f.documents {
		if d.OrderID == orderID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) Update(_ context.Context, doc *entity.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents[doc.ID] = doc
	return nil
}

func (f *fakeDocumentRepo) IncrementPrintCount(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.documents[id]
	if !ok {
		return apperror.NewNotFoundError("Document")
	}
	d.PrintCount++
	return nil
}

func (f *fakeDocumentRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.documents {
		if d.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDocumentRepo) CountByTypeAndPeriod(_ context.Context, docType enum.DocumentType, storeID *uuid.UUID, start, end time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, d := range f.documents {
		if d.Type != docType {
			continue
		}
		if storeID != nil && d.StoreID != *storeID {
			continue
		}
		if !d.IssuedAt.Before(start) && d.IssuedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (f *fakeDocumentRepo) List(_ context.Context, _ *repository.DocumentFilterParams) ([]entity.Document, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Document, 0, len(f.documents))
	for _, d := range f.documents {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

type fakeRefundRepo struct {
	mu      sync.Mutex
	refunds map[uuid.UUID]*entity.Refund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{refunds: make(map[uuid.UUID]*entity.Refund)}
}

func (f *fakeRefundRepo) Create(_ context.Context, refund *entity.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	for i := range refund.Items {
		if refund.Items[i].ID == uuid.Nil {
			refund.Items[i].ID = uuid.New()
		}
		refund.Items[i].RefundID = refund.ID
	}
	f.refunds[refund.ID] = refund
	return nil
}

func (f *fakeRefundRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refunds[id], nil
}

func (f *fakeRefundRepo) GetWithItems(_ context.Context, id uuid.UUID) (*entity.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refunds[id], nil
}

func (f *fakeRefundRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Refund
	for _, r := range f.refunds {
		if r.OrderID == orderID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRefundRepo) Update(_ context.Context, refund *entity.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds[refund.ID] = refund
	return nil
}

func (f *fakeRefundRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.RefundStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.refunds[id]; ok {
		r.Status = status
	}
	return nil
}

func (f *fakeRefundRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.refunds {
		if r.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRefundRepo) SumCompletedByOrder(_ context.Context, orderID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, r := range f.refunds {
		if r.OrderID == orderID && r.Status == enum.RefundStatusCompleted {
			sum += r.Amount
		}
	}
	return sum, nil
}

func (f *fakeRefundRepo) List(_ context.Context, _ *repository.RefundFilterParams) ([]entity.Refund, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Refund, 0, len(f.refunds))
	for _, r := range f.refunds {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

// serviceEnv wires the full service graph over the in-memory fakes. One
// default store is seeded so tests can run with store context in hand.
type serviceEnv struct {
	store *entity.Store

	orders     *fakeOrderRepo
	orderItems *fakeOrderItemRepo
	products   *fakeProductRepo
	customers  *fakeCustomerRepo
	stores     *fakeStoreRepo
	payments   *fakePaymentRepo
	shifts     *fakeShiftRepo
	documents  *fakeDocumentRepo
	refunds    *fakeRefundRepo

	events     *EventBus
	numbering  *DocumentNumberService
	paymentSvc *PaymentService
	orderSvc   *OrderService
	shiftSvc   *ShiftService
	refundSvc  *RefundService
	docSvc     *DocumentService
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()

	env := &serviceEnv{
		orders:     newFakeOrderRepo(),
		orderItems: &fakeOrderItemRepo{},
		products:   newFakeProductRepo(),
		customers:  newFakeCustomerRepo(),
		stores:     newFakeStoreRepo(),
		payments:   &fakePaymentRepo{},
		shifts:     newFakeShiftRepo(),
		documents:  newFakeDocumentRepo(),
		refunds:    newFakeRefundRepo(),
		events:     NewEventBus(),
	}

	env.store = &entity.Store{Name: "Main Branch", Code: "MAIN", Active: true}
	require.NoError(t, env.stores.Create(context.Background(), env.store))

	files, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	env.numbering = NewDocumentNumberService(env.documents, env.orders)
	env.paymentSvc = NewPaymentService(env.payments, env.orders, env.shifts, env.events)
	env.orderSvc = NewOrderService(
		env.orders, env.orderItems, env.products, env.customers, env.stores,
		env.numbering, env.paymentSvc, env.events)
	env.shiftSvc = NewShiftService(env.shifts, env.events)
	env.refundSvc = NewRefundService(
		env.refunds, env.orders, env.products, env.customers, env.payments,
		env.shifts, env.events)
	env.docSvc = NewDocumentService(
		env.documents, env.orders, env.stores, env.refunds, env.numbering,
		files, printer.NewNullPrinter(), env.events, 32)

	return env
}

// violationMessages flattens the field errors carried by a violations error.
func violationMessages(err error) []string {
	appErr := apperror.GetAppError(err)
	out := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		out = append(out, fe.Message)
	}
	return out
}

// ctx returns a request context scoped to the seeded store, the shape every
// store-bound operation expects.
func (e *serviceEnv) ctx() context.Context {
	return infraRepo.WithStore(context.Background(), e.store.ID)
}

func (e *serviceEnv) seedProduct(t *testing.T, name string, priceCents int64, qty int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		StoreID:       e.store.ID,
		Name:          name,
		Code:          "P-" + uuid.New().String()[:8],
		Quantity:      qty,
		QuantityAlert: 2,
		SellingPrice:  priceCents,
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *serviceEnv) seedCustomer(t *testing.T, name string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{StoreID: e.store.ID, Name: name}
	require.NoError(t, e.customers.Create(context.Background(), c))
	return c
}

func (e *serviceEnv) openShift(t *testing.T, cashierID uuid.UUID, register string, openingCents int64) *entity.ShiftReport {
	t.Helper()
	shift, err := e.shiftSvc.OpenShift(e.ctx(), &OpenShiftInput{
		CashierID:        cashierID,
		CashRegisterCode: register,
		OpeningBalance:   float64(openingCents) / 100,
	})
	require.NoError(t, err)
	return shift
}
