package service

import (
	"context"
	"testing"

	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	t.Run("counter sale with full cash payment completes", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		shift := env.openShift(t, cashier, "REG-1", 0)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		order, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: cashier,
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
			InitialPayment: &InitialPaymentInput{
				Method: enum.PaymentMethodCash,
				Amount: 20.00,
			},
		})
		require.NoError(t, err)

		assert.Equal(t, enum.OrderStatusCompleted, order.Status)
		assert.Equal(t, enum.PaymentStatusPaid, order.PaymentStatus)
		assert.Equal(t, int64(2000), order.Total)
		assert.Equal(t, int64(0), order.Remaining)
		assert.Contains(t, order.Number, "ORD-MAIN-")
		assert.Contains(t, order.Notes, "[counter sale]")

		assert.Equal(t, 8, product.Quantity)
		assert.Equal(t, int64(2000), shift.CashTotal)
	})

	t.Run("order without payment stays pending and unpaid", func(t *testing.T) {
		env := newServiceEnv(t)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		order, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: uuid.New(),
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		assert.Equal(t, enum.OrderStatusPending, order.Status)
		assert.Equal(t, enum.PaymentStatusUnpaid, order.PaymentStatus)
		assert.Equal(t, int64(1000), order.Remaining)
		assert.Equal(t, 9, product.Quantity)
	})

	t.Run("line discount and exclusive tax shape the totals", func(t *testing.T) {
		env := newServiceEnv(t)
		product := env.seedProduct(t, "Cooking Oil", 1000, 10)
		product.TaxRate = 16
		product.TaxType = enum.TaxTypeExclusive

		order, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: uuid.New(),
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 2, DiscountPct: 10}},
		})
		require.NoError(t, err)

		// 2 x 10.00 = 20.00, minus 10% line discount = 18.00 net,
		// plus 16% VAT on the net = 2.88 tax.
		assert.Equal(t, int64(2000), order.SubTotal)
		assert.Equal(t, int64(200), order.Discount)
		assert.Equal(t, int64(288), order.Tax)
		assert.Equal(t, int64(2088), order.Total)
	})

	t.Run("credit sale without customer is rejected before any stock move", func(t *testing.T) {
		env := newServiceEnv(t)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		_, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: uuid.New(),
			OrderType: enum.OrderTypeCreditSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
		assert.Contains(t, violationMessages(err), "customer is mandatory for credit sale")

		assert.Equal(t, 10, product.Quantity)
		assert.Empty(t, env.orders.orders)
	})

	t.Run("insufficient stock is a conflict naming the product", func(t *testing.T) {
		env := newServiceEnv(t)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 1)

		_, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: uuid.New(),
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 5}},
		})
		require.Error(t, err)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 409, appErr.Code)
		assert.Contains(t, appErr.Message, "Sugar 1kg")

		assert.Equal(t, 1, product.Quantity)
		assert.Empty(t, env.orders.orders)
	})

	t.Run("failed initial payment cancels the order and restores stock", func(t *testing.T) {
		env := newServiceEnv(t)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		// Cash without an open shift: the payment is rejected after the
		// order and the stock decrement already happened.
		_, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: uuid.New(),
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
			InitialPayment: &InitialPaymentInput{
				Method: enum.PaymentMethodCash,
				Amount: 30.00,
			},
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)

		assert.Equal(t, 10, product.Quantity)
		require.Len(t, env.orders.orders, 1)
		for _, o := range env.orders.orders {
			assert.Equal(t, enum.OrderStatusCancelled, o.Status)
		}
	})

	t.Run("customer purchase stats grow with the order", func(t *testing.T) {
		env := newServiceEnv(t)
		customer := env.seedCustomer(t, "Jane Wanjiku")
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		_, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID:  uuid.New(),
			CustomerID: &customer.ID,
			OrderType:  enum.OrderTypeCounterSale,
			Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, customer.TotalPurchases)
		assert.Equal(t, int64(2000), customer.TotalSpent)
	})

	t.Run("missing store context is rejected", func(t *testing.T) {
		env := newServiceEnv(t)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		_, err := env.orderSvc.CreateOrder(context.Background(), &CreateOrderInput{
			CashierID: uuid.New(),
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		env := newServiceEnv(t)
		_, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: uuid.New(),
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: uuid.New(), Quantity: 1}},
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})

	t.Run("unknown customer is not found", func(t *testing.T) {
		env := newServiceEnv(t)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)
		missing := uuid.New()

		_, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID:  uuid.New(),
			CustomerID: &missing,
			OrderType:  enum.OrderTypeCounterSale,
			Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})

	t.Run("non positive quantity is a violation", func(t *testing.T) {
		env := newServiceEnv(t)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		_, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: uuid.New(),
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 0}},
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})
}

func TestCreateOrderLastUnitRace(t *testing.T) {
	env := newServiceEnv(t)
	product := env.seedProduct(t, "Sugar 1kg", 1000, 1)

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
				CashierID: uuid.New(),
				OrderType: enum.OrderTypeCounterSale,
				Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
			})
			results <- err
		}()
	}

	var sold, rejected int
	for i := 0; i < 2; i++ {
		if err := <-results; err == nil {
			sold++
		} else {
			assert.Equal(t, 409, apperror.GetAppError(err).Code)
			rejected++
		}
	}

	assert.Equal(t, 1, sold)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 0, product.Quantity)
}

func TestCancelOrder(t *testing.T) {
	t.Run("cancel restores stock and reverses customer stats", func(t *testing.T) {
		env := newServiceEnv(t)
		customer := env.seedCustomer(t, "Jane Wanjiku")
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		order, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID:  uuid.New(),
			CustomerID: &customer.ID,
			OrderType:  enum.OrderTypeCounterSale,
			Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		require.Equal(t, 7, product.Quantity)

		require.NoError(t, env.orderSvc.CancelOrder(env.ctx(), order.ID))

		assert.Equal(t, enum.OrderStatusCancelled, order.Status)
		assert.NotNil(t, order.CancelledAt)
		assert.Equal(t, 10, product.Quantity)
		assert.Equal(t, 0, customer.TotalPurchases)
		assert.Equal(t, int64(0), customer.TotalSpent)
	})

	t.Run("cancel backs out settled payments and their shift totals", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		shift := env.openShift(t, cashier, "REG-1", 0)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		order, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: cashier,
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		})
		require.NoError(t, err)

		payment, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: cashier,
			Method:    enum.PaymentMethodCash,
			Amount:    5.00,
		})
		require.NoError(t, err)
		require.Equal(t, int64(500), shift.CashTotal)

		require.NoError(t, env.orderSvc.CancelOrder(env.ctx(), order.ID))

		assert.Equal(t, enum.PaymentStateCancelled, payment.State)
		assert.Equal(t, int64(0), shift.CashTotal)
		assert.Equal(t, int64(0), shift.TotalSales)
		assert.Equal(t, 0, shift.TransactionCount)

		cancelled, err := env.orderSvc.GetOrder(env.ctx(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.OrderStatusCancelled, cancelled.Status)
		assert.Equal(t, enum.PaymentStatusUnpaid, cancelled.PaymentStatus)
		assert.Equal(t, int64(0), cancelled.Paid)
		assert.Equal(t, 10, product.Quantity)
	})

	t.Run("terminal orders cannot be cancelled", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		env.openShift(t, cashier, "REG-1", 0)
		product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

		order, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
			CashierID: cashier,
			OrderType: enum.OrderTypeCounterSale,
			Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
			InitialPayment: &InitialPaymentInput{
				Method: enum.PaymentMethodCash,
				Amount: 10.00,
			},
		})
		require.NoError(t, err)
		require.Equal(t, enum.OrderStatusCompleted, order.Status)

		err = env.orderSvc.CancelOrder(env.ctx(), order.ID)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("missing order is not found", func(t *testing.T) {
		env := newServiceEnv(t)
		err := env.orderSvc.CancelOrder(env.ctx(), uuid.New())
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}

func TestGetOrder(t *testing.T) {
	env := newServiceEnv(t)
	product := env.seedProduct(t, "Sugar 1kg", 1000, 10)

	created, err := env.orderSvc.CreateOrder(env.ctx(), &CreateOrderInput{
		CashierID: uuid.New(),
		OrderType: enum.OrderTypeCounterSale,
		Items:     []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	got, err := env.orderSvc.GetOrder(env.ctx(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Number, got.Number)
	require.Len(t, got.Items, 1)

	_, err = env.orderSvc.GetOrder(env.ctx(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
