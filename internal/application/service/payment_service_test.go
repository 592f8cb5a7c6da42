package service

import (
	"testing"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedOrder persists an order directly so payment tests control the totals
// without running the creation workflow.
func seedOrder(t *testing.T, env *serviceEnv, orderType enum.OrderType, totalCents int64, customerID *uuid.UUID) *entity.Order {
	t.Helper()
	order := &entity.Order{
		Number:     "ORD-MAIN-TEST-" + uuid.New().String()[:8],
		StoreID:    env.store.ID,
		CashierID:  uuid.New(),
		CustomerID: customerID,
		OrderType:  orderType,
		Status:     enum.OrderStatusPending,
		Items: []entity.OrderItem{{
			ProductID:  uuid.New(),
			Quantity:   1,
			UnitPrice:  totalCents,
			FinalPrice: totalCents,
		}},
	}
	order.RecomputeTotals()
	require.NoError(t, env.orders.Create(env.ctx(), order))
	return order
}

func TestSubmitPaymentCash(t *testing.T) {
	t.Run("requires an open shift", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: uuid.New(),
			Method:    enum.PaymentMethodCash,
			Amount:    10.00,
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("full cash settles and feeds the shift", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		shift := env.openShift(t, cashier, "REG-1", 5000)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		payment, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: cashier,
			Method:    enum.PaymentMethodCash,
			Amount:    10.00,
		})
		require.NoError(t, err)
		assert.Equal(t, enum.PaymentStatePaid, payment.State)
		require.NotNil(t, payment.ShiftID)
		assert.Equal(t, shift.ID, *payment.ShiftID)

		assert.Equal(t, enum.PaymentStatusPaid, order.PaymentStatus)
		assert.Equal(t, enum.OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
		assert.Equal(t, int64(0), order.Remaining)

		assert.Equal(t, int64(1000), shift.CashTotal)
		assert.Equal(t, int64(1000), shift.TotalSales)
		assert.Equal(t, 1, shift.TransactionCount)
	})

	t.Run("overpayment is change due, not a rejection", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		shift := env.openShift(t, cashier, "REG-1", 0)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		payment, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: cashier,
			Method:    enum.PaymentMethodCash,
			Amount:    15.00,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1500), payment.Amount)

		// The full tendered amount enters the till; the order is settled.
		assert.Equal(t, int64(1500), shift.CashTotal)
		assert.Equal(t, enum.PaymentStatusPaid, order.PaymentStatus)
		assert.Equal(t, int64(0), order.Remaining)
	})
}

func TestSubmitPaymentCardAndMobile(t *testing.T) {
	t.Run("card cannot exceed the amount due", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		env.openShift(t, cashier, "REG-1", 0)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: cashier,
			Method:    enum.PaymentMethodCard,
			Amount:    15.00,
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
		assert.Contains(t, violationMessages(err), "amount exceeds amount due")
	})

	t.Run("exact card payment feeds the card total", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		shift := env.openShift(t, cashier, "REG-1", 0)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: cashier,
			Method:    enum.PaymentMethodCard,
			Amount:    10.00,
			Reference: "AUTH-4711",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1000), shift.CardTotal)
		assert.Equal(t, int64(0), shift.CashTotal)
		assert.Equal(t, int64(1000), shift.TotalSales)
	})

	t.Run("mobile money feeds the mobile total", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		shift := env.openShift(t, cashier, "REG-1", 0)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 2500, nil)

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: cashier,
			Method:    enum.PaymentMethodMobileMoney,
			Amount:    25.00,
			Reference: "MPESA-XYZ",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2500), shift.MobileTotal)
	})
}

func TestSubmitPaymentCredit(t *testing.T) {
	t.Run("credit requires a customer on the order", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedOrder(t, env, enum.OrderTypeCreditSale, 1000, nil)

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: uuid.New(),
			Method:    enum.PaymentMethodCredit,
			Amount:    10.00,
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})

	t.Run("credit books against the account and skips the till", func(t *testing.T) {
		env := newServiceEnv(t)
		customer := env.seedCustomer(t, "Acme Ltd")
		order := seedOrder(t, env, enum.OrderTypeCreditSale, 1000, &customer.ID)

		// No shift is open; credit must not need one.
		payment, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID:   order.ID,
			CashierID: uuid.New(),
			Method:    enum.PaymentMethodCredit,
			Amount:    10.00,
		})
		require.NoError(t, err)
		assert.Equal(t, enum.PaymentStateCredit, payment.State)
		assert.Nil(t, payment.ShiftID)

		assert.Equal(t, int64(1000), order.Credit)
		assert.Equal(t, int64(0), order.Paid)
		assert.Equal(t, enum.PaymentStatusPaid, order.PaymentStatus)
		// Credit sales stay open until actually settled.
		assert.Equal(t, enum.OrderStatusPending, order.Status)
	})
}

func TestSubmitPaymentGuards(t *testing.T) {
	t.Run("cancelled order rejects payment", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)
		order.Status = enum.OrderStatusCancelled

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID: order.ID, CashierID: uuid.New(),
			Method: enum.PaymentMethodCash, Amount: 10.00,
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("fully paid order rejects further payment", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)
		order.PaymentStatus = enum.PaymentStatusPaid

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID: order.ID, CashierID: uuid.New(),
			Method: enum.PaymentMethodCash, Amount: 10.00,
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("non positive amount is a violation", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID: order.ID, CashierID: uuid.New(),
			Method: enum.PaymentMethodCash, Amount: 0,
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})

	t.Run("partial payment rejected where the policy forbids it", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		env.openShift(t, cashier, "REG-1", 0)
		order := seedOrder(t, env, enum.OrderTypeProforma, 1000, nil)

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID: order.ID, CashierID: cashier,
			Method: enum.PaymentMethodCash, Amount: 5.00,
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
		assert.Contains(t, violationMessages(err), "partial payment is not allowed for this order type")
	})

	t.Run("unknown method is a wiring error", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID: order.ID, CashierID: uuid.New(),
			Method: enum.PaymentMethod(42), Amount: 10.00,
		})
		require.Error(t, err)
		assert.Equal(t, 500, apperror.GetAppError(err).Code)
	})

	t.Run("missing order is not found", func(t *testing.T) {
		env := newServiceEnv(t)
		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID: uuid.New(), CashierID: uuid.New(),
			Method: enum.PaymentMethodCash, Amount: 10.00,
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}

func TestCancelPayment(t *testing.T) {
	t.Run("cancel reverses the shift effect and the aggregates", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		shift := env.openShift(t, cashier, "REG-1", 0)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		payment, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID: order.ID, CashierID: cashier,
			Method: enum.PaymentMethodCash, Amount: 10.00,
		})
		require.NoError(t, err)

		require.NoError(t, env.paymentSvc.CancelPayment(env.ctx(), payment.ID))

		assert.Equal(t, enum.PaymentStateCancelled, payment.State)
		assert.Equal(t, int64(0), shift.CashTotal)
		assert.Equal(t, int64(0), shift.TotalSales)
		assert.Equal(t, 0, shift.TransactionCount)

		assert.Equal(t, enum.PaymentStatusUnpaid, order.PaymentStatus)
		assert.Equal(t, int64(1000), order.Remaining)
	})

	t.Run("cancelling twice is rejected", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		env.openShift(t, cashier, "REG-1", 0)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		payment, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID: order.ID, CashierID: cashier,
			Method: enum.PaymentMethodCash, Amount: 10.00,
		})
		require.NoError(t, err)
		require.NoError(t, env.paymentSvc.CancelPayment(env.ctx(), payment.ID))

		err = env.paymentSvc.CancelPayment(env.ctx(), payment.ID)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("completion time survives recompute", func(t *testing.T) {
		env := newServiceEnv(t)
		cashier := uuid.New()
		env.openShift(t, cashier, "REG-1", 0)
		order := seedOrder(t, env, enum.OrderTypeCounterSale, 1000, nil)

		before := time.Now()
		_, err := env.paymentSvc.SubmitPayment(env.ctx(), &SubmitPaymentInput{
			OrderID: order.ID, CashierID: cashier,
			Method: enum.PaymentMethodCash, Amount: 10.00,
		})
		require.NoError(t, err)
		require.NotNil(t, order.CompletedAt)
		assert.False(t, order.CompletedAt.Before(before))
	})
}
