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

// refundFixture is a completed, fully cash-paid order for one product so
// refund tests can exercise the whole state machine.
type refundFixture struct {
	env      *serviceEnv
	product  *entity.Product
	customer *entity.Customer
	order    *entity.Order
}

func newRefundFixture(t *testing.T, method enum.PaymentMethod) *refundFixture {
	t.Helper()
	env := newServiceEnv(t)
	product := env.seedProduct(t, "Sugar 1kg", 1000, 10)
	customer := env.seedCustomer(t, "Jane Wanjiku")

	order := &entity.Order{
		Number:     "ORD-MAIN-RF-" + uuid.New().String()[:8],
		StoreID:    env.store.ID,
		CashierID:  uuid.New(),
		CustomerID: &customer.ID,
		OrderType:  enum.OrderTypeCounterSale,
		Status:     enum.OrderStatusCompleted,
		Items: []entity.OrderItem{{
			ProductID:  product.ID,
			Quantity:   3,
			UnitPrice:  1000,
			FinalPrice: 3000,
		}},
	}
	order.RecomputeTotals()
	order.Paid = order.Total
	order.PaymentStatus = enum.PaymentStatusPaid
	order.Remaining = 0
	require.NoError(t, env.orders.Create(env.ctx(), order))

	// The three units left the shelf when the order was made.
	product.Quantity -= 3
	customer.TotalPurchases = 1
	customer.TotalSpent = order.Total

	require.NoError(t, env.payments.Create(env.ctx(), &entity.Payment{
		OrderID:   order.ID,
		CashierID: order.CashierID,
		Method:    method,
		State:     enum.PaymentStatePaid,
		Amount:    order.Total,
		PaidAt:    time.Now(),
	}))

	return &refundFixture{env: env, product: product, customer: customer, order: order}
}

func (f *refundFixture) createRefund(t *testing.T, qty int, amount, fee float64) *entity.Refund {
	t.Helper()
	refund, err := f.env.refundSvc.CreateRefund(f.env.ctx(), &CreateRefundInput{
		OrderID:     f.order.ID,
		RequestedBy: uuid.New(),
		Reason:      "damaged packaging",
		Items: []RefundItemInput{{
			ProductID:     f.product.ID,
			Quantity:      qty,
			Amount:        amount,
			RestockingFee: fee,
		}},
	})
	require.NoError(t, err)
	return refund
}

func completeRefundPath(t *testing.T, f *refundFixture, refund *entity.Refund, actorID uuid.UUID) *entity.Refund {
	t.Helper()
	for _, target := range []enum.RefundStatus{
		enum.RefundStatusApproved,
		enum.RefundStatusProcessing,
		enum.RefundStatusCompleted,
	} {
		var err error
		refund, err = f.env.refundSvc.TransitionRefund(f.env.ctx(), refund.ID, target, actorID)
		require.NoError(t, err)
	}
	return refund
}

func TestCreateRefund(t *testing.T) {
	t.Run("opens pending with fees deducted", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		refund := f.createRefund(t, 1, 10.00, 1.00)

		assert.Equal(t, enum.RefundStatusPending, refund.Status)
		assert.Equal(t, int64(900), refund.Amount)
		assert.Contains(t, refund.Number, "RFD-")
		assert.Equal(t, f.order.StoreID, refund.StoreID)
		require.Len(t, refund.Items, 1)

		// Nothing moves until completion.
		assert.Equal(t, 7, f.product.Quantity)
	})

	t.Run("only completed orders qualify", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		f.order.Status = enum.OrderStatusPending

		_, err := f.env.refundSvc.CreateRefund(f.env.ctx(), &CreateRefundInput{
			OrderID:     f.order.ID,
			RequestedBy: uuid.New(),
			Items:       []RefundItemInput{{ProductID: f.product.ID, Quantity: 1, Amount: 10}},
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("quantity cannot exceed what was sold", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		_, err := f.env.refundSvc.CreateRefund(f.env.ctx(), &CreateRefundInput{
			OrderID:     f.order.ID,
			RequestedBy: uuid.New(),
			Items:       []RefundItemInput{{ProductID: f.product.ID, Quantity: 5, Amount: 50}},
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})

	t.Run("fees cannot swallow the refund", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		_, err := f.env.refundSvc.CreateRefund(f.env.ctx(), &CreateRefundInput{
			OrderID:     f.order.ID,
			RequestedBy: uuid.New(),
			Items:       []RefundItemInput{{ProductID: f.product.ID, Quantity: 1, Amount: 5, RestockingFee: 5}},
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})

	t.Run("payout cannot exceed the order total", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		_, err := f.env.refundSvc.CreateRefund(f.env.ctx(), &CreateRefundInput{
			OrderID:     f.order.ID,
			RequestedBy: uuid.New(),
			Items:       []RefundItemInput{{ProductID: f.product.ID, Quantity: 3, Amount: 45.00}},
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("fully refunded orders refuse another refund", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		refund := f.createRefund(t, 3, 30.00, 0)
		completeRefundPath(t, f, refund, f.order.CashierID)

		_, err := f.env.refundSvc.CreateRefund(f.env.ctx(), &CreateRefundInput{
			OrderID:     f.order.ID,
			RequestedBy: uuid.New(),
			Items:       []RefundItemInput{{ProductID: f.product.ID, Quantity: 1, Amount: 10}},
		})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("at least one item is required", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		_, err := f.env.refundSvc.CreateRefund(f.env.ctx(), &CreateRefundInput{
			OrderID:     f.order.ID,
			RequestedBy: uuid.New(),
		})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})
}

func TestTransitionRefund(t *testing.T) {
	t.Run("skipping states is a conflict", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		refund := f.createRefund(t, 1, 10.00, 0)

		_, err := f.env.refundSvc.TransitionRefund(f.env.ctx(), refund.ID, enum.RefundStatusCompleted, uuid.New())
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})

	t.Run("rejection is a plain status change", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		refund := f.createRefund(t, 1, 10.00, 0)

		rejected, err := f.env.refundSvc.TransitionRefund(f.env.ctx(), refund.ID, enum.RefundStatusRejected, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, enum.RefundStatusRejected, rejected.Status)
		assert.Equal(t, 7, f.product.Quantity)
	})

	t.Run("completion restocks and reconciles a cash order against the shift", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		actor := uuid.New()
		shift := f.env.openShift(t, actor, "REG-1", 0)
		refund := f.createRefund(t, 2, 20.00, 2.00)

		completed := completeRefundPath(t, f, refund, actor)

		assert.Equal(t, enum.RefundStatusCompleted, completed.Status)
		require.NotNil(t, completed.CompletedAt)
		assert.Equal(t, 9, f.product.Quantity)

		assert.Equal(t, f.order.Total-int64(1800), f.customer.TotalSpent)
		assert.Equal(t, int64(1800), shift.TotalRefunds)
		assert.Equal(t, int64(1800), shift.CashRefunds)
	})

	t.Run("card orders refund outside the till", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCard)
		actor := uuid.New()
		shift := f.env.openShift(t, actor, "REG-1", 0)
		refund := f.createRefund(t, 1, 10.00, 0)

		completeRefundPath(t, f, refund, actor)

		assert.Equal(t, int64(1000), shift.TotalRefunds)
		assert.Equal(t, int64(0), shift.CashRefunds)
	})

	t.Run("no open shift still completes the refund", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		refund := f.createRefund(t, 1, 10.00, 0)

		completed := completeRefundPath(t, f, refund, uuid.New())
		assert.Equal(t, enum.RefundStatusCompleted, completed.Status)
		assert.Equal(t, 8, f.product.Quantity)
	})

	t.Run("exchange needs replacement stock", func(t *testing.T) {
		f := newRefundFixture(t, enum.PaymentMethodCash)
		replacement := f.env.seedProduct(t, "Sugar 2kg", 1800, 0)

		refund, err := f.env.refundSvc.CreateRefund(f.env.ctx(), &CreateRefundInput{
			OrderID:     f.order.ID,
			RequestedBy: uuid.New(),
			Items: []RefundItemInput{{
				ProductID:         f.product.ID,
				Quantity:          1,
				Amount:            10.00,
				ExchangeProductID: &replacement.ID,
			}},
		})
		require.NoError(t, err)

		for _, target := range []enum.RefundStatus{enum.RefundStatusApproved, enum.RefundStatusProcessing} {
			_, err = f.env.refundSvc.TransitionRefund(f.env.ctx(), refund.ID, target, uuid.New())
			require.NoError(t, err)
		}

		_, err = f.env.refundSvc.TransitionRefund(f.env.ctx(), refund.ID, enum.RefundStatusCompleted, uuid.New())
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
		// The returned unit was not restocked either; the completion failed
		// as a whole.
		assert.Equal(t, 7, f.product.Quantity)
	})

	t.Run("missing refund is not found", func(t *testing.T) {
		env := newServiceEnv(t)
		_, err := env.refundSvc.TransitionRefund(env.ctx(), uuid.New(), enum.RefundStatusApproved, uuid.New())
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}
