package service

import (
	"testing"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCompletedOrder(t *testing.T, env *serviceEnv, orderType enum.OrderType, customerID *uuid.UUID) *entity.Order {
	t.Helper()
	order := seedOrder(t, env, orderType, 2000, customerID)
	order.Status = enum.OrderStatusCompleted
	order.PaymentStatus = enum.PaymentStatusPaid
	order.Paid = order.Total
	order.Remaining = 0
	return order
}

func seedPendingRefund(t *testing.T, env *serviceEnv, order *entity.Order, amountCents int64) *entity.Refund {
	t.Helper()
	refund := &entity.Refund{
		Number:      "RFD-" + uuid.New().String()[:8],
		OrderID:     order.ID,
		StoreID:     order.StoreID,
		RequestedBy: uuid.New(),
		Status:      enum.RefundStatusPending,
		Amount:      amountCents,
	}
	require.NoError(t, env.refunds.Create(env.ctx(), refund))
	return refund
}

func TestGenerateDocument(t *testing.T) {
	t.Run("ticket for a completed sale", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)

		doc, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID,
			Type:    enum.DocumentTypeTicket,
		})
		require.NoError(t, err)

		assert.Contains(t, doc.Number, "TKT-MAIN-")
		assert.Equal(t, enum.DocumentStatusActive, doc.Status)
		assert.NotEmpty(t, doc.ContentRef)

		content, err := env.docSvc.GetDocumentContent(env.ctx(), doc.ID)
		require.NoError(t, err)
		assert.Contains(t, string(content), "SALES TICKET")
		assert.Contains(t, string(content), "Main Branch")
	})

	t.Run("ticket numbers advance per store and day", func(t *testing.T) {
		env := newServiceEnv(t)
		first := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)
		second := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)

		docA, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: first.ID, Type: enum.DocumentTypeTicket})
		require.NoError(t, err)
		docB, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: second.ID, Type: enum.DocumentTypeTicket})
		require.NoError(t, err)

		assert.NotEqual(t, docA.Number, docB.Number)
		assert.Contains(t, docA.Number, "-0001")
		assert.Contains(t, docB.Number, "-0002")
	})

	t.Run("invoice only for account sales with a customer", func(t *testing.T) {
		env := newServiceEnv(t)
		counter := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)

		_, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: counter.ID, Type: enum.DocumentTypeInvoice})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)

		customer := env.seedCustomer(t, "Acme Ltd")
		credit := seedCompletedOrder(t, env, enum.OrderTypeCreditSale, &customer.ID)
		doc, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: credit.ID, Type: enum.DocumentTypeInvoice})
		require.NoError(t, err)
		assert.Contains(t, doc.Number, "INV-")

		content, err := env.docSvc.GetDocumentContent(env.ctx(), doc.ID)
		require.NoError(t, err)
		assert.Contains(t, string(content), "INVOICE")
	})

	t.Run("proforma only for proforma orders", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedOrder(t, env, enum.OrderTypeProforma, 2000, nil)

		doc, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID, Type: enum.DocumentTypeProforma})
		require.NoError(t, err)
		assert.Contains(t, doc.Number, "PRO-")

		counter := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)
		_, err = env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: counter.ID, Type: enum.DocumentTypeProforma})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("refund note needs a refund", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)

		_, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID, Type: enum.DocumentTypeRefund})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)

		refund := seedPendingRefund(t, env, order, 500)
		doc, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID, Type: enum.DocumentTypeRefund, RefundID: &refund.ID})
		require.NoError(t, err)
		assert.Contains(t, doc.Number, "REF-")
		require.NotNil(t, doc.RefundID)
	})

	t.Run("delivery note needs a shipping address", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedCompletedOrder(t, env, enum.OrderTypeOnlineSale, nil)

		_, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID, Type: enum.DocumentTypeDeliveryNote})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)

		addr := "Moi Avenue 12, Nairobi"
		order.ShippingAddr = &addr
		doc, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID, Type: enum.DocumentTypeDeliveryNote})
		require.NoError(t, err)
		assert.Contains(t, doc.Number, "DN-")
	})

	t.Run("empty order fails validation", func(t *testing.T) {
		env := newServiceEnv(t)
		order := &entity.Order{
			Number:    "ORD-MAIN-EMPTY",
			StoreID:   env.store.ID,
			CashierID: uuid.New(),
			Status:    enum.OrderStatusCompleted,
		}
		require.NoError(t, env.orders.Create(env.ctx(), order))

		_, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID, Type: enum.DocumentTypeTicket})
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	})

	t.Run("missing order is not found", func(t *testing.T) {
		env := newServiceEnv(t)
		_, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: uuid.New(), Type: enum.DocumentTypeTicket})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}

func TestGenerateDocumentRacingGenerators(t *testing.T) {
	env := newServiceEnv(t)
	order := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)

	const generators = 6
	type outcome struct {
		number string
		err    error
	}
	results := make(chan outcome, generators)
	for i := 0; i < generators; i++ {
		go func() {
			doc, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
				OrderID: order.ID,
				Type:    enum.DocumentTypeTicket,
			})
			if err != nil {
				results <- outcome{err: err}
				return
			}
			results <- outcome{number: doc.Number}
		}()
	}

	numbers := make(map[string]bool, generators)
	for i := 0; i < generators; i++ {
		r := <-results
		require.NoError(t, r.err)
		numbers[r.number] = true
	}
	assert.Len(t, numbers, generators)
}

func TestReprintDocument(t *testing.T) {
	t.Run("reprint keeps the number and counts the print", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)

		doc, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID, Type: enum.DocumentTypeTicket})
		require.NoError(t, err)
		number := doc.Number

		reprinted, err := env.docSvc.ReprintDocument(env.ctx(), doc.ID)
		require.NoError(t, err)
		assert.Equal(t, number, reprinted.Number)
		assert.Equal(t, 1, reprinted.PrintCount)

		reprinted, err = env.docSvc.ReprintDocument(env.ctx(), doc.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, reprinted.PrintCount)
	})

	t.Run("missing document is not found", func(t *testing.T) {
		env := newServiceEnv(t)
		_, err := env.docSvc.ReprintDocument(env.ctx(), uuid.New())
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}

func TestVoidDocument(t *testing.T) {
	t.Run("tickets can be voided", func(t *testing.T) {
		env := newServiceEnv(t)
		order := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)
		doc, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID, Type: enum.DocumentTypeTicket})
		require.NoError(t, err)

		voided, err := env.docSvc.VoidDocument(env.ctx(), doc.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.DocumentStatusVoid, voided.Status)

		_, err = env.docSvc.VoidDocument(env.ctx(), doc.ID)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("invoices are corrected, never voided", func(t *testing.T) {
		env := newServiceEnv(t)
		customer := env.seedCustomer(t, "Acme Ltd")
		order := seedCompletedOrder(t, env, enum.OrderTypeCreditSale, &customer.ID)
		doc, err := env.docSvc.GenerateDocument(env.ctx(), &GenerateDocumentInput{
			OrderID: order.ID, Type: enum.DocumentTypeInvoice})
		require.NoError(t, err)

		_, err = env.docSvc.VoidDocument(env.ctx(), doc.ID)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
		assert.Equal(t, enum.DocumentStatusActive, doc.Status)
	})
}

func TestGetDocumentContent(t *testing.T) {
	env := newServiceEnv(t)
	order := seedCompletedOrder(t, env, enum.OrderTypeCounterSale, nil)
	doc := &entity.Document{
		Number:  "TKT-MAIN-NOBYTES-0001",
		Type:    enum.DocumentTypeTicket,
		StoreID: env.store.ID,
		OrderID: order.ID,
	}
	require.NoError(t, env.documents.Create(env.ctx(), doc))

	_, err := env.docSvc.GetDocumentContent(env.ctx(), doc.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
