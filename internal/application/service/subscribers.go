package service

import (
	"context"
	"fmt"
	"log"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/dukapos/dukapos-api/pkg/email"
)

// loyaltyCentsPerPoint awards one loyalty point per 100 shillings spent.
const loyaltyCentsPerPoint = 10000

// SubscriberDeps carries everything the built-in event subscribers need.
type SubscriberDeps struct {
	CustomerRepo repository.CustomerRepository
	OrderRepo    repository.OrderRepository
	StoreRepo    repository.StoreRepository
	Email        *email.EmailService
}

// RegisterSubscribers wires the built-in reactions to business events:
// loyalty accrual, low stock alerts, customer notifications and an audit
// trail. Called once at startup before the first Publish.
func RegisterSubscribers(bus *EventBus, deps SubscriberDeps) {
	bus.Subscribe(EventOrderCompleted, func(ctx context.Context, payload interface{}) {
		order, ok := payload.(*entity.Order)
		if !ok || order.CustomerID == nil {
			return
		}
		points := order.Total / loyaltyCentsPerPoint
		if points <= 0 {
			return
		}
		if err := deps.CustomerRepo.AddLoyaltyPoints(ctx, *order.CustomerID, points); err != nil {
			log.Printf("loyalty accrual failed for order %s: %v", order.Number, err)
			return
		}
		log.Printf("audit: order %s completed, %d loyalty points awarded", order.Number, points)
	})

	bus.Subscribe(EventLowStock, func(ctx context.Context, payload interface{}) {
		product, ok := payload.(*entity.Product)
		if !ok {
			return
		}
		log.Printf("alert: product %s (%s) is low on stock: %d left (threshold %d)",
			product.Name, product.Code, product.Quantity, product.QuantityAlert)
	})

	bus.Subscribe(EventPaymentRecorded, func(ctx context.Context, payload interface{}) {
		payment, ok := payload.(*entity.Payment)
		if !ok {
			return
		}
		log.Printf("audit: payment %s recorded via %s for %.2f",
			payment.ID, payment.Method.String(), float64(payment.Amount)/100)
	})

	bus.Subscribe(EventRefundCompleted, func(ctx context.Context, payload interface{}) {
		refund, ok := payload.(*entity.Refund)
		if !ok {
			return
		}
		log.Printf("audit: refund %s completed for %.2f",
			refund.Number, float64(refund.Amount)/100)
	})

	bus.Subscribe(EventShiftClosed, func(ctx context.Context, payload interface{}) {
		shift, ok := payload.(*entity.ShiftReport)
		if !ok {
			return
		}
		log.Printf("audit: shift on register %s closed, discrepancy %.2f",
			shift.CashRegisterCode, float64(shift.Discrepancy)/100)
	})

	bus.Subscribe(EventDocumentGenerated, func(ctx context.Context, payload interface{}) {
		doc, ok := payload.(*entity.Document)
		if !ok {
			return
		}
		log.Printf("audit: document %s (%s) generated", doc.Number, doc.Type.String())
		notifyCustomer(ctx, deps, doc)
	})
}

// notifyCustomer emails the order's customer about an issued document.
// Orders without a customer, or customers without an email address, are
// silently skipped.
func notifyCustomer(ctx context.Context, deps SubscriberDeps, doc *entity.Document) {
	if deps.Email == nil {
		return
	}

	order, err := deps.OrderRepo.GetByID(ctx, doc.OrderID)
	if err != nil || order == nil || order.CustomerID == nil {
		return
	}

	customer, err := deps.CustomerRepo.GetByID(ctx, *order.CustomerID)
	if err != nil || customer == nil || customer.Email == nil {
		return
	}

	store, err := deps.StoreRepo.GetByID(ctx, doc.StoreID)
	if err != nil || store == nil {
		return
	}

	msg := email.DocumentEmail{
		CustomerName:   customer.Name,
		DocumentType:   doc.Type.String(),
		DocumentNumber: doc.Number,
		StoreName:      store.Name,
		Total:          fmt.Sprintf("%.2f", float64(order.Total)/100),
	}
	if err := deps.Email.SendDocumentEmail(*customer.Email, msg); err != nil {
		log.Printf("document email for %s failed: %v", doc.Number, err)
	}
}
