package repository

import (
	"context"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// IncrementPurchaseStats atomically adds to the customer's aggregate
	// purchase counters. Negative amounts reverse a refunded purchase.
	IncrementPurchaseStats(ctx context.Context, id uuid.UUID, orders int, amount int64) error
	// AddLoyaltyPoints atomically adds loyalty points.
	AddLoyaltyPoints(ctx context.Context, id uuid.UUID, points int64) error
}
