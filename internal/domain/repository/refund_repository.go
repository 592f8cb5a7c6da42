package repository

import (
	"context"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// RefundRepository defines the interface for refund data operations
type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Refund, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Refund, error)
	Update(ctx context.Context, refund *entity.Refund) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.RefundStatus) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	// SumCompletedByOrder returns the total amount already refunded for the
	// order across completed refunds, in cents.
	SumCompletedByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	List(ctx context.Context, params *RefundFilterParams) ([]entity.Refund, int64, error)
}

// RefundFilterParams contains filtering parameters for refund queries
type RefundFilterParams struct {
	Pagination *pagination.PaginationParams
	OrderID    *uuid.UUID
	Status     *enum.RefundStatus
}
