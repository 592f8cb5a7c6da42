package repository

import (
	"context"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error)
	UpdateState(ctx context.Context, id uuid.UUID, state enum.PaymentState) error
}
