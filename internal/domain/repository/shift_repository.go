package repository

import (
	"context"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// ShiftTotalsDelta is an additive update to a shift's running totals. All
// amounts are in cents and applied as atomic SQL increments, so concurrent
// payments against the same shift never lose updates.
type ShiftTotalsDelta struct {
	CashTotal    int64
	CardTotal    int64
	MobileTotal  int64
	TotalSales   int64
	TotalRefunds int64
	CashRefunds  int64
	Transactions int
}

// ShiftRepository defines the interface for shift report data operations
type ShiftRepository interface {
	// Create persists a new shift. A concurrent open shift for the same
	// cashier and register violates a storage uniqueness constraint, which
	// the implementation surfaces as a conflict.
	Create(ctx context.Context, shift *entity.ShiftReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ShiftReport, error)
	// GetOpenByCashier returns the cashier's current open shift, nil if none.
	GetOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.ShiftReport, error)
	GetOpenByRegister(ctx context.Context, registerCode string) (*entity.ShiftReport, error)
	Update(ctx context.Context, shift *entity.ShiftReport) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ShiftStatus) error
	// AddToTotals applies the delta with atomic increments.
	AddToTotals(ctx context.Context, id uuid.UUID, delta ShiftTotalsDelta) error
	List(ctx context.Context, params *ShiftFilterParams) ([]entity.ShiftReport, int64, error)
}

// ShiftFilterParams contains filtering parameters for shift queries
type ShiftFilterParams struct {
	Pagination *pagination.PaginationParams
	CashierID  *uuid.UUID
	Status     *enum.ShiftStatus
	StartDate  *time.Time
	EndDate    *time.Time
}
