package repository

import (
	"context"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// DocumentRepository defines the interface for document data operations.
// Create must fail with a duplicate-key error when the number is already
// taken; the numbering service relies on that to survive check-then-act
// races between concurrent generators.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	GetByNumber(ctx context.Context, number string) (*entity.Document, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Document, error)
	Update(ctx context.Context, doc *entity.Document) error
	// IncrementPrintCount atomically bumps the print counter.
	IncrementPrintCount(ctx context.Context, id uuid.UUID) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	// CountByTypeAndPeriod counts documents of a type issued within the
	// period, used to derive the next sequence number.
	CountByTypeAndPeriod(ctx context.Context, docType enum.DocumentType, storeID *uuid.UUID, start, end time.Time) (int64, error)
	List(ctx context.Context, params *DocumentFilterParams) ([]entity.Document, int64, error)
}

// DocumentFilterParams contains filtering parameters for document queries
type DocumentFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.DocumentType
	OrderID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
