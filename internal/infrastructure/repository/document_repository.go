package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	domainRepo "github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) domainRepo.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	// Duplicate numbers bubble up as gorm.ErrDuplicatedKey for the numbering
	// service's retry loop.
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var doc entity.Document
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &doc, err
}

func (r *documentRepository) GetByNumber(ctx context.Context, number string) (*entity.Document, error) {
	var doc entity.Document
	err := r.db.WithContext(ctx).First(&doc, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &doc, err
}

func (r *documentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Document, error) {
	var docs []entity.Document
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("issued_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) Update(ctx context.Context, doc *entity.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *documentRepository) IncrementPrintCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Document{}).
		Where("id = ?", id).
		Update("print_count", gorm.Expr("print_count + 1")).Error
}

func (r *documentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Document{}).
		Where("number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *documentRepository) CountByTypeAndPeriod(ctx context.Context, docType enum.DocumentType, storeID *uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Document{}).
		Where("type = ? AND issued_at >= ? AND issued_at < ?", docType, start, end)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *documentRepository) List(ctx context.Context, params *domainRepo.DocumentFilterParams) ([]entity.Document, int64, error) {
	var docs []entity.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Document{}).Scopes(StoreScope(ctx))

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}

	if params.OrderID != nil {
		query = query.Where("order_id = ?", *params.OrderID)
	}

	if params.StartDate != nil {
		query = query.Where("issued_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("issued_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("issued_at DESC").
		Find(&docs).Error

	return docs, total, err
}
