package repository

import (
	"context"
	"errors"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	domainRepo "github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository creates a new refund repository
func NewRefundRepository(db *gorm.DB) domainRepo.RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *refundRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	var refund entity.Refund
	err := r.db.WithContext(ctx).First(&refund, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &refund, err
}

func (r *refundRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	var refund entity.Refund
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&refund, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &refund, err
}

func (r *refundRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Refund, error) {
	var refunds []entity.Refund
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

func (r *refundRepository) Update(ctx context.Context, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Save(refund).Error
}

func (r *refundRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.RefundStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Refund{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *refundRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Refund{}).
		Where("number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *refundRepository) SumCompletedByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Refund{}).
		Where("order_id = ? AND status = ?", orderID, enum.RefundStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *refundRepository) List(ctx context.Context, params *domainRepo.RefundFilterParams) ([]entity.Refund, int64, error) {
	var refunds []entity.Refund
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Refund{}).Scopes(StoreScope(ctx))

	if params.OrderID != nil {
		query = query.Where("order_id = ?", *params.OrderID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&refunds).Error

	return refunds, total, err
}
