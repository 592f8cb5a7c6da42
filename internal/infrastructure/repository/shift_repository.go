package repository

import (
	"context"
	"errors"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	domainRepo "github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *gorm.DB) domainRepo.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *entity.ShiftReport) error {
	err := r.db.WithContext(ctx).Create(shift).Error
	// The partial unique index on (cashier_id, cash_register_code) WHERE
	// status = open turns a concurrent duplicate open into a conflict here.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConflictError("An open shift already exists for this cashier or register")
	}
	return err
}

func (r *shiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ShiftReport, error) {
	var shift entity.ShiftReport
	err := r.db.WithContext(ctx).First(&shift, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) GetOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.ShiftReport, error) {
	var shift entity.ShiftReport
	err := r.db.WithContext(ctx).
		Where("cashier_id = ? AND status = ?", cashierID, enum.ShiftStatusOpen).
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) GetOpenByRegister(ctx context.Context, registerCode string) (*entity.ShiftReport, error) {
	var shift entity.ShiftReport
	err := r.db.WithContext(ctx).
		Where("cash_register_code = ? AND status = ?", registerCode, enum.ShiftStatusOpen).
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) Update(ctx context.Context, shift *entity.ShiftReport) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

func (r *shiftRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ShiftStatus) error {
	return r.db.WithContext(ctx).Model(&entity.ShiftReport{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// AddToTotals applies the delta as atomic SQL increments so concurrent
// payments never lose updates to the running totals.
func (r *shiftRepository) AddToTotals(ctx context.Context, id uuid.UUID, delta domainRepo.ShiftTotalsDelta) error {
	updates := map[string]interface{}{}
	if delta.CashTotal != 0 {
		updates["cash_total"] = gorm.Expr("cash_total + ?", delta.CashTotal)
	}
	if delta.CardTotal != 0 {
		updates["card_total"] = gorm.Expr("card_total + ?", delta.CardTotal)
	}
	if delta.MobileTotal != 0 {
		updates["mobile_total"] = gorm.Expr("mobile_total + ?", delta.MobileTotal)
	}
	if delta.TotalSales != 0 {
		updates["total_sales"] = gorm.Expr("total_sales + ?", delta.TotalSales)
	}
	if delta.TotalRefunds != 0 {
		updates["total_refunds"] = gorm.Expr("total_refunds + ?", delta.TotalRefunds)
	}
	if delta.CashRefunds != 0 {
		updates["cash_refunds"] = gorm.Expr("cash_refunds + ?", delta.CashRefunds)
	}
	if delta.Transactions != 0 {
		updates["transaction_count"] = gorm.Expr("transaction_count + ?", delta.Transactions)
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&entity.ShiftReport{}).
		Where("id = ? AND status = ?", id, enum.ShiftStatusOpen).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NewConflictError("Shift is not open")
	}
	return nil
}

func (r *shiftRepository) List(ctx context.Context, params *domainRepo.ShiftFilterParams) ([]entity.ShiftReport, int64, error) {
	var shifts []entity.ShiftReport
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ShiftReport{}).Scopes(StoreScope(ctx))

	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.StartDate != nil {
		query = query.Where("opened_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("opened_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("opened_at DESC").
		Find(&shifts).Error

	return shifts, total, err
}
