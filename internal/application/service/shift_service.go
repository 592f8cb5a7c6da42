package service

import (
	"context"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	infraRepo "github.com/dukapos/dukapos-api/internal/infrastructure/repository"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/dukapos/dukapos-api/pkg/pagination"
	"github.com/google/uuid"
)

// ShiftService manages cash-register sessions. Running totals are fed by the
// payment dispatcher and completed refunds while a shift is open; Close
// reconciles them once and freezes the report.
type ShiftService struct {
	shiftRepo repository.ShiftRepository
	events    *EventBus
}

// NewShiftService creates a new shift service
func NewShiftService(shiftRepo repository.ShiftRepository, events *EventBus) *ShiftService {
	return &ShiftService{shiftRepo: shiftRepo, events: events}
}

// OpenShiftInput represents the open shift input
type OpenShiftInput struct {
	CashierID        uuid.UUID
	CashRegisterCode string
	OpeningBalance   float64
	Notes            string
}

// OpenShift starts a new session for a cashier at a register. At most one
// open shift may exist per cashier and per register; the pre-checks give a
// friendly error and the storage constraint closes the race window.
func (s *ShiftService) OpenShift(ctx context.Context, input *OpenShiftInput) (*entity.ShiftReport, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	if input.CashRegisterCode == "" {
		return nil, apperror.NewViolationsError([]string{"cash register code is required"})
	}
	if input.OpeningBalance < 0 {
		return nil, apperror.NewViolationsError([]string{"opening balance cannot be negative"})
	}

	existing, err := s.shiftRepo.GetOpenByCashier(ctx, input.CashierID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Cashier already has an open shift")
	}

	existing, err = s.shiftRepo.GetOpenByRegister(ctx, input.CashRegisterCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Cash register already has an open shift")
	}

	shift := &entity.ShiftReport{
		StoreID:          storeID,
		CashierID:        input.CashierID,
		CashRegisterCode: input.CashRegisterCode,
		Status:           enum.ShiftStatusOpen,
		OpeningBalance:   int64(input.OpeningBalance * 100),
		Notes:            input.Notes,
		OpenedAt:         time.Now(),
	}
	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

// CloseShift reconciles and ends an open shift. The expected balance counts
// only cash movement; card and mobile settle outside the till.
func (s *ShiftService) CloseShift(ctx context.Context, shiftID uuid.UUID, actualBalance float64, notes string) (*entity.ShiftReport, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}

	if shift.Status != enum.ShiftStatusOpen {
		return nil, apperror.NewConflictError("Shift is not open; resume a suspended shift before closing it")
	}

	now := time.Now()
	shift.ExpectedBalance = shift.ComputeExpectedBalance()
	shift.ActualBalance = int64(actualBalance * 100)
	shift.Discrepancy = shift.ActualBalance - shift.ExpectedBalance
	shift.Status = enum.ShiftStatusClosed
	shift.ClosedAt = &now
	if notes != "" {
		shift.Notes = notes
	}

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, EventShiftClosed, shift)
	return shift, nil
}

// SuspendShift pauses an open shift without reconciling it
func (s *ShiftService) SuspendShift(ctx context.Context, shiftID uuid.UUID) (*entity.ShiftReport, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	if shift.Status != enum.ShiftStatusOpen {
		return nil, apperror.NewConflictError("Only an open shift can be suspended")
	}

	shift.Status = enum.ShiftStatusSuspended
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// ResumeShift reopens a suspended shift
func (s *ShiftService) ResumeShift(ctx context.Context, shiftID uuid.UUID) (*entity.ShiftReport, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	if shift.Status != enum.ShiftStatusSuspended {
		return nil, apperror.NewConflictError("Only a suspended shift can be resumed")
	}

	// The cashier may not have opened another shift in the meantime.
	open, err := s.shiftRepo.GetOpenByCashier(ctx, shift.CashierID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apperror.NewConflictError("Cashier already has an open shift")
	}

	shift.Status = enum.ShiftStatusOpen
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// GetCurrentShift returns the cashier's open shift, if any
func (s *ShiftService) GetCurrentShift(ctx context.Context, cashierID uuid.UUID) (*entity.ShiftReport, error) {
	shift, err := s.shiftRepo.GetOpenByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Open shift")
	}
	return shift, nil
}

// GetShift retrieves a shift by ID
func (s *ShiftService) GetShift(ctx context.Context, id uuid.UUID) (*entity.ShiftReport, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	return shift, nil
}

// ListShifts lists shift reports with filtering
func (s *ShiftService) ListShifts(ctx context.Context, params *repository.ShiftFilterParams) (*pagination.PaginatedResult[entity.ShiftReport], error) {
	shifts, total, err := s.shiftRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(shifts, pag), nil
}
