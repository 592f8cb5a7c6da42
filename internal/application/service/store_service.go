package service

import (
	"context"
	"strings"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/google/uuid"
)

// StoreService handles store-related operations
type StoreService struct {
	storeRepo repository.StoreRepository
}

// NewStoreService creates a new store service
func NewStoreService(storeRepo repository.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// CreateStoreInput represents input for creating a store
type CreateStoreInput struct {
	Name    string
	Code    string
	Address *string
	Phone   *string
	Email   *string
	TaxID   *string
}

// CreateStore creates a new store. The code becomes part of every ticket
// number issued by the store, so it is uppercased and must be unique.
func (s *StoreService) CreateStore(ctx context.Context, input *CreateStoreInput) (*entity.Store, error) {
	if input.Name == "" {
		return nil, apperror.NewViolationsError([]string{"store name is required"})
	}
	if input.Code == "" {
		return nil, apperror.NewViolationsError([]string{"store code is required"})
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	existing, err := s.storeRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Store code already exists")
	}

	store := &entity.Store{
		Name:    input.Name,
		Code:    code,
		Address: input.Address,
		Phone:   input.Phone,
		Email:   input.Email,
		TaxID:   input.TaxID,
		Active:  true,
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}

	return store, nil
}

// GetStore retrieves a store by ID
func (s *StoreService) GetStore(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}
	return store, nil
}

// ListStores lists all stores
func (s *StoreService) ListStores(ctx context.Context) ([]entity.Store, error) {
	return s.storeRepo.List(ctx)
}

// UpdateStoreInput represents input for updating a store
type UpdateStoreInput struct {
	StoreID uuid.UUID
	Name    *string
	Address *string
	Phone   *string
	Email   *string
	TaxID   *string
	Active  *bool
}

// UpdateStore updates a store. The code is immutable once issued documents
// embed it.
func (s *StoreService) UpdateStore(ctx context.Context, input *UpdateStoreInput) (*entity.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}

	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.Address != nil {
		store.Address = input.Address
	}
	if input.Phone != nil {
		store.Phone = input.Phone
	}
	if input.Email != nil {
		store.Email = input.Email
	}
	if input.TaxID != nil {
		store.TaxID = input.TaxID
	}
	if input.Active != nil {
		store.Active = *input.Active
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}
