package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/google/uuid"
)

// maxNumberAttempts bounds the collision-retry loop. Exhausting it means the
// numbering subsystem needs operator intervention.
const maxNumberAttempts = 20

// DocumentNumberService allocates unique sequential numbers for documents
// and orders. Sequences are derived from storage counts, not an in-process
// counter, so multiple instances can generate concurrently. The existence
// pre-check alone is not sufficient against races; callers must treat a
// duplicate-key error on persist as a collision and regenerate.
type DocumentNumberService struct {
	documentRepo repository.DocumentRepository
	orderRepo    repository.OrderRepository
}

// NewDocumentNumberService creates a new document number service
func NewDocumentNumberService(
	documentRepo repository.DocumentRepository,
	orderRepo repository.OrderRepository,
) *DocumentNumberService {
	return &DocumentNumberService{
		documentRepo: documentRepo,
		orderRepo:    orderRepo,
	}
}

// GenerateDocumentNumber builds the next free number for a document type.
// Tickets are scoped per store and reset daily:
//
//	TKT-{STORE_CODE}-{YYYYMMDD}-{0001}
//
// All other types share a global monthly sequence:
//
//	{PREFIX}-{YYYYMM}-{0001}
//
// Gaps are acceptable; duplicates are not.
func (s *DocumentNumberService) GenerateDocumentNumber(ctx context.Context, docType enum.DocumentType, store *entity.Store, at time.Time) (string, error) {
	var storeID *uuid.UUID
	var format func(seq int64) string
	var start, end time.Time

	if docType == enum.DocumentTypeTicket {
		if store == nil {
			return "", apperror.NewConfigurationError("ticket numbering requires a store")
		}
		start = time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
		end = start.AddDate(0, 0, 1)
		period := at.Format("20060102")
		code := store.Code
		id := store.ID
		storeID = &id
		format = func(seq int64) string {
			return fmt.Sprintf("%s-%s-%s-%04d", docType.Prefix(), code, period, seq)
		}
	} else {
		start = time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
		end = start.AddDate(0, 1, 0)
		period := at.Format("200601")
		format = func(seq int64) string {
			return fmt.Sprintf("%s-%s-%04d", docType.Prefix(), period, seq)
		}
	}

	count, err := s.documentRepo.CountByTypeAndPeriod(ctx, docType, storeID, start, end)
	if err != nil {
		return "", err
	}

	seq := count + 1
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := format(seq)
		exists, err := s.documentRepo.ExistsByNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		seq++
	}

	return "", apperror.NewConflictError(
		fmt.Sprintf("Document numbering exhausted for %s after %d attempts", docType, maxNumberAttempts))
}

// GenerateOrderNumber builds the next free order number, scoped per store
// with a daily sequence: ORD-{STORE_CODE}-{YYYYMMDD}-{0001}.
func (s *DocumentNumberService) GenerateOrderNumber(ctx context.Context, store *entity.Store, at time.Time) (string, error) {
	if store == nil {
		return "", apperror.NewConfigurationError("order numbering requires a store")
	}

	start := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	end := start.AddDate(0, 0, 1)
	period := at.Format("20060102")

	count, err := s.orderRepo.CountByPeriod(ctx, start, end)
	if err != nil {
		return "", err
	}

	seq := count + 1
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := fmt.Sprintf("ORD-%s-%s-%04d", store.Code, period, seq)
		exists, err := s.orderRepo.ExistsByNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		seq++
	}

	return "", apperror.NewConflictError(
		fmt.Sprintf("Order numbering exhausted after %d attempts", maxNumberAttempts))
}
