package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/dukapos/dukapos-api/pkg/apperror"
	"github.com/dukapos/dukapos-api/pkg/filestore"
	"github.com/dukapos/dukapos-api/pkg/pagination"
	"github.com/dukapos/dukapos-api/pkg/printer"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentService issues, reprints and voids numbered business documents.
// A document number is allocated exactly once at first generation; reprints
// reuse it and only bump the print counter.
type DocumentService struct {
	documentRepo repository.DocumentRepository
	orderRepo    repository.OrderRepository
	storeRepo    repository.StoreRepository
	refundRepo   repository.RefundRepository
	numbering    *DocumentNumberService
	files        *filestore.Store
	ticketPrint  printer.Printer
	events       *EventBus
	strategies   map[enum.DocumentType]documentStrategy
	ticket       documentBuilder
	plain        documentBuilder
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documentRepo repository.DocumentRepository,
	orderRepo repository.OrderRepository,
	storeRepo repository.StoreRepository,
	refundRepo repository.RefundRepository,
	numbering *DocumentNumberService,
	files *filestore.Store,
	ticketPrint printer.Printer,
	events *EventBus,
	ticketWidth int,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		orderRepo:    orderRepo,
		storeRepo:    storeRepo,
		refundRepo:   refundRepo,
		numbering:    numbering,
		files:        files,
		ticketPrint:  ticketPrint,
		events:       events,
		strategies:   documentStrategies(),
		ticket:       escposBuilder{width: ticketWidth},
		plain:        textBuilder{},
	}
}

// GenerateDocumentInput represents the generate document input
type GenerateDocumentInput struct {
	OrderID  uuid.UUID
	Type     enum.DocumentType
	RefundID *uuid.UUID
}

// GenerateDocument runs the fixed issuance sequence: load, resolve strategy,
// validate, prepare, allocate number, persist the record, render and store
// the bytes, notify. A rendering failure after the record is committed does
// not roll the document back; the bytes can be produced again via reprint.
func (s *DocumentService) GenerateDocument(ctx context.Context, input *GenerateDocumentInput) (*entity.Document, error) {
	strategy, ok := s.strategies[input.Type]
	if !ok {
		return nil, apperror.NewConfigurationError("No document strategy registered for type " + input.Type.String())
	}

	order, err := s.orderRepo.GetWithItems(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	store, err := s.storeRepo.GetByID(ctx, order.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}

	dc := &documentContext{Order: order, Store: store}
	if input.RefundID != nil {
		refund, err := s.refundRepo.GetByID(ctx, *input.RefundID)
		if err != nil {
			return nil, err
		}
		if refund == nil {
			return nil, apperror.NewNotFoundError("Refund")
		}
		dc.Refund = refund
	}

	if !strategy.CanGenerate(dc) {
		return nil, apperror.NewBadRequestError("Order is not eligible for a " + input.Type.String())
	}
	if violations := strategy.Validate(dc); len(violations) > 0 {
		return nil, apperror.NewViolationsError(violations)
	}

	// Allocate a number and persist. A racing generator can take the
	// candidate between the existence check and the insert; the duplicate
	// key from storage restarts the allocation.
	var doc *entity.Document
	issuedAt := time.Now()
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := s.numbering.GenerateDocumentNumber(ctx, input.Type, store, issuedAt)
		if err != nil {
			return nil, err
		}

		doc = &entity.Document{
			Number:   number,
			Type:     input.Type,
			Status:   enum.DocumentStatusActive,
			StoreID:  store.ID,
			OrderID:  order.ID,
			RefundID: input.RefundID,
			IssuedAt: issuedAt,
		}
		err = s.documentRepo.Create(ctx, doc)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			doc = nil
			continue
		}
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewConflictError("Document numbering exhausted under concurrent generation")
	}

	data := strategy.PrepareData(dc, doc.Number, issuedAt)
	data.Cashier = order.Cashier.FullName()

	content := s.builderFor(input.Type).Render(data)
	ref, err := s.files.Save(input.Type.String(), doc.Number, content)
	if err != nil {
		// The numbered document exists as a business fact; the bytes can be
		// re-rendered via reprint.
		log.Printf("document %s rendered but content not stored: %v", doc.Number, err)
		return doc, nil
	}

	doc.ContentRef = ref
	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	if input.Type == enum.DocumentTypeTicket && s.ticketPrint != nil {
		if err := s.ticketPrint.Print(content); err != nil {
			log.Printf("ticket %s not sent to printer: %v", doc.Number, err)
		}
	}

	s.events.Publish(ctx, EventDocumentGenerated, doc)
	return doc, nil
}

// ReprintDocument re-issues the stored bytes under the existing number and
// counts the print.
func (s *DocumentService) ReprintDocument(ctx context.Context, documentID uuid.UUID) (*entity.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFoundError("Document")
	}

	strategy, ok := s.strategies[doc.Type]
	if !ok {
		return nil, apperror.NewConfigurationError("No document strategy registered for type " + doc.Type.String())
	}
	if !strategy.AllowsReprint() {
		return nil, apperror.NewBadRequestError(doc.Type.String() + " does not allow reprint")
	}

	if err := s.documentRepo.IncrementPrintCount(ctx, doc.ID); err != nil {
		return nil, err
	}
	doc.PrintCount++

	if doc.Type == enum.DocumentTypeTicket && s.ticketPrint != nil && doc.ContentRef != "" {
		content, err := s.files.Load(doc.ContentRef)
		if err == nil {
			if err := s.ticketPrint.Print(content); err != nil {
				log.Printf("ticket %s not sent to printer: %v", doc.Number, err)
			}
		}
	}

	s.events.Publish(ctx, EventDocumentGenerated, doc)
	return doc, nil
}

// VoidDocument marks a document void. Invoices, refund notes and credit
// notes cannot be voided; a corrective document is issued instead.
func (s *DocumentService) VoidDocument(ctx context.Context, documentID uuid.UUID) (*entity.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFoundError("Document")
	}

	strategy, ok := s.strategies[doc.Type]
	if !ok {
		return nil, apperror.NewConfigurationError("No document strategy registered for type " + doc.Type.String())
	}
	if !strategy.AllowsVoid() {
		return nil, apperror.NewBadRequestError(doc.Type.String() + " does not allow void; issue a corrective document")
	}
	if doc.Status == enum.DocumentStatusVoid {
		return nil, apperror.NewBadRequestError("Document is already void")
	}

	doc.Status = enum.DocumentStatusVoid
	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetDocument retrieves a document by ID
func (s *DocumentService) GetDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFoundError("Document")
	}
	return doc, nil
}

// GetDocumentContent loads the rendered bytes for a document
func (s *DocumentService) GetDocumentContent(ctx context.Context, id uuid.UUID) ([]byte, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.ContentRef == "" {
		return nil, apperror.NewNotFoundError("Document content")
	}
	return s.files.Load(doc.ContentRef)
}

// ListDocuments lists documents with filtering
func (s *DocumentService) ListDocuments(ctx context.Context, params *repository.DocumentFilterParams) (*pagination.PaginatedResult[entity.Document], error) {
	docs, total, err := s.documentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(docs, pag), nil
}

func (s *DocumentService) builderFor(t enum.DocumentType) documentBuilder {
	if t == enum.DocumentTypeTicket {
		return s.ticket
	}
	return s.plain
}
