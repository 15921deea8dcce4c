package services

import (
	"context"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/gstbooks/gst_billing_app/internal/dto"
)

// DocumentSvcFacade is the submission flow the computation engine plugs into.
type DocumentSvcFacade interface {
	// CreateDocument validates the request, computes all aggregates, freezes the
	// exchange rate for foreign-currency documents and persists the result.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)

	// GetDocumentByID retrieves a document with its lines and charges.
	GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocuments retrieves documents of one type, newest first.
	ListDocuments(ctx context.Context, docType domain.DocumentType, limit, offset int) ([]domain.Document, error)

	// RecordPayment appends an immutable payment, recomputes paid/balance
	// aggregates and re-derives the document status.
	RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, creatorUserID string) (*domain.Document, error)

	// ListDocumentPayments retrieves the payments recorded against a document.
	ListDocumentPayments(ctx context.Context, documentID string) ([]domain.Payment, error)

	// CancelDocument marks a document Cancelled. Cancelled is terminal.
	CancelDocument(ctx context.Context, documentID string, userID string) error
}
