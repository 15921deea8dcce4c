package repositories

import (
	"context"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DocumentReader defines read operations for documents
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its lines and charges.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocuments retrieves documents of one type, newest first.
	ListDocuments(ctx context.Context, docType domain.DocumentType, limit, offset int) ([]domain.Document, error)
}

// DocumentWriter defines write operations for documents
type DocumentWriter interface {
	// SaveDocument persists a document together with its lines and charges.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocumentStatus updates only the document status.
	UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus) error
}

// PaymentUnitOfWork is the transactional boundary for recording one payment.
// FindDocumentForUpdate row-locks the document header so two concurrent
// payments serialize on the balance check; the payment insert and the
// aggregate update commit together or not at all.
type PaymentUnitOfWork interface {
	TransactionManager

	// FindDocumentForUpdate loads and row-locks a document header. Lines and
	// charges are not loaded.
	FindDocumentForUpdate(ctx context.Context, tx pgx.Tx, documentID string) (*domain.Document, error)

	// SavePayment persists an immutable payment record inside the transaction.
	SavePayment(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// UpdateDocumentPayment updates the paid/balance aggregates and status
	// inside the transaction.
	UpdateDocumentPayment(ctx context.Context, tx pgx.Tx, documentID string, paidAmount, balanceAmount decimal.Decimal, status domain.DocumentStatus) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	PaymentUnitOfWork
}

// PaymentReader defines read operations for payment records
type PaymentReader interface {
	// ListPaymentsByDocument retrieves the payments recorded against a document.
	ListPaymentsByDocument(ctx context.Context, documentID string) ([]domain.Payment, error)
}

// PaymentRepositoryFacade combines all payment-related repository interfaces.
// Payment writes happen through the PaymentUnitOfWork on the document side, so
// two concurrent payments can never both pass the balance check.
type PaymentRepositoryFacade interface {
	PaymentReader
}
