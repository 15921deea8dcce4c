package repositories

import (
	"context"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// RecurringTemplateReader defines read operations for recurring templates
type RecurringTemplateReader interface {
	// FindTemplateByID retrieves a template with its items.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)

	// ListDueTemplateIDs returns the IDs of active templates whose
	// nextGenerationDate is on or before now and whose endDate has not passed.
	ListDueTemplateIDs(ctx context.Context, now time.Time) ([]string, error)

	// ListTemplates retrieves all templates, newest first.
	ListTemplates(ctx context.Context, limit, offset int) ([]domain.RecurringTemplate, error)
}

// RecurringTemplateWriter defines write operations for recurring templates
type RecurringTemplateWriter interface {
	// SaveTemplate persists a template together with its items.
	SaveTemplate(ctx context.Context, tmpl domain.RecurringTemplate) error
}

// RecurringUnitOfWork is the transactional boundary for one scheduling tick of
// one template. LockTemplateForRun takes a row lock (FOR UPDATE SKIP LOCKED) so
// the read-generate-advance sequence is atomic per template even when multiple
// scheduler instances run concurrently; a template already locked or no longer
// due yields apperrors.ErrNotFound and the caller moves on.
type RecurringUnitOfWork interface {
	TransactionManager

	// LockTemplateForRun loads and row-locks a template if it is still due at now.
	LockTemplateForRun(ctx context.Context, tx pgx.Tx, templateID string, now time.Time) (*domain.RecurringTemplate, error)

	// SaveGeneratedDocument persists a generated document inside the run transaction.
	SaveGeneratedDocument(ctx context.Context, tx pgx.Tx, doc domain.Document) error

	// AdvanceNextGenerationDate moves the template's next generation date forward
	// inside the run transaction.
	AdvanceNextGenerationDate(ctx context.Context, tx pgx.Tx, templateID string, next time.Time) error
}

// RecurringRepositoryFacade combines all recurring-template repository interfaces
type RecurringRepositoryFacade interface {
	RecurringTemplateReader
	RecurringTemplateWriter
	RecurringUnitOfWork
}
