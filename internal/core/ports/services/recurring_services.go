package services

import (
	"context"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/gstbooks/gst_billing_app/internal/dto"
)

// RecurringSvcFacade manages recurring templates and the scheduling run.
type RecurringSvcFacade interface {
	// CreateTemplate validates and persists a new recurring template.
	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorUserID string) (*domain.RecurringTemplate, error)

	// GetTemplateByID retrieves a template with its items.
	GetTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error)

	// ListTemplates retrieves templates, newest first.
	ListTemplates(ctx context.Context, limit, offset int) ([]domain.RecurringTemplate, error)

	// RunDueTemplates generates documents for every template due at now.
	// Per-template failures are collected in the report; the run itself only
	// fails when the due-template listing cannot be read.
	RunDueTemplates(ctx context.Context, now time.Time) (*domain.RunReport, error)
}
