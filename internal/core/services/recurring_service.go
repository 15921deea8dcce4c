package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// paymentTermDays maps payment-terms strings to due-date offsets in days.
// Unknown terms fall back to defaultTermDays.
var paymentTermDays = map[string]int{
	"due on receipt": 0,
	"net 15":         15,
	"net 30":         30,
	"net 45":         45,
	"net 60":         60,
}

const defaultTermDays = 30

// recurringService generates documents from recurring templates.
type recurringService struct {
	BaseService
	recurringRepo portsrepo.RecurringRepositoryFacade
	totalsService portssvc.TotalsSvcFacade
	currencySvc   portssvc.CurrencySvcFacade
	supplierState string
	baseCurrency  string
}

// RecurringServiceOption is a functional option for configuring the recurring service
type RecurringServiceOption func(*recurringService)

// NewRecurringService creates a new recurring-invoice scheduler service.
// supplierState is the configured GST state code of the business itself.
func NewRecurringService(repo portsrepo.RecurringRepositoryFacade, totals portssvc.TotalsSvcFacade, currency portssvc.CurrencySvcFacade, supplierState, baseCurrency string, options ...RecurringServiceOption) portssvc.RecurringSvcFacade {
	svc := &recurringService{
		recurringRepo: repo,
		totalsService: totals,
		currencySvc:   currency,
		supplierState: supplierState,
		baseCurrency:  baseCurrency,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure recurringService implements the RecurringSvcFacade interface
var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// CreateTemplate validates and persists a new recurring template.
func (s *recurringService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorUserID string) (*domain.RecurringTemplate, error) {
	if req.PlaceOfSupplyState == "" {
		return nil, fmt.Errorf("%w: place-of-supply state code is missing", apperrors.ErrConfiguration)
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}

	now := time.Now()
	templateID := uuid.NewString()

	currency := req.CurrencyCode
	if currency == "" {
		currency = s.baseCurrency
	}

	items := make([]domain.TemplateItem, 0, len(req.Items))
	for i, item := range req.Items {
		li := domain.LineItem{
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DiscountType: item.DiscountType,
			Discount:     item.Discount,
			TaxRate:      item.TaxRate,
			CessRate:     item.CessRate,
		}
		if err := li.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, domain.TemplateItem{
			TemplateItemID: uuid.NewString(),
			TemplateID:     templateID,
			ProductID:      item.ProductID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountType:   item.DiscountType,
			Discount:       item.Discount,
			TaxRate:        item.TaxRate,
			CessRate:       item.CessRate,
			IsService:      item.IsService,
		})
	}

	tmpl := domain.RecurringTemplate{
		TemplateID:         templateID,
		Name:               req.Name,
		PartyID:            req.PartyID,
		PlaceOfSupplyState: req.PlaceOfSupplyState,
		CurrencyCode:       currency,
		Terms:              req.Terms,
		RecurrenceType:     req.RecurrenceType,
		RecurrenceInterval: req.RecurrenceInterval,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		NextGenerationDate: req.StartDate,
		IsActive:           true,
		Items:              items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.recurringRepo.SaveTemplate(ctx, tmpl); err != nil {
		s.LogError(ctx, err, "Failed to save recurring template", slog.String("template_id", templateID))
		return nil, fmt.Errorf("failed to create recurring template: %w", err)
	}
	return &tmpl, nil
}

// GetTemplateByID retrieves a template with its items.
func (s *recurringService) GetTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	tmpl, err := s.recurringRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring template: %w", err)
	}
	return tmpl, nil
}

// ListTemplates retrieves templates, newest first.
func (s *recurringService) ListTemplates(ctx context.Context, limit, offset int) ([]domain.RecurringTemplate, error) {
	templates, err := s.recurringRepo.ListTemplates(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}
	if templates == nil {
		return []domain.RecurringTemplate{}, nil
	}
	return templates, nil
}

// RunDueTemplates generates a document for every template due at now. One
// template's failure never aborts the rest of the run; failures are collected
// in the report. At most one document is produced per template per invocation
// because the read-generate-advance sequence holds a row lock on the template.
func (s *recurringService) RunDueTemplates(ctx context.Context, now time.Time) (*domain.RunReport, error) {
	ids, err := s.recurringRepo.ListDueTemplateIDs(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due recurring templates")
		return nil, fmt.Errorf("failed to list due templates: %w", err)
	}

	report := &domain.RunReport{
		Generated: []string{},
		Failed:    []domain.TemplateFailure{},
	}

	for _, templateID := range ids {
		docID, err := s.processTemplate(ctx, templateID, now)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// Another scheduler instance claimed the template, or it stopped
				// being due between listing and locking. Not a failure.
				s.LogDebug(ctx, "Template no longer due, skipping", slog.String("template_id", templateID))
				continue
			}
			s.LogError(ctx, err, "Recurring generation failed for template", slog.String("template_id", templateID))
			report.Failed = append(report.Failed, domain.TemplateFailure{
				TemplateID: templateID,
				Reason:     err.Error(),
			})
			continue
		}
		report.Generated = append(report.Generated, docID)
	}

	s.LogInfo(ctx, "Recurring run completed",
		slog.Int("generated", len(report.Generated)),
		slog.Int("failed", len(report.Failed)))
	return report, nil
}

// processTemplate handles one template inside a single transaction: lock the
// row, build the document, advance the next generation date, commit. The
// document insert and the date advance persist together or not at all.
func (s *recurringService) processTemplate(ctx context.Context, templateID string, now time.Time) (string, error) {
	tx, err := s.recurringRepo.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := s.recurringRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to rollback recurring run transaction", slog.String("template_id", templateID))
			}
		}
	}()

	tmpl, err := s.recurringRepo.LockTemplateForRun(ctx, tx, templateID, now)
	if err != nil {
		return "", err
	}

	rate, err := s.resolveRate(ctx, tmpl.CurrencyCode)
	if err != nil {
		return "", err
	}

	doc, err := s.buildDocument(tmpl, rate, now)
	if err != nil {
		return "", err
	}

	if err := s.recurringRepo.SaveGeneratedDocument(ctx, tx, *doc); err != nil {
		return "", fmt.Errorf("failed to save generated document: %w", err)
	}

	next := nextGenerationDate(tmpl.NextGenerationDate, tmpl.RecurrenceType, tmpl.RecurrenceInterval)
	if !next.After(tmpl.NextGenerationDate) {
		return "", fmt.Errorf("%w: next generation date did not advance for recurrence %s interval %d",
			apperrors.ErrConfiguration, tmpl.RecurrenceType, tmpl.RecurrenceInterval)
	}
	if err := s.recurringRepo.AdvanceNextGenerationDate(ctx, tx, tmpl.TemplateID, next); err != nil {
		return "", fmt.Errorf("failed to advance next generation date: %w", err)
	}

	if err := s.recurringRepo.Commit(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to commit recurring run transaction: %w", err)
	}
	committed = true
	return doc.DocumentID, nil
}

// resolveRate freezes the exchange rate for a generated document at generation
// time, the same way manually created documents freeze theirs on submission.
// An unresolved rate fails the single template, not the whole run.
func (s *recurringService) resolveRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	if currency == s.baseCurrency {
		return decimal.NewFromInt(1), nil
	}
	res, err := s.currencySvc.GetRate(ctx, currency, s.baseCurrency)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve exchange rate for %s: %w", currency, err)
	}
	return res.Rate, nil
}

// buildDocument copies template rows into a fresh document and runs the totals
// calculator over them.
func (s *recurringService) buildDocument(tmpl *domain.RecurringTemplate, exchangeRate decimal.Decimal, now time.Time) (*domain.Document, error) {
	if len(tmpl.Items) == 0 {
		return nil, fmt.Errorf("%w: template has no line items", apperrors.ErrValidation)
	}
	if tmpl.RecurrenceInterval < 1 {
		return nil, fmt.Errorf("%w: recurrence interval must be at least 1", apperrors.ErrConfiguration)
	}

	documentID := uuid.NewString()
	lines := make([]domain.LineItem, 0, len(tmpl.Items))
	for _, item := range tmpl.Items {
		lines = append(lines, domain.LineItem{
			LineItemID:   uuid.NewString(),
			DocumentID:   documentID,
			ProductID:    item.ProductID,
			Description:  item.Description,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DiscountType: item.DiscountType,
			Discount:     item.Discount,
			TaxRate:      item.TaxRate,
			CessRate:     item.CessRate,
			IsService:    item.IsService,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     "scheduler",
				LastUpdatedAt: now,
				LastUpdatedBy: "scheduler",
			},
		})
	}

	totals, err := s.totalsService.ComputeTotals(lines, nil, s.supplierState, tmpl.PlaceOfSupplyState, exchangeRate)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		DocumentID:          documentID,
		DocumentType:        domain.DocumentInvoice,
		DocumentNumber:      fmt.Sprintf("INV-%s-%s", now.Format("20060102"), strings.ToUpper(documentID[:8])),
		PartyID:             tmpl.PartyID,
		Date:                now,
		DueDate:             dueDateFromTerms(tmpl.Terms, now),
		PlaceOfSupplyState:  tmpl.PlaceOfSupplyState,
		CurrencyCode:        tmpl.CurrencyCode,
		ExchangeRate:        exchangeRate,
		Lines:               lines,
		TaxableValue:        totals.TaxableValue,
		CGST:                totals.Tax.CGST,
		SGST:                totals.Tax.SGST,
		IGST:                totals.Tax.IGST,
		Cess:                totals.Tax.Cess,
		RoundOff:            totals.RoundOff,
		GrandTotal:          totals.GrandTotal,
		PaidAmount:          decimal.Zero,
		BalanceAmount:       totals.GrandTotal,
		Status:              domain.StatusSent,
		RecurringTemplateID: tmpl.TemplateID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "scheduler",
			LastUpdatedAt: now,
			LastUpdatedBy: "scheduler",
		},
	}
	return doc, nil
}

// dueDateFromTerms computes the due date from a payment-terms string.
func dueDateFromTerms(terms string, date time.Time) time.Time {
	days, ok := paymentTermDays[strings.ToLower(strings.TrimSpace(terms))]
	if !ok {
		days = defaultTermDays
	}
	return date.AddDate(0, 0, days)
}

// nextGenerationDate advances a template date by one recurrence step.
// Monthly and yearly use calendar addition with end-of-month clamping, so
// Jan 31 + 1 month lands on Feb 29 or Feb 28, never Mar 2.
func nextGenerationDate(current time.Time, recurrence domain.RecurrenceType, interval int) time.Time {
	switch recurrence {
	case domain.RecurWeekly:
		return current.AddDate(0, 0, 7*interval)
	case domain.RecurMonthly:
		return addMonthsClamped(current, interval)
	case domain.RecurYearly:
		return addMonthsClamped(current, 12*interval)
	}
	return current
}

// addMonthsClamped adds calendar months, clamping the day to the last day of
// the target month instead of letting time.AddDate roll over.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
