package services

import (
	"context"
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

// documentService implements the document submission flow.
type documentService struct {
	BaseService
	documentRepo  portsrepo.DocumentRepositoryFacade
	paymentRepo   portsrepo.PaymentRepositoryFacade
	partyRepo     portsrepo.PartyReader
	totalsService portssvc.TotalsSvcFacade
	currencySvc   portssvc.CurrencySvcFacade
	statusSvc     portssvc.PaymentStatusSvcFacade
	supplierState string
	baseCurrency  string
	now           func() time.Time
}

// DocumentServiceOption is a functional option for configuring the document service
type DocumentServiceOption func(*documentService)

// WithDocumentClock overrides the time source, for tests.
func WithDocumentClock(now func() time.Time) DocumentServiceOption {
	return func(s *documentService) {
		s.now = now
	}
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	documentRepo portsrepo.DocumentRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	partyRepo portsrepo.PartyReader,
	totalsService portssvc.TotalsSvcFacade,
	currencySvc portssvc.CurrencySvcFacade,
	statusSvc portssvc.PaymentStatusSvcFacade,
	supplierState, baseCurrency string,
	options ...DocumentServiceOption,
) portssvc.DocumentSvcFacade {
	svc := &documentService{
		documentRepo:  documentRepo,
		paymentRepo:   paymentRepo,
		partyRepo:     partyRepo,
		totalsService: totalsService,
		currencySvc:   currencySvc,
		statusSvc:     statusSvc,
		supplierState: supplierState,
		baseCurrency:  baseCurrency,
		now:           time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure documentService implements the DocumentSvcFacade interface
var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// CreateDocument validates the request, computes all aggregates and persists
// the document. The exchange rate for foreign-currency documents is resolved
// once here and frozen on the document.
func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, req.PartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load party %s: %w", req.PartyID, err)
	}
	if req.DocumentType == domain.DocumentInvoice && !party.IsCustomer {
		return nil, fmt.Errorf("%w: party %s is not a customer", apperrors.ErrValidation, req.PartyID)
	}
	if req.DocumentType == domain.DocumentPurchase && !party.IsVendor {
		return nil, fmt.Errorf("%w: party %s is not a vendor", apperrors.ErrValidation, req.PartyID)
	}
	if req.PlaceOfSupplyState == "" {
		return nil, fmt.Errorf("%w: place-of-supply state code is missing", apperrors.ErrConfiguration)
	}

	currency := strings.ToUpper(req.CurrencyCode)
	if currency == "" {
		currency = s.baseCurrency
	}
	exchangeRate := decimal.NewFromInt(1)
	if currency != s.baseCurrency {
		res, err := s.currencySvc.GetRate(ctx, currency, s.baseCurrency)
		if err != nil {
			return nil, fmt.Errorf("failed to freeze exchange rate for %s: %w", currency, err)
		}
		exchangeRate = res.Rate
		s.LogDebug(ctx, "Exchange rate frozen on document",
			slog.String("currency", currency),
			slog.String("rate", exchangeRate.String()),
			slog.String("source", string(res.Source)))
	}

	now := s.now()
	documentID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	lines := make([]domain.LineItem, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, domain.LineItem{
			LineItemID:   uuid.NewString(),
			DocumentID:   documentID,
			ProductID:    l.ProductID,
			Description:  l.Description,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			DiscountType: l.DiscountType,
			Discount:     l.Discount,
			TaxRate:      l.TaxRate,
			CessRate:     l.CessRate,
			IsService:    l.IsService,
			AuditFields:  audit,
		})
	}
	charges := make([]domain.Charge, 0, len(req.Charges))
	for _, c := range req.Charges {
		charges = append(charges, domain.Charge{
			ChargeID:    uuid.NewString(),
			DocumentID:  documentID,
			Name:        c.Name,
			Amount:      c.Amount,
			Taxable:     c.Taxable,
			TaxRate:     c.TaxRate,
			AuditFields: audit,
		})
	}

	totals, err := s.totalsService.ComputeTotals(lines, charges, s.supplierState, req.PlaceOfSupplyState, exchangeRate)
	if err != nil {
		return nil, err
	}

	dueDate := req.DueDate
	if dueDate.IsZero() {
		dueDate = req.Date.AddDate(0, 0, defaultTermDays)
	}

	status := domain.StatusDraft
	if req.MarkSent {
		status = domain.StatusSent
	}

	prefix := "INV"
	if req.DocumentType == domain.DocumentPurchase {
		prefix = "PUR"
	}

	doc := domain.Document{
		DocumentID:         documentID,
		DocumentType:       req.DocumentType,
		DocumentNumber:     fmt.Sprintf("%s-%s-%s", prefix, req.Date.Format("20060102"), strings.ToUpper(documentID[:8])),
		PartyID:            req.PartyID,
		Date:               req.Date,
		DueDate:            dueDate,
		PlaceOfSupplyState: req.PlaceOfSupplyState,
		CurrencyCode:       currency,
		ExchangeRate:       exchangeRate,
		Lines:              lines,
		Charges:            charges,
		TaxableValue:       totals.TaxableValue,
		CGST:               totals.Tax.CGST,
		SGST:               totals.Tax.SGST,
		IGST:               totals.Tax.IGST,
		Cess:               totals.Tax.Cess,
		RoundOff:           totals.RoundOff,
		GrandTotal:         totals.GrandTotal,
		PaidAmount:         decimal.Zero,
		BalanceAmount:      totals.GrandTotal,
		Status:             status,
		AuditFields:        audit,
	}

	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to save document", slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.LogInfo(ctx, "Document created",
		slog.String("document_id", documentID),
		slog.String("document_number", doc.DocumentNumber),
		slog.String("grand_total", doc.GrandTotal.String()))
	return &doc, nil
}

// GetDocumentByID retrieves a document with its lines and charges.
func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListDocuments retrieves documents of one type, newest first.
func (s *documentService) ListDocuments(ctx context.Context, docType domain.DocumentType, limit, offset int) ([]domain.Document, error) {
	docs, err := s.documentRepo.ListDocuments(ctx, docType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if docs == nil {
		return []domain.Document{}, nil
	}
	return docs, nil
}

// RecordPayment appends an immutable payment record, recomputes the paid and
// balance aggregates and re-derives the document status. The whole sequence
// runs inside one transaction with the document row locked, so concurrent
// payments serialize on the balance check and the payment insert and the
// aggregate update commit together or not at all.
func (s *documentService) RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, creatorUserID string) (*domain.Document, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	tx, err := s.documentRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin payment transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := s.documentRepo.Rollback(ctx, tx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to rollback payment transaction", slog.String("document_id", documentID))
			}
		}
	}()

	doc, err := s.documentRepo.FindDocumentForUpdate(ctx, tx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", documentID, err)
	}
	if doc.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: cannot record a payment against a cancelled document", apperrors.ErrValidation)
	}
	if req.Amount.GreaterThan(doc.BalanceAmount) {
		return nil, fmt.Errorf("%w: payment %s exceeds open balance %s",
			apperrors.ErrValidation, req.Amount.String(), doc.BalanceAmount.String())
	}

	now := s.now()
	payment := domain.Payment{
		PaymentID:  uuid.NewString(),
		DocumentID: documentID,
		Amount:     req.Amount,
		Date:       req.Date,
		Method:     req.Method,
		Reference:  req.Reference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.documentRepo.SavePayment(ctx, tx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment", slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	doc.PaidAmount = doc.PaidAmount.Add(req.Amount)
	doc.BalanceAmount = doc.GrandTotal.Sub(doc.PaidAmount)
	doc.Status = s.statusSvc.Derive(doc.Status, doc.GrandTotal, doc.BalanceAmount, doc.DueDate, now)

	if err := s.documentRepo.UpdateDocumentPayment(ctx, tx, documentID, doc.PaidAmount, doc.BalanceAmount, doc.Status); err != nil {
		s.LogError(ctx, err, "Failed to update document aggregates after payment", slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to update document after payment: %w", err)
	}

	if err := s.documentRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit payment transaction: %w", err)
	}
	committed = true

	s.LogInfo(ctx, "Payment recorded",
		slog.String("document_id", documentID),
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(doc.Status)))
	return doc, nil
}

// ListDocumentPayments retrieves the payments recorded against a document.
func (s *documentService) ListDocumentPayments(ctx context.Context, documentID string) ([]domain.Payment, error) {
	if _, err := s.documentRepo.FindDocumentByID(ctx, documentID); err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", documentID, err)
	}
	payments, err := s.paymentRepo.ListPaymentsByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}

// CancelDocument marks a document Cancelled. Cancelled is terminal; cancelling
// an already cancelled document is a no-op.
func (s *documentService) CancelDocument(ctx context.Context, documentID string, userID string) error {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to load document %s: %w", documentID, err)
	}
	if doc.Status == domain.StatusCancelled {
		return nil
	}
	if err := s.documentRepo.UpdateDocumentStatus(ctx, documentID, domain.StatusCancelled); err != nil {
		s.LogError(ctx, err, "Failed to cancel document", slog.String("document_id", documentID))
		return fmt.Errorf("failed to cancel document: %w", err)
	}
	s.LogInfo(ctx, "Document cancelled", slog.String("document_id", documentID), slog.String("user_id", userID))
	return nil
}
