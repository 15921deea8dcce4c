package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/core/services"
	"github.com/gstbooks/gst_billing_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RecurringRepository ---
type MockRecurringRepository struct {
	mock.Mock
}

func (m *MockRecurringRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringRepository) ListDueTemplateIDs(ctx context.Context, now time.Time) ([]string, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecurringRepository) ListTemplates(ctx context.Context, limit, offset int) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringRepository) SaveTemplate(ctx context.Context, tmpl domain.RecurringTemplate) error {
	args := m.Called(ctx, tmpl)
	return args.Error(0)
}

func (m *MockRecurringRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRecurringRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRecurringRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRecurringRepository) LockTemplateForRun(ctx context.Context, tx pgx.Tx, templateID string, now time.Time) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, tx, templateID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringRepository) SaveGeneratedDocument(ctx context.Context, tx pgx.Tx, doc domain.Document) error {
	args := m.Called(ctx, tx, doc)
	return args.Error(0)
}

func (m *MockRecurringRepository) AdvanceNextGenerationDate(ctx context.Context, tx pgx.Tx, templateID string, next time.Time) error {
	args := m.Called(ctx, tx, templateID, next)
	return args.Error(0)
}

// --- Test Suite ---
type RecurringServiceTestSuite struct {
	suite.Suite
	mockRepo        *MockRecurringRepository
	mockCurrencySvc *MockCurrencyService
	service         portssvc.RecurringSvcFacade
	ctx             context.Context
}

func (s *RecurringServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockRecurringRepository)
	s.mockCurrencySvc = new(MockCurrencyService)
	s.service = services.NewRecurringService(s.mockRepo, services.NewTotalsService(), s.mockCurrencySvc, "27", "INR")
	s.ctx = context.Background()
}

func (s *RecurringServiceTestSuite) template(id string, nextGen time.Time, recurrence domain.RecurrenceType, interval int) *domain.RecurringTemplate {
	return &domain.RecurringTemplate{
		TemplateID:         id,
		Name:               "Monthly retainer",
		PartyID:            "party-1",
		PlaceOfSupplyState: "27",
		CurrencyCode:       "INR",
		Terms:              "Net 30",
		RecurrenceType:     recurrence,
		RecurrenceInterval: interval,
		StartDate:          nextGen.AddDate(-1, 0, 0),
		NextGenerationDate: nextGen,
		IsActive:           true,
		Items: []domain.TemplateItem{
			{
				TemplateItemID: "ti-1",
				TemplateID:     id,
				Description:    "Consulting retainer",
				Quantity:       d("1"),
				UnitPrice:      d("10000"),
				TaxRate:        d("18"),
			},
		},
	}
}

func (s *RecurringServiceTestSuite) TestRunDueTemplates_GeneratesAndAdvances() {
	now := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	tmpl := s.template("tmpl-1", now, domain.RecurMonthly, 1)

	s.mockRepo.On("ListDueTemplateIDs", s.ctx, now).Return([]string{"tmpl-1"}, nil)
	s.mockRepo.On("Begin", s.ctx).Return(nil, nil)
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-1", now).Return(tmpl, nil)

	var savedDoc domain.Document
	s.mockRepo.On("SaveGeneratedDocument", s.ctx, nil, mock.AnythingOfType("domain.Document")).
		Run(func(args mock.Arguments) {
			savedDoc = args.Get(2).(domain.Document)
		}).Return(nil)
	s.mockRepo.On("AdvanceNextGenerationDate", s.ctx, nil, "tmpl-1",
		time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC)).Return(nil)
	s.mockRepo.On("Commit", s.ctx, nil).Return(nil)

	report, err := s.service.RunDueTemplates(s.ctx, now)
	s.Require().NoError(err)
	s.Len(report.Generated, 1)
	s.Empty(report.Failed)

	s.Equal(domain.DocumentInvoice, savedDoc.DocumentType)
	s.Equal(domain.StatusSent, savedDoc.Status)
	s.Equal("tmpl-1", savedDoc.RecurringTemplateID)
	s.True(savedDoc.GrandTotal.Equal(d("11800")), "grand total: %s", savedDoc.GrandTotal)
	s.True(savedDoc.BalanceAmount.Equal(savedDoc.GrandTotal))
	// "Net 30" terms put the due date 30 days out.
	s.Equal(now.AddDate(0, 0, 30), savedDoc.DueDate)

	s.mockRepo.AssertExpectations(s.T())
	// Base-currency templates never hit the rate resolver.
	s.mockCurrencySvc.AssertNotCalled(s.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RecurringServiceTestSuite) TestRunDueTemplates_ForeignCurrencyFreezesRate() {
	now := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	tmpl := s.template("tmpl-1", now, domain.RecurMonthly, 1)
	tmpl.CurrencyCode = "USD"

	s.mockRepo.On("ListDueTemplateIDs", s.ctx, now).Return([]string{"tmpl-1"}, nil)
	s.mockRepo.On("Begin", s.ctx).Return(nil, nil)
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-1", now).Return(tmpl, nil)
	s.mockCurrencySvc.On("GetRate", s.ctx, "USD", "INR").
		Return(&domain.RateResolution{Rate: d("83.25"), Source: domain.RateOriginLive}, nil)

	var savedDoc domain.Document
	s.mockRepo.On("SaveGeneratedDocument", s.ctx, nil, mock.AnythingOfType("domain.Document")).
		Run(func(args mock.Arguments) {
			savedDoc = args.Get(2).(domain.Document)
		}).Return(nil)
	s.mockRepo.On("AdvanceNextGenerationDate", s.ctx, nil, "tmpl-1", mock.AnythingOfType("time.Time")).Return(nil)
	s.mockRepo.On("Commit", s.ctx, nil).Return(nil)

	report, err := s.service.RunDueTemplates(s.ctx, now)
	s.Require().NoError(err)
	s.Len(report.Generated, 1)
	s.Empty(report.Failed)

	s.Equal("USD", savedDoc.CurrencyCode)
	s.True(savedDoc.ExchangeRate.Equal(d("83.25")), "exchange rate: %s", savedDoc.ExchangeRate)
}

func (s *RecurringServiceTestSuite) TestRunDueTemplates_UnresolvedRateFailsTemplateOnly() {
	now := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	usd := s.template("tmpl-usd", now, domain.RecurMonthly, 1)
	usd.CurrencyCode = "USD"
	inr := s.template("tmpl-inr", now, domain.RecurMonthly, 1)

	s.mockRepo.On("ListDueTemplateIDs", s.ctx, now).Return([]string{"tmpl-usd", "tmpl-inr"}, nil)
	s.mockRepo.On("Begin", s.ctx).Return(nil, nil)
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-usd", now).Return(usd, nil)
	s.mockCurrencySvc.On("GetRate", s.ctx, "USD", "INR").Return(nil, apperrors.ErrRateUnresolved)
	s.mockRepo.On("Rollback", s.ctx, nil).Return(nil)
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-inr", now).Return(inr, nil)
	s.mockRepo.On("SaveGeneratedDocument", s.ctx, nil, mock.AnythingOfType("domain.Document")).Return(nil)
	s.mockRepo.On("AdvanceNextGenerationDate", s.ctx, nil, "tmpl-inr", mock.AnythingOfType("time.Time")).Return(nil)
	s.mockRepo.On("Commit", s.ctx, nil).Return(nil)

	report, err := s.service.RunDueTemplates(s.ctx, now)
	s.Require().NoError(err)
	s.Len(report.Generated, 1)
	s.Require().Len(report.Failed, 1)
	s.Equal("tmpl-usd", report.Failed[0].TemplateID)
	s.Contains(report.Failed[0].Reason, "exchange rate")
	// Nothing was persisted for the unresolved template.
	s.mockRepo.AssertNumberOfCalls(s.T(), "SaveGeneratedDocument", 1)
}

func (s *RecurringServiceTestSuite) TestRunDueTemplates_MonthEndClampsToLeapDay() {
	now := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	tmpl := s.template("tmpl-1", now, domain.RecurMonthly, 1)

	s.mockRepo.On("ListDueTemplateIDs", s.ctx, now).Return([]string{"tmpl-1"}, nil)
	s.mockRepo.On("Begin", s.ctx).Return(nil, nil)
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-1", now).Return(tmpl, nil)
	s.mockRepo.On("SaveGeneratedDocument", s.ctx, nil, mock.AnythingOfType("domain.Document")).Return(nil)
	// Jan 31 + 1 month in a leap year clamps to Feb 29.
	s.mockRepo.On("AdvanceNextGenerationDate", s.ctx, nil, "tmpl-1",
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)).Return(nil)
	s.mockRepo.On("Commit", s.ctx, nil).Return(nil)

	report, err := s.service.RunDueTemplates(s.ctx, now)
	s.Require().NoError(err)
	s.Len(report.Generated, 1)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestRunDueTemplates_MonthEndClampsInNonLeapYear() {
	now := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	tmpl := s.template("tmpl-1", now, domain.RecurMonthly, 1)

	s.mockRepo.On("ListDueTemplateIDs", s.ctx, now).Return([]string{"tmpl-1"}, nil)
	s.mockRepo.On("Begin", s.ctx).Return(nil, nil)
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-1", now).Return(tmpl, nil)
	s.mockRepo.On("SaveGeneratedDocument", s.ctx, nil, mock.AnythingOfType("domain.Document")).Return(nil)
	s.mockRepo.On("AdvanceNextGenerationDate", s.ctx, nil, "tmpl-1",
		time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)).Return(nil)
	s.mockRepo.On("Commit", s.ctx, nil).Return(nil)

	report, err := s.service.RunDueTemplates(s.ctx, now)
	s.Require().NoError(err)
	s.Len(report.Generated, 1)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestRunDueTemplates_WeeklyAdvance() {
	now := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tmpl := s.template("tmpl-1", now, domain.RecurWeekly, 2)

	s.mockRepo.On("ListDueTemplateIDs", s.ctx, now).Return([]string{"tmpl-1"}, nil)
	s.mockRepo.On("Begin", s.ctx).Return(nil, nil)
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-1", now).Return(tmpl, nil)
	s.mockRepo.On("SaveGeneratedDocument", s.ctx, nil, mock.AnythingOfType("domain.Document")).Return(nil)
	s.mockRepo.On("AdvanceNextGenerationDate", s.ctx, nil, "tmpl-1", now.AddDate(0, 0, 14)).Return(nil)
	s.mockRepo.On("Commit", s.ctx, nil).Return(nil)

	report, err := s.service.RunDueTemplates(s.ctx, now)
	s.Require().NoError(err)
	s.Len(report.Generated, 1)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) TestRunDueTemplates_CollectsFailuresAndContinues() {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	good := s.template("tmpl-good", now, domain.RecurMonthly, 1)

	s.mockRepo.On("ListDueTemplateIDs", s.ctx, now).Return([]string{"tmpl-bad", "tmpl-good"}, nil)
	s.mockRepo.On("Begin", s.ctx).Return(nil, nil)
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-bad", now).
		Return(nil, errors.New("connection reset"))
	s.mockRepo.On("Rollback", s.ctx, nil).Return(nil)
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-good", now).Return(good, nil)
	s.mockRepo.On("SaveGeneratedDocument", s.ctx, nil, mock.AnythingOfType("domain.Document")).Return(nil)
	s.mockRepo.On("AdvanceNextGenerationDate", s.ctx, nil, "tmpl-good", mock.AnythingOfType("time.Time")).Return(nil)
	s.mockRepo.On("Commit", s.ctx, nil).Return(nil)

	report, err := s.service.RunDueTemplates(s.ctx, now)
	s.Require().NoError(err)
	s.Len(report.Generated, 1)
	s.Require().Len(report.Failed, 1)
	s.Equal("tmpl-bad", report.Failed[0].TemplateID)
	s.Contains(report.Failed[0].Reason, "connection reset")
}

func (s *RecurringServiceTestSuite) TestRunDueTemplates_LockMissIsNotAFailure() {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	s.mockRepo.On("ListDueTemplateIDs", s.ctx, now).Return([]string{"tmpl-1"}, nil)
	s.mockRepo.On("Begin", s.ctx).Return(nil, nil)
	// Another scheduler instance claimed the row.
	s.mockRepo.On("LockTemplateForRun", s.ctx, nil, "tmpl-1", now).
		Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("Rollback", s.ctx, nil).Return(nil)

	report, err := s.service.RunDueTemplates(s.ctx, now)
	s.Require().NoError(err)
	s.Empty(report.Generated)
	s.Empty(report.Failed)
}

func (s *RecurringServiceTestSuite) TestRunDueTemplates_ListFailureAbortsRun() {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s.mockRepo.On("ListDueTemplateIDs", s.ctx, now).Return(nil, errors.New("db down"))

	_, err := s.service.RunDueTemplates(s.ctx, now)
	s.Error(err)
}

func (s *RecurringServiceTestSuite) TestCreateTemplate_EndDateMustFollowStart() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := s.service.CreateTemplate(s.ctx, dto.CreateTemplateRequest{
		Name:               "Broken",
		PartyID:            "party-1",
		PlaceOfSupplyState: "27",
		RecurrenceType:     domain.RecurMonthly,
		RecurrenceInterval: 1,
		StartDate:          start,
		EndDate:            &end,
		Items: []dto.CreateLineItemRequest{
			{Description: "Retainer", Quantity: d("1"), UnitPrice: d("100")},
		},
	}, "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RecurringServiceTestSuite) TestCreateTemplate_DefaultsToBaseCurrencyAndStartDate() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var saved domain.RecurringTemplate
	s.mockRepo.On("SaveTemplate", s.ctx, mock.AnythingOfType("domain.RecurringTemplate")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.RecurringTemplate)
		}).Return(nil)

	tmpl, err := s.service.CreateTemplate(s.ctx, dto.CreateTemplateRequest{
		Name:               "Retainer",
		PartyID:            "party-1",
		PlaceOfSupplyState: "27",
		RecurrenceType:     domain.RecurMonthly,
		RecurrenceInterval: 1,
		StartDate:          start,
		Items: []dto.CreateLineItemRequest{
			{Description: "Retainer", Quantity: d("1"), UnitPrice: d("100")},
		},
	}, "user-1")
	s.Require().NoError(err)

	s.Equal("INR", tmpl.CurrencyCode)
	s.Equal(start, tmpl.NextGenerationDate)
	s.True(tmpl.IsActive)
	s.Equal(saved.TemplateID, tmpl.TemplateID)
	s.Len(saved.Items, 1)
}

func TestRecurringServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
