package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) ListDocumentsInPeriod(ctx context.Context, docType domain.DocumentType, period domain.FinancialPeriod) ([]domain.Document, error) {
	args := m.Called(ctx, docType, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockReportingRepository) SumExpenses(ctx context.Context, period domain.FinancialPeriod, paidOnly bool) (decimal.Decimal, error) {
	args := m.Called(ctx, period, paidOnly)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) SumPayments(ctx context.Context, docType domain.DocumentType, period domain.FinancialPeriod) (decimal.Decimal, error) {
	args := m.Called(ctx, docType, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) GetCashAndBankBalance(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) SumOpenBalances(ctx context.Context, docType domain.DocumentType, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, docType, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) GetInventoryValue(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingSvcFacade
	ctx      context.Context
	period   domain.FinancialPeriod
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockReportingRepository)
	s.service = services.NewReportingService(s.mockRepo, d("0.25"))
	s.ctx = context.Background()
	s.period = domain.FinancialPeriod{
		StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (s *ReportingServiceTestSuite) TestProfitAndLoss() {
	invoices := []domain.Document{
		{DocumentID: "inv-1", Status: domain.StatusPaid, GrandTotal: d("100000")},
		{DocumentID: "inv-2", Status: domain.StatusSent, GrandTotal: d("50000")},
		{DocumentID: "inv-3", Status: domain.StatusDraft, GrandTotal: d("99999")},
		{DocumentID: "inv-4", Status: domain.StatusCancelled, GrandTotal: d("88888")},
	}
	purchases := []domain.Document{
		{DocumentID: "pur-1", Status: domain.StatusPaid, GrandTotal: d("60000")},
	}

	s.mockRepo.On("ListDocumentsInPeriod", s.ctx, domain.DocumentInvoice, s.period).Return(invoices, nil)
	s.mockRepo.On("ListDocumentsInPeriod", s.ctx, domain.DocumentPurchase, s.period).Return(purchases, nil)
	s.mockRepo.On("SumExpenses", s.ctx, s.period, false).Return(d("30000"), nil)

	report, err := s.service.ProfitAndLoss(s.ctx, s.period)
	s.Require().NoError(err)

	// Draft and cancelled invoices never count toward revenue.
	s.True(report.Revenue.Equal(d("150000")), "revenue: %s", report.Revenue)
	s.True(report.CostOfGoodsSold.Equal(d("60000")))
	s.True(report.GrossProfit.Equal(d("90000")))
	s.True(report.OperatingProfit.Equal(d("60000")))
	s.True(report.Tax.Equal(d("15000")), "tax: %s", report.Tax)
	s.True(report.NetProfit.Equal(d("45000")))
}

func (s *ReportingServiceTestSuite) TestProfitAndLoss_NoTaxOnLoss() {
	s.mockRepo.On("ListDocumentsInPeriod", s.ctx, domain.DocumentInvoice, s.period).Return([]domain.Document{}, nil)
	s.mockRepo.On("ListDocumentsInPeriod", s.ctx, domain.DocumentPurchase, s.period).Return([]domain.Document{}, nil)
	s.mockRepo.On("SumExpenses", s.ctx, s.period, false).Return(d("5000"), nil)

	report, err := s.service.ProfitAndLoss(s.ctx, s.period)
	s.Require().NoError(err)

	s.True(report.OperatingProfit.Equal(d("-5000")))
	s.True(report.Tax.IsZero())
	s.True(report.NetProfit.Equal(d("-5000")))
}

func (s *ReportingServiceTestSuite) TestProfitAndLoss_EmptyPeriodIsAllZero() {
	s.mockRepo.On("ListDocumentsInPeriod", s.ctx, domain.DocumentInvoice, s.period).Return([]domain.Document{}, nil)
	s.mockRepo.On("ListDocumentsInPeriod", s.ctx, domain.DocumentPurchase, s.period).Return([]domain.Document{}, nil)
	s.mockRepo.On("SumExpenses", s.ctx, s.period, false).Return(decimal.Zero, nil)

	report, err := s.service.ProfitAndLoss(s.ctx, s.period)
	s.Require().NoError(err)

	s.True(report.Revenue.IsZero())
	s.True(report.CostOfGoodsSold.IsZero())
	s.True(report.OperatingProfit.IsZero())
	s.True(report.Tax.IsZero())
	s.True(report.NetProfit.IsZero())
}

func (s *ReportingServiceTestSuite) TestProfitAndLoss_UnconfiguredTaxRate() {
	svc := services.NewReportingService(s.mockRepo, d("-1"))

	_, err := svc.ProfitAndLoss(s.ctx, s.period)
	s.ErrorIs(err, apperrors.ErrConfiguration)
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_IdentityHolds() {
	asOf := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	s.mockRepo.On("GetCashAndBankBalance", s.ctx, asOf).Return(d("125000"), nil)
	s.mockRepo.On("SumOpenBalances", s.ctx, domain.DocumentInvoice, asOf).Return(d("40000"), nil)
	s.mockRepo.On("SumOpenBalances", s.ctx, domain.DocumentPurchase, asOf).Return(d("25000"), nil)
	s.mockRepo.On("GetInventoryValue", s.ctx, asOf).Return(d("18000"), nil)

	report, err := s.service.BalanceSheet(s.ctx, asOf)
	s.Require().NoError(err)

	s.True(report.TotalAssets.Equal(d("183000")))
	s.True(report.TotalLiabilities.Equal(d("25000")))
	s.True(report.Equity.Equal(d("158000")))
	s.True(report.TotalAssets.Equal(report.TotalLiabilities.Add(report.Equity)))
}

func (s *ReportingServiceTestSuite) TestCashFlow() {
	opening := s.period.StartDate.AddDate(0, 0, -1)

	s.mockRepo.On("SumPayments", s.ctx, domain.DocumentInvoice, s.period).Return(d("90000"), nil)
	s.mockRepo.On("SumPayments", s.ctx, domain.DocumentPurchase, s.period).Return(d("35000"), nil)
	s.mockRepo.On("SumExpenses", s.ctx, s.period, true).Return(d("20000"), nil)
	s.mockRepo.On("GetCashAndBankBalance", s.ctx, opening).Return(d("10000"), nil)

	report, err := s.service.CashFlow(s.ctx, s.period)
	s.Require().NoError(err)

	s.True(report.Operating.Equal(d("35000")))
	s.True(report.Investing.IsZero())
	s.True(report.Financing.IsZero())
	s.True(report.NetCashFlow.Equal(d("35000")))
	s.True(report.ClosingBalance.Equal(d("45000")))
	s.True(report.ClosingBalance.Equal(report.OpeningBalance.Add(report.NetCashFlow)))
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
