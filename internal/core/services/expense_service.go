package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portsrepo "github.com/gstbooks/gst_billing_app/internal/core/ports/repositories"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// expenseService implements expense recording.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	now         func() time.Time
}

// ExpenseServiceOption is a functional option for configuring the expense service
type ExpenseServiceOption func(*expenseService)

// WithExpenseClock overrides the time source, for tests.
func WithExpenseClock(now func() time.Time) ExpenseServiceOption {
	return func(s *expenseService) {
		s.now = now
	}
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, options ...ExpenseServiceOption) portssvc.ExpenseSvcFacade {
	svc := &expenseService{
		expenseRepo: expenseRepo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure expenseService implements the ExpenseSvcFacade interface
var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense records a new expense.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		Category:    req.Category,
		Description: req.Description,
		TotalAmount: req.TotalAmount,
		Date:        req.Date,
		Paid:        req.Paid,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "failed to save expense", "category", req.Category)
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	s.LogInfo(ctx, "expense recorded", "expenseID", expense.ExpenseID)
	return &expense, nil
}

// GetExpenseByID retrieves an expense by its ID.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return expense, nil
}

// ListExpenses retrieves expenses, newest first.
func (s *expenseService) ListExpenses(ctx context.Context, limit, offset int) ([]domain.Expense, error) {
	expenses, err := s.expenseRepo.ListExpenses(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// MarkExpensePaid flags an expense as paid.
func (s *expenseService) MarkExpensePaid(ctx context.Context, expenseID string, userID string) error {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	if expense.Paid {
		// already settled, nothing to do
		return nil
	}
	if err := s.expenseRepo.MarkExpensePaid(ctx, expenseID); err != nil {
		s.LogError(ctx, err, "failed to mark expense paid", "expenseID", expenseID)
		return fmt.Errorf("failed to mark expense paid: %w", err)
	}
	s.LogInfo(ctx, "expense marked paid", "expenseID", expenseID, "userID", userID)
	return nil
}
