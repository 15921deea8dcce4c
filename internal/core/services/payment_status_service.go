package services

import (
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// paymentStatusService implements the payment status state machine.
type paymentStatusService struct{}

// NewPaymentStatusService creates the status engine. It holds no state and is
// safe for concurrent use.
func NewPaymentStatusService() portssvc.PaymentStatusSvcFacade {
	return &paymentStatusService{}
}

// Ensure paymentStatusService implements the PaymentStatusSvcFacade interface
var _ portssvc.PaymentStatusSvcFacade = (*paymentStatusService)(nil)

// Derive classifies a document. The rules are evaluated strictly in order:
// Cancelled is terminal; a zero or negative balance means Paid regardless of
// due date; an open balance past the due date means Overdue; a partial payment
// means PartiallyPaid; otherwise the prior Sent/Draft status stands.
func (s *paymentStatusService) Derive(current domain.DocumentStatus, grandTotal, balanceAmount decimal.Decimal, dueDate, today time.Time) domain.DocumentStatus {
	if current == domain.StatusCancelled {
		return domain.StatusCancelled
	}
	if balanceAmount.LessThanOrEqual(decimal.Zero) {
		return domain.StatusPaid
	}
	if dueDate.Before(today) {
		return domain.StatusOverdue
	}
	paid := grandTotal.Sub(balanceAmount)
	if paid.GreaterThan(decimal.Zero) && paid.LessThan(grandTotal) {
		return domain.StatusPartiallyPaid
	}
	switch current {
	case domain.StatusSent, domain.StatusDraft:
		return current
	case domain.StatusOverdue, domain.StatusPartiallyPaid:
		// A document that is no longer overdue or partially paid (e.g. the due
		// date was extended or a payment was reversed upstream) reverts to Sent.
		return domain.StatusSent
	}
	return current
}
