package services

import (
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentStatusSvcFacade derives a document's payment status. Pure and
// idempotent: re-evaluating with unchanged inputs yields the same status.
type PaymentStatusSvcFacade interface {
	// Derive classifies a document from its current status, balances and due
	// date, evaluated as of today.
	Derive(current domain.DocumentStatus, grandTotal, balanceAmount decimal.Decimal, dueDate, today time.Time) domain.DocumentStatus
}
