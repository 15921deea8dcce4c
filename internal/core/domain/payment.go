package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentCard         PaymentMethod = "CARD"
	PaymentCheque       PaymentMethod = "CHEQUE"
)

// Payment is an immutable record of money received or paid against one document.
// The sum of payments for a document never exceeds its grand total at the time
// each payment is recorded.
type Payment struct {
	PaymentID  string          `json:"paymentID"`  // Primary Key (e.g., UUID)
	DocumentID string          `json:"documentID"` // FK -> Document.documentID (Not Null)
	Amount     decimal.Decimal `json:"amount"`     // Positive
	Date       time.Time       `json:"date"`
	Method     PaymentMethod   `json:"method"`
	Reference  string          `json:"reference"` // Nullable; UTR, cheque number, etc.
	AuditFields
}
