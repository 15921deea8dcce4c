package dto

import (
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineItemRequest is one line of a document creation request.
type CreateLineItemRequest struct {
	ProductID    string              `json:"productID"`
	Description  string              `json:"description" binding:"required"`
	Quantity     decimal.Decimal     `json:"quantity" binding:"required"`
	UnitPrice    decimal.Decimal     `json:"unitPrice" binding:"required"`
	DiscountType domain.DiscountType `json:"discountType" binding:"omitempty,oneof=PERCENT AMOUNT"`
	Discount     decimal.Decimal     `json:"discount"`
	TaxRate      decimal.Decimal     `json:"taxRate"`
	CessRate     decimal.Decimal     `json:"cessRate"`
	IsService    bool                `json:"isService"`
}

// CreateChargeRequest is a document-level additional charge.
type CreateChargeRequest struct {
	Name    string          `json:"name" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Taxable bool            `json:"taxable"`
	TaxRate decimal.Decimal `json:"taxRate"`
}

// CreateDocumentRequest creates an invoice or purchase bill on submission.
type CreateDocumentRequest struct {
	DocumentType       domain.DocumentType     `json:"documentType" binding:"required,oneof=INVOICE PURCHASE"`
	PartyID            string                  `json:"partyID" binding:"required"`
	Date               time.Time               `json:"date" binding:"required"`
	DueDate            time.Time               `json:"dueDate"`
	PlaceOfSupplyState string                  `json:"placeOfSupplyState" binding:"required"`
	CurrencyCode       string                  `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Lines              []CreateLineItemRequest `json:"lines" binding:"required,min=1,dive"`
	Charges            []CreateChargeRequest   `json:"charges" binding:"omitempty,dive"`
	MarkSent           bool                    `json:"markSent"`
}

// RecordPaymentRequest records a payment against a document.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal      `json:"amount" binding:"required"`
	Date      time.Time            `json:"date" binding:"required"`
	Method    domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK_TRANSFER UPI CARD CHEQUE"`
	Reference string               `json:"reference"`
}

// PaymentResponse is the API representation of a recorded payment.
type PaymentResponse struct {
	PaymentID  string               `json:"paymentID"`
	DocumentID string               `json:"documentID"`
	Amount     decimal.Decimal      `json:"amount"`
	Date       time.Time            `json:"date"`
	Method     domain.PaymentMethod `json:"method"`
	Reference  string               `json:"reference"`
}

// NewPaymentResponse maps a domain payment to its API representation.
func NewPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:  p.PaymentID,
		DocumentID: p.DocumentID,
		Amount:     p.Amount,
		Date:       p.Date,
		Method:     p.Method,
		Reference:  p.Reference,
	}
}

// DocumentResponse is the API representation of a document.
type DocumentResponse struct {
	DocumentID         string                `json:"documentID"`
	DocumentType       domain.DocumentType   `json:"documentType"`
	DocumentNumber     string                `json:"documentNumber"`
	PartyID            string                `json:"partyID"`
	Date               time.Time             `json:"date"`
	DueDate            time.Time             `json:"dueDate"`
	PlaceOfSupplyState string                `json:"placeOfSupplyState"`
	CurrencyCode       string                `json:"currencyCode"`
	ExchangeRate       decimal.Decimal       `json:"exchangeRate"`
	TaxableValue       decimal.Decimal       `json:"taxableValue"`
	CGST               decimal.Decimal       `json:"cgst"`
	SGST               decimal.Decimal       `json:"sgst"`
	IGST               decimal.Decimal       `json:"igst"`
	Cess               decimal.Decimal       `json:"cess"`
	RoundOff           decimal.Decimal       `json:"roundOff"`
	GrandTotal         decimal.Decimal       `json:"grandTotal"`
	PaidAmount         decimal.Decimal       `json:"paidAmount"`
	BalanceAmount      decimal.Decimal       `json:"balanceAmount"`
	Status             domain.DocumentStatus `json:"status"`
}

// NewDocumentResponse maps a domain document to its API representation.
func NewDocumentResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:         doc.DocumentID,
		DocumentType:       doc.DocumentType,
		DocumentNumber:     doc.DocumentNumber,
		PartyID:            doc.PartyID,
		Date:               doc.Date,
		DueDate:            doc.DueDate,
		PlaceOfSupplyState: doc.PlaceOfSupplyState,
		CurrencyCode:       doc.CurrencyCode,
		ExchangeRate:       doc.ExchangeRate,
		TaxableValue:       doc.TaxableValue,
		CGST:               doc.CGST,
		SGST:               doc.SGST,
		IGST:               doc.IGST,
		Cess:               doc.Cess,
		RoundOff:           doc.RoundOff,
		GrandTotal:         doc.GrandTotal,
		PaidAmount:         doc.PaidAmount,
		BalanceAmount:      doc.BalanceAmount,
		Status:             doc.Status,
	}
}
