package dto

import (
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
)

// CreateTemplateRequest creates a recurring invoice template.
type CreateTemplateRequest struct {
	Name               string                  `json:"name" binding:"required"`
	PartyID            string                  `json:"partyID" binding:"required"`
	PlaceOfSupplyState string                  `json:"placeOfSupplyState" binding:"required"`
	CurrencyCode       string                  `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Terms              string                  `json:"terms"`
	RecurrenceType     domain.RecurrenceType   `json:"recurrenceType" binding:"required,oneof=WEEKLY MONTHLY YEARLY"`
	RecurrenceInterval int                     `json:"recurrenceInterval" binding:"required,min=1"`
	StartDate          time.Time               `json:"startDate" binding:"required"`
	EndDate            *time.Time              `json:"endDate"`
	Items              []CreateLineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TemplateResponse is the API representation of a recurring template.
type TemplateResponse struct {
	TemplateID         string                `json:"templateID"`
	Name               string                `json:"name"`
	PartyID            string                `json:"partyID"`
	PlaceOfSupplyState string                `json:"placeOfSupplyState"`
	CurrencyCode       string                `json:"currencyCode"`
	Terms              string                `json:"terms"`
	RecurrenceType     domain.RecurrenceType `json:"recurrenceType"`
	RecurrenceInterval int                   `json:"recurrenceInterval"`
	StartDate          time.Time             `json:"startDate"`
	EndDate            *time.Time            `json:"endDate"`
	NextGenerationDate time.Time             `json:"nextGenerationDate"`
	IsActive           bool                  `json:"isActive"`
	ItemCount          int                   `json:"itemCount"`
}

// NewTemplateResponse maps a domain template to its API representation.
func NewTemplateResponse(tmpl *domain.RecurringTemplate) TemplateResponse {
	return TemplateResponse{
		TemplateID:         tmpl.TemplateID,
		Name:               tmpl.Name,
		PartyID:            tmpl.PartyID,
		PlaceOfSupplyState: tmpl.PlaceOfSupplyState,
		CurrencyCode:       tmpl.CurrencyCode,
		Terms:              tmpl.Terms,
		RecurrenceType:     tmpl.RecurrenceType,
		RecurrenceInterval: tmpl.RecurrenceInterval,
		StartDate:          tmpl.StartDate,
		EndDate:            tmpl.EndDate,
		NextGenerationDate: tmpl.NextGenerationDate,
		IsActive:           tmpl.IsActive,
		ItemCount:          len(tmpl.Items),
	}
}
