package dto

import (
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
)

// CreatePartyRequest registers a new customer or vendor.
type CreatePartyRequest struct {
	Name          string `json:"name" binding:"required"`
	StateCode     string `json:"stateCode" binding:"required,len=2,numeric"`
	GSTIN         string `json:"gstin" binding:"omitempty,gstin"`
	GSTRegistered bool   `json:"gstRegistered"`
	IsCustomer    bool   `json:"isCustomer"`
	IsVendor      bool   `json:"isVendor"`
	AddressLine   string `json:"addressLine"`
	City          string `json:"city"`
}

// UpdatePartyRequest rewrites a party. Once a posted document references the
// party, only the address fields may differ from the stored record.
type UpdatePartyRequest struct {
	Name          string `json:"name" binding:"required"`
	StateCode     string `json:"stateCode" binding:"required,len=2,numeric"`
	GSTIN         string `json:"gstin" binding:"omitempty,gstin"`
	GSTRegistered bool   `json:"gstRegistered"`
	IsCustomer    bool   `json:"isCustomer"`
	IsVendor      bool   `json:"isVendor"`
	AddressLine   string `json:"addressLine"`
	City          string `json:"city"`
}

// PartyResponse is the API representation of a party.
type PartyResponse struct {
	PartyID       string `json:"partyID"`
	Name          string `json:"name"`
	StateCode     string `json:"stateCode"`
	GSTIN         string `json:"gstin"`
	GSTRegistered bool   `json:"gstRegistered"`
	IsCustomer    bool   `json:"isCustomer"`
	IsVendor      bool   `json:"isVendor"`
	AddressLine   string `json:"addressLine"`
	City          string `json:"city"`
}

// NewPartyResponse maps a domain party to its API representation.
func NewPartyResponse(party *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:       party.PartyID,
		Name:          party.Name,
		StateCode:     party.StateCode,
		GSTIN:         party.GSTIN,
		GSTRegistered: party.GSTRegistered,
		IsCustomer:    party.IsCustomer,
		IsVendor:      party.IsVendor,
		AddressLine:   party.AddressLine,
		City:          party.City,
	}
}
