package domain

// Party represents a customer or vendor on a document.
// Once a posted document references a party, only its address fields may change.
type Party struct {
	PartyID       string `json:"partyID"`       // Primary Key (e.g., UUID)
	Name          string `json:"name"`          // Legal or trade name
	StateCode     string `json:"stateCode"`     // GST state code, drives the tax-split decision
	GSTIN         string `json:"gstin"`         // Nullable; empty for unregistered parties
	GSTRegistered bool   `json:"gstRegistered"` // Whether the party holds a GST registration
	IsCustomer    bool   `json:"isCustomer"`
	IsVendor      bool   `json:"isVendor"`
	AddressLine   string `json:"addressLine"` // Mutable after posting
	City          string `json:"city"`        // Mutable after posting
	AuditFields
}
