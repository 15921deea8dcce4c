package repositories

import (
	"context"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
)

// PartyReader defines read operations for party data
type PartyReader interface {
	// FindPartyByID retrieves a party by its ID.
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// HasPostedDocuments reports whether any non-draft document references the party.
	HasPostedDocuments(ctx context.Context, partyID string) (bool, error)
}

// PartyWriter defines write operations for party data
type PartyWriter interface {
	// SaveParty persists a new party.
	SaveParty(ctx context.Context, party domain.Party) error

	// UpdateParty rewrites all mutable fields of a party. Callers must not use
	// this once a posted document references the party.
	UpdateParty(ctx context.Context, party domain.Party) error

	// UpdatePartyAddress updates only the mutable address fields of a party.
	UpdatePartyAddress(ctx context.Context, partyID, addressLine, city string) error
}

// PartyRepositoryFacade combines all party-related repository interfaces
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}
