package services

import (
	"context"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/gstbooks/gst_billing_app/internal/dto"
)

// PartySvcFacade manages the customers and vendors documents reference.
type PartySvcFacade interface {
	// CreateParty registers a new party.
	CreateParty(ctx context.Context, req dto.CreatePartyRequest, creatorUserID string) (*domain.Party, error)

	// GetPartyByID retrieves a party by its ID.
	GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// UpdateParty rewrites a party. Once a posted document references the
	// party only its address fields may change; any other difference is
	// rejected as a validation error.
	UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error)
}
