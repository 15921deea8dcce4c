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
)

// partyService implements party management.
type partyService struct {
	BaseService
	partyRepo portsrepo.PartyRepositoryFacade
	now       func() time.Time
}

// PartyServiceOption is a functional option for configuring the party service
type PartyServiceOption func(*partyService)

// WithPartyClock overrides the time source, for tests.
func WithPartyClock(now func() time.Time) PartyServiceOption {
	return func(s *partyService) {
		s.now = now
	}
}

// NewPartyService creates a new party service.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade, options ...PartyServiceOption) portssvc.PartySvcFacade {
	svc := &partyService{
		partyRepo: partyRepo,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure partyService implements the PartySvcFacade interface
var _ portssvc.PartySvcFacade = (*partyService)(nil)

// CreateParty registers a new party.
func (s *partyService) CreateParty(ctx context.Context, req dto.CreatePartyRequest, creatorUserID string) (*domain.Party, error) {
	if !req.IsCustomer && !req.IsVendor {
		return nil, fmt.Errorf("%w: party must be a customer, a vendor or both", apperrors.ErrValidation)
	}
	if req.GSTRegistered && req.GSTIN == "" {
		return nil, fmt.Errorf("%w: GST registered party requires a GSTIN", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	party := domain.Party{
		PartyID:       uuid.NewString(),
		Name:          req.Name,
		StateCode:     req.StateCode,
		GSTIN:         req.GSTIN,
		GSTRegistered: req.GSTRegistered,
		IsCustomer:    req.IsCustomer,
		IsVendor:      req.IsVendor,
		AddressLine:   req.AddressLine,
		City:          req.City,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		s.LogError(ctx, err, "failed to save party", "partyName", req.Name)
		return nil, fmt.Errorf("failed to save party: %w", err)
	}
	s.LogInfo(ctx, "party created", "partyID", party.PartyID)
	return &party, nil
}

// GetPartyByID retrieves a party by its ID.
func (s *partyService) GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}
	return party, nil
}

// UpdateParty rewrites a party. Identity fields freeze once a posted document
// references the party; only the address fields stay mutable after that.
func (s *partyService) UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error) {
	existing, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}

	posted, err := s.partyRepo.HasPostedDocuments(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check posted documents for party %s: %w", partyID, err)
	}

	if posted {
		if req.Name != existing.Name || req.StateCode != existing.StateCode ||
			req.GSTIN != existing.GSTIN || req.GSTRegistered != existing.GSTRegistered ||
			req.IsCustomer != existing.IsCustomer || req.IsVendor != existing.IsVendor {
			return nil, fmt.Errorf("%w: party %s is referenced by posted documents, only address fields may change", apperrors.ErrValidation, partyID)
		}
		if err := s.partyRepo.UpdatePartyAddress(ctx, partyID, req.AddressLine, req.City); err != nil {
			s.LogError(ctx, err, "failed to update party address", "partyID", partyID)
			return nil, fmt.Errorf("failed to update party address: %w", err)
		}
	} else {
		updated := *existing
		updated.Name = req.Name
		updated.StateCode = req.StateCode
		updated.GSTIN = req.GSTIN
		updated.GSTRegistered = req.GSTRegistered
		updated.IsCustomer = req.IsCustomer
		updated.IsVendor = req.IsVendor
		updated.AddressLine = req.AddressLine
		updated.City = req.City
		updated.LastUpdatedAt = s.now().UTC()
		updated.LastUpdatedBy = userID
		if err := s.partyRepo.UpdateParty(ctx, updated); err != nil {
			s.LogError(ctx, err, "failed to update party", "partyID", partyID)
			return nil, fmt.Errorf("failed to update party: %w", err)
		}
	}

	return s.partyRepo.FindPartyByID(ctx, partyID)
}
