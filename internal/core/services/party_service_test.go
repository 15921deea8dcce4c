package services_test

import (
	"context"
	"testing"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/core/services"
	"github.com/gstbooks/gst_billing_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PartyRepository ---
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) HasPostedDocuments(ctx context.Context, partyID string) (bool, error) {
	args := m.Called(ctx, partyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) UpdatePartyAddress(ctx context.Context, partyID, addressLine, city string) error {
	args := m.Called(ctx, partyID, addressLine, city)
	return args.Error(0)
}

type PartyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPartyRepository
	service  portssvc.PartySvcFacade
	ctx      context.Context
}

func (s *PartyServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockPartyRepository)
	s.service = services.NewPartyService(s.mockRepo)
	s.ctx = context.Background()
}

func (s *PartyServiceTestSuite) TestCreateParty_Success() {
	s.mockRepo.On("SaveParty", s.ctx, mock.AnythingOfType("domain.Party")).Return(nil)

	party, err := s.service.CreateParty(s.ctx, dto.CreatePartyRequest{
		Name:       "Acme Traders",
		StateCode:  "27",
		IsCustomer: true,
	}, "user-1")

	s.Require().NoError(err)
	s.NotEmpty(party.PartyID)
	s.Equal("Acme Traders", party.Name)
	s.Equal("27", party.StateCode)
	s.Equal("user-1", party.CreatedBy)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *PartyServiceTestSuite) TestCreateParty_NeitherCustomerNorVendor() {
	_, err := s.service.CreateParty(s.ctx, dto.CreatePartyRequest{
		Name:      "Nobody",
		StateCode: "27",
	}, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "SaveParty")
}

func (s *PartyServiceTestSuite) TestCreateParty_RegisteredWithoutGSTIN() {
	_, err := s.service.CreateParty(s.ctx, dto.CreatePartyRequest{
		Name:          "Acme Traders",
		StateCode:     "27",
		IsCustomer:    true,
		GSTRegistered: true,
	}, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PartyServiceTestSuite) existingParty() *domain.Party {
	return &domain.Party{
		PartyID:       "party-1",
		Name:          "Acme Traders",
		StateCode:     "27",
		GSTIN:         "27AAAAA0000A1Z5",
		GSTRegistered: true,
		IsCustomer:    true,
		AddressLine:   "1 Old Lane",
		City:          "Pune",
	}
}

func (s *PartyServiceTestSuite) TestUpdateParty_FullUpdateBeforePosting() {
	existing := s.existingParty()
	s.mockRepo.On("FindPartyByID", s.ctx, "party-1").Return(existing, nil)
	s.mockRepo.On("HasPostedDocuments", s.ctx, "party-1").Return(false, nil)
	s.mockRepo.On("UpdateParty", s.ctx, mock.MatchedBy(func(p domain.Party) bool {
		return p.Name == "Acme Traders Pvt Ltd" && p.StateCode == "29"
	})).Return(nil)

	_, err := s.service.UpdateParty(s.ctx, "party-1", dto.UpdatePartyRequest{
		Name:          "Acme Traders Pvt Ltd",
		StateCode:     "29",
		GSTIN:         "27AAAAA0000A1Z5",
		GSTRegistered: true,
		IsCustomer:    true,
		AddressLine:   "2 New Lane",
		City:          "Bengaluru",
	}, "user-1")

	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *PartyServiceTestSuite) TestUpdateParty_IdentityFrozenAfterPosting() {
	existing := s.existingParty()
	s.mockRepo.On("FindPartyByID", s.ctx, "party-1").Return(existing, nil)
	s.mockRepo.On("HasPostedDocuments", s.ctx, "party-1").Return(true, nil)

	_, err := s.service.UpdateParty(s.ctx, "party-1", dto.UpdatePartyRequest{
		Name:          "Acme Traders",
		StateCode:     "29", // changed state on a referenced party
		GSTIN:         "27AAAAA0000A1Z5",
		GSTRegistered: true,
		IsCustomer:    true,
		AddressLine:   "1 Old Lane",
		City:          "Pune",
	}, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "UpdateParty")
	s.mockRepo.AssertNotCalled(s.T(), "UpdatePartyAddress")
}

func (s *PartyServiceTestSuite) TestUpdateParty_AddressStillMutableAfterPosting() {
	existing := s.existingParty()
	s.mockRepo.On("FindPartyByID", s.ctx, "party-1").Return(existing, nil)
	s.mockRepo.On("HasPostedDocuments", s.ctx, "party-1").Return(true, nil)
	s.mockRepo.On("UpdatePartyAddress", s.ctx, "party-1", "2 New Lane", "Bengaluru").Return(nil)

	_, err := s.service.UpdateParty(s.ctx, "party-1", dto.UpdatePartyRequest{
		Name:          "Acme Traders",
		StateCode:     "27",
		GSTIN:         "27AAAAA0000A1Z5",
		GSTRegistered: true,
		IsCustomer:    true,
		AddressLine:   "2 New Lane",
		City:          "Bengaluru",
	}, "user-1")

	s.Require().NoError(err)
	s.mockRepo.AssertNotCalled(s.T(), "UpdateParty")
	s.mockRepo.AssertExpectations(s.T())
}

func (s *PartyServiceTestSuite) TestUpdateParty_NotFound() {
	s.mockRepo.On("FindPartyByID", s.ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.UpdateParty(s.ctx, "missing", dto.UpdatePartyRequest{
		Name:      "Anyone",
		StateCode: "27",
	}, "user-1")

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPartyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PartyServiceTestSuite))
}
