package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gstbooks/gst_billing_app/internal/apperrors"
	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	portssvc "github.com/gstbooks/gst_billing_app/internal/core/ports/services"
	"github.com/gstbooks/gst_billing_app/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PartyService ---
type MockPartyService struct {
	mock.Mock
}

func (m *MockPartyService) CreateParty(ctx context.Context, req dto.CreatePartyRequest, creatorUserID string) (*domain.Party, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyService) GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyService) UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error) {
	args := m.Called(ctx, partyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PartySvcFacade = (*MockPartyService)(nil)

// --- Test Suite ---
type PartyHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockPartyService *MockPartyService
}

func (suite *PartyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockPartyService = new(MockPartyService)

	v1 := suite.router.Group("/api/v1")
	registerPartyRoutes(v1, suite.mockPartyService)
}

func (suite *PartyHandlerTestSuite) TestCreateParty_Success() {
	reqBody := dto.CreatePartyRequest{
		Name:       "Acme Traders",
		StateCode:  "27",
		IsCustomer: true,
	}
	expected := &domain.Party{
		PartyID:    "party-1",
		Name:       reqBody.Name,
		StateCode:  reqBody.StateCode,
		IsCustomer: true,
	}
	suite.mockPartyService.On("CreateParty", mock.Anything, reqBody, "user-42").Return(expected, nil)

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parties", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-42")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PartyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("party-1", resp.PartyID)
	suite.Equal("Acme Traders", resp.Name)
	suite.mockPartyService.AssertExpectations(suite.T())
}

func (suite *PartyHandlerTestSuite) TestCreateParty_MissingName() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parties", bytes.NewReader([]byte(`{"stateCode":"27","isCustomer":true}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPartyService.AssertNotCalled(suite.T(), "CreateParty")
}

func (suite *PartyHandlerTestSuite) TestGetPartyByID_NotFound() {
	suite.mockPartyService.On("GetPartyByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parties/missing", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PartyHandlerTestSuite) TestUpdateParty_ValidationRejected() {
	suite.mockPartyService.On("UpdateParty", mock.Anything, "party-1", mock.AnythingOfType("dto.UpdatePartyRequest"), "api").
		Return(nil, apperrors.ErrValidation)

	body := []byte(`{"name":"Acme","stateCode":"29","isCustomer":true}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/parties/party-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestPartyHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PartyHandlerTestSuite))
}
