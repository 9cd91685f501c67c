package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/handlers"
	"github.com/shiftbridge/staffing_app/internal/middleware"
	"github.com/shiftbridge/staffing_app/pkg/config"
)

// --- Mock ClaimService ---
type MockClaimService struct {
	mock.Mock
}

func (m *MockClaimService) ClaimShift(ctx context.Context, candidateID, recurrenceDayID string) (*domain.Workday, error) {
	args := m.Called(ctx, candidateID, recurrenceDayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workday), args.Error(1)
}
func (m *MockClaimService) CancelShift(ctx context.Context, workdayID string, actorID string) error {
	args := m.Called(ctx, workdayID, actorID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.ClaimSvcFacade = (*MockClaimService)(nil)

// --- Test Suite ---
type WorkdayHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockClaimService *MockClaimService
	jwtSecret        string
}

// generateTestToken creates a signed identity token for the given role.
func (suite *WorkdayHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	claims := middleware.IdentityClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "staffing-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *WorkdayHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockClaimService = new(MockClaimService)

	// Only the claim routes are exercised; the other facades stay nil.
	services := &portssvc.ServiceContainer{Claim: suite.mockClaimService}
	cfg := &config.Config{JWTSecret: suite.jwtSecret, SchedulerSecret: "scheduler-secret"}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *WorkdayHandlerTestSuite) postClaim(token string, body dto.ClaimShiftRequest) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/workdays/claim", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *WorkdayHandlerTestSuite) TestClaimShift_Success() {
	candidateID := uuid.NewString()
	recurrenceDayID := uuid.NewString()

	expected := &domain.Workday{
		WorkdayID:       uuid.NewString(),
		RequisitionID:   uuid.NewString(),
		RecurrenceDayID: recurrenceDayID,
		CandidateID:     candidateID,
		TimesheetID:     uuid.NewString(),
	}

	suite.mockClaimService.On("ClaimShift",
		mock.Anything,
		candidateID, // user ID resolved from the token
		recurrenceDayID,
	).Return(expected, nil).Once()

	token := suite.generateTestToken(candidateID, domain.RoleCandidate)
	w := suite.postClaim(token, dto.ClaimShiftRequest{RecurrenceDayID: recurrenceDayID})

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody dto.WorkdayResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(expected.WorkdayID, responseBody.WorkdayID)
	suite.Equal(candidateID, responseBody.CandidateID)
	suite.Equal(expected.TimesheetID, responseBody.TimesheetID)

	suite.mockClaimService.AssertExpectations(suite.T())
}

func (suite *WorkdayHandlerTestSuite) TestClaimShift_AlreadyClaimedMapsToConflict() {
	candidateID := uuid.NewString()
	recurrenceDayID := uuid.NewString()

	suite.mockClaimService.On("ClaimShift", mock.Anything, candidateID, recurrenceDayID).
		Return(nil, apperrors.ErrAlreadyClaimed).Once()

	token := suite.generateTestToken(candidateID, domain.RoleCandidate)
	w := suite.postClaim(token, dto.ClaimShiftRequest{RecurrenceDayID: recurrenceDayID})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockClaimService.AssertExpectations(suite.T())
}

func (suite *WorkdayHandlerTestSuite) TestClaimShift_NonCandidateForbidden() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleClient)
	w := suite.postClaim(token, dto.ClaimShiftRequest{RecurrenceDayID: uuid.NewString()})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockClaimService.AssertNotCalled(suite.T(), "ClaimShift")
}

func (suite *WorkdayHandlerTestSuite) TestClaimShift_MissingTokenUnauthorized() {
	w := suite.postClaim("", dto.ClaimShiftRequest{RecurrenceDayID: uuid.NewString()})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockClaimService.AssertNotCalled(suite.T(), "ClaimShift")
}

func (suite *WorkdayHandlerTestSuite) TestClaimShift_BindValidationDetails() {
	token := suite.generateTestToken(uuid.NewString(), domain.RoleCandidate)
	w := suite.postClaim(token, dto.ClaimShiftRequest{RecurrenceDayID: "not-a-uuid"})

	suite.Equal(http.StatusBadRequest, w.Code)

	var responseBody map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Contains(responseBody["details"], "RecurrenceDayID")
	suite.mockClaimService.AssertNotCalled(suite.T(), "ClaimShift")
}

// --- Run Test Suite ---
func TestWorkdayHandler(t *testing.T) {
	suite.Run(t, new(WorkdayHandlerTestSuite))
}
