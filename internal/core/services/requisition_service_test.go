package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portsrepo "github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/core/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
)

type RequisitionServiceTestSuite struct {
	suite.Suite
	mockRequisitionRepo *MockRequisitionRepository
	mockClientRepo      *MockClientRepository
	service             portssvc.RequisitionSvcFacade

	actorID  string
	clientID string
}

func (suite *RequisitionServiceTestSuite) SetupTest() {
	suite.mockRequisitionRepo = new(MockRequisitionRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.service = services.NewRequisitionService(suite.mockRequisitionRepo, suite.mockClientRepo)
	suite.actorID = uuid.NewString()
	suite.clientID = uuid.NewString()
}

func (suite *RequisitionServiceTestSuite) createRequest() dto.CreateRequisitionRequest {
	return dto.CreateRequisitionRequest{
		ClientID:          suite.clientID,
		Title:             "Hygienist coverage",
		Location:          "Downtown clinic",
		Discipline:        "RDH",
		ExperienceLevel:   "2+ years",
		HourlyRate:        decimal.NewFromInt(30),
		ReferenceTimezone: "America/New_York",
	}
}

func (suite *RequisitionServiceTestSuite) TestCreateRequisition_Success() {
	ctx := context.Background()

	suite.mockClientRepo.On("FindClientByID", ctx, suite.clientID).
		Return(&domain.Client{ClientID: suite.clientID}, nil).Once()
	suite.mockRequisitionRepo.On("SaveRequisition", ctx, mock.AnythingOfType("domain.Requisition")).Return(nil).Once()

	requisition, err := suite.service.CreateRequisition(ctx, suite.createRequest(), suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(requisition)
	suite.NotEmpty(requisition.RequisitionID)
	suite.Equal(domain.RequisitionPending, requisition.Status)
	suite.Equal(suite.actorID, requisition.CreatedBy)
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func (suite *RequisitionServiceTestSuite) TestCreateRequisition_BadTimezone() {
	ctx := context.Background()
	req := suite.createRequest()
	req.ReferenceTimezone = "Mars/Olympus_Mons"

	_, err := suite.service.CreateRequisition(ctx, req, suite.actorID)

	suite.Require().ErrorIs(err, services.ErrUnknownTimezone)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "SaveRequisition", mock.Anything, mock.Anything)
}

func (suite *RequisitionServiceTestSuite) TestCreateRequisition_NonPositiveRate() {
	ctx := context.Background()
	req := suite.createRequest()
	req.HourlyRate = decimal.Zero

	_, err := suite.service.CreateRequisition(ctx, req, suite.actorID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RequisitionServiceTestSuite) TestOpenRequisition_OnlyFromPending() {
	ctx := context.Background()
	requisitionID := uuid.NewString()

	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, requisitionID).
		Return(&domain.Requisition{RequisitionID: requisitionID, Status: domain.RequisitionOpen}, nil).Once()

	err := suite.service.OpenRequisition(ctx, requisitionID, suite.actorID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func agingRow(latest string, filled int) portsrepo.RequisitionAging {
	return portsrepo.RequisitionAging{
		Requisition: domain.Requisition{
			RequisitionID: uuid.NewString(),
			Status:        domain.RequisitionOpen,
		},
		TotalDays:  3,
		FilledDays: filled,
		LatestDate: latest,
	}
}

func (suite *RequisitionServiceTestSuite) TestCloseOutdatedRequisitions() {
	ctx := context.Background()
	now := time.Date(2024, 6, 20, 3, 0, 0, 0, time.UTC)

	neverFilled := agingRow("2024-06-01", 0)  // stale, nothing filled -> CANCELED
	partlyFilled := agingRow("2024-06-05", 2) // stale, some filled -> UNFULFILLED
	fresh := agingRow("2024-06-18", 0)        // latest shift within cutoff, untouched
	noShifts := agingRow("", 0)               // nothing scheduled, untouched

	suite.mockRequisitionRepo.On("ListAgingCandidates", ctx).
		Return([]portsrepo.RequisitionAging{neverFilled, partlyFilled, fresh, noShifts}, nil).Once()
	suite.mockRequisitionRepo.On("UpdateRequisitionStatus", ctx, neverFilled.Requisition.RequisitionID,
		domain.RequisitionCanceled, "system:aging-job", now).Return(nil).Once()
	suite.mockRequisitionRepo.On("UpdateRequisitionStatus", ctx, partlyFilled.Requisition.RequisitionID,
		domain.RequisitionUnfulfilled, "system:aging-job", now).Return(nil).Once()

	summary, err := suite.service.CloseOutdatedRequisitions(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(4, summary.Scanned)
	suite.Equal(1, summary.Canceled)
	suite.Equal(1, summary.Unfulfilled)
	suite.Equal(0, summary.Failed)
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
}

func (suite *RequisitionServiceTestSuite) TestCloseOutdatedRequisitions_RowFailureIsCounted() {
	ctx := context.Background()
	now := time.Date(2024, 6, 20, 3, 0, 0, 0, time.UTC)

	broken := agingRow("2024-06-01", 0)
	fine := agingRow("2024-06-02", 1)

	suite.mockRequisitionRepo.On("ListAgingCandidates", ctx).
		Return([]portsrepo.RequisitionAging{broken, fine}, nil).Once()
	suite.mockRequisitionRepo.On("UpdateRequisitionStatus", ctx, broken.Requisition.RequisitionID,
		domain.RequisitionCanceled, "system:aging-job", now).Return(apperrors.ErrConflict).Once()
	suite.mockRequisitionRepo.On("UpdateRequisitionStatus", ctx, fine.Requisition.RequisitionID,
		domain.RequisitionUnfulfilled, "system:aging-job", now).Return(nil).Once()

	summary, err := suite.service.CloseOutdatedRequisitions(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Failed)
	suite.Equal(1, summary.Unfulfilled)
	suite.Equal(0, summary.Canceled)
}

func TestRequisitionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequisitionServiceTestSuite))
}
