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
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/core/services"
)

type ClaimServiceTestSuite struct {
	suite.Suite
	mockRequisitionRepo *MockRequisitionRepository
	mockDayRepo         *MockRecurrenceDayRepository
	mockWorkdayRepo     *MockWorkdayRepository
	mockTimesheetRepo   *MockTimesheetRepository
	mockUserRepo        *MockUserRepository
	mockClientRepo      *MockClientRepository
	mockNotifier        *MockNotifier
	service             portssvc.ClaimSvcFacade

	candidateID string
	day         *domain.RecurrenceDay
	requisition *domain.Requisition
	candidate   *domain.User
	client      *domain.Client
}

func (suite *ClaimServiceTestSuite) SetupTest() {
	suite.mockRequisitionRepo = new(MockRequisitionRepository)
	suite.mockDayRepo = new(MockRecurrenceDayRepository)
	suite.mockWorkdayRepo = new(MockWorkdayRepository)
	suite.mockTimesheetRepo = new(MockTimesheetRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewClaimService(
		suite.mockRequisitionRepo,
		suite.mockDayRepo,
		suite.mockWorkdayRepo,
		suite.mockTimesheetRepo,
		suite.mockUserRepo,
		suite.mockClientRepo,
		suite.mockNotifier,
	)

	suite.candidateID = uuid.NewString()
	requisitionID := uuid.NewString()
	clientID := uuid.NewString()

	dayStart := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC)
	suite.day = &domain.RecurrenceDay{
		RecurrenceDayID: uuid.NewString(),
		RequisitionID:   requisitionID,
		Date:            "2024-06-03",
		DayStart:        dayStart,
		DayEnd:          dayEnd,
		Status:          domain.RecurrenceDayOpen,
	}
	suite.requisition = &domain.Requisition{
		RequisitionID:     requisitionID,
		ClientID:          clientID,
		Title:             "Hygienist coverage",
		Location:          "Downtown clinic",
		Discipline:        "RDH",
		HourlyRate:        decimal.NewFromInt(30),
		ReferenceTimezone: "America/New_York",
		Status:            domain.RequisitionOpen,
	}
	suite.candidate = &domain.User{
		UserID:      suite.candidateID,
		Name:        "Jordan Price",
		Role:        domain.RoleCandidate,
		Disciplines: []string{"RDH"},
	}
	suite.client = &domain.Client{
		ClientID:     clientID,
		Name:         "Downtown Dental",
		ContactEmail: "office@downtown.example",
	}
}

// expectNoWeekSheet stubs the week lookup for the common case of a candidate
// with no timesheet yet for the shift's week.
func (suite *ClaimServiceTestSuite) expectNoWeekSheet(ctx context.Context) {
	weekBegin := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	suite.mockTimesheetRepo.On("FindTimesheetForWeek", ctx, suite.candidateID, suite.requisition.RequisitionID, weekBegin).
		Return(nil, apperrors.ErrNotFound).Once()
}

func (suite *ClaimServiceTestSuite) TestClaimShift_Success() {
	ctx := context.Background()

	suite.mockDayRepo.On("FindRecurrenceDayByID", ctx, suite.day.RecurrenceDayID).Return(suite.day, nil).Once()
	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, suite.requisition.RequisitionID).Return(suite.requisition, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.candidateID).Return(suite.candidate, nil).Once()
	suite.expectNoWeekSheet(ctx)

	var captured domain.Workday
	suite.mockWorkdayRepo.On("CreateClaim", ctx, mock.AnythingOfType("domain.Workday"), mock.AnythingOfType("*domain.Timesheet")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.Workday)
			draft := args.Get(2).(*domain.Timesheet)
			suite.Equal(suite.candidateID, draft.CandidateID)
			suite.Equal(domain.TimesheetDraft, draft.Status)
			// Week of 2024-06-03 (a Monday) begins Sunday 2024-06-02.
			suite.Equal(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), draft.WeekBeginDate)
			suite.True(draft.CandidateRateBase.Equal(decimal.NewFromInt(30)))
			suite.True(draft.CandidateRateOT.Equal(decimal.NewFromInt(45)))
		}).
		Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.client.ClientID).Return(suite.client, nil).Once()
	suite.mockNotifier.On("Notify", ctx, "shift_claimed", suite.client.ContactEmail, mock.Anything).Once()
	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()

	workday, err := suite.service.ClaimShift(ctx, suite.candidateID, suite.day.RecurrenceDayID)

	suite.Require().NoError(err)
	suite.Require().NotNil(workday)
	suite.Equal(captured.WorkdayID, workday.WorkdayID)
	suite.Equal(suite.candidateID, workday.CandidateID)
	suite.Equal(suite.day.RecurrenceDayID, workday.RecurrenceDayID)
	suite.NotEmpty(workday.TimesheetID)
	suite.mockWorkdayRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ClaimServiceTestSuite) TestClaimShift_AlreadyClaimed() {
	ctx := context.Background()

	suite.mockDayRepo.On("FindRecurrenceDayByID", ctx, suite.day.RecurrenceDayID).Return(suite.day, nil).Once()
	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, suite.requisition.RequisitionID).Return(suite.requisition, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.candidateID).Return(suite.candidate, nil).Once()
	suite.expectNoWeekSheet(ctx)
	suite.mockWorkdayRepo.On("CreateClaim", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrAlreadyClaimed).Once()

	workday, err := suite.service.ClaimShift(ctx, suite.candidateID, suite.day.RecurrenceDayID)

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyClaimed)
	suite.Nil(workday)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClaimServiceTestSuite) TestClaimShift_ShiftNotOpen() {
	ctx := context.Background()
	suite.day.Status = domain.RecurrenceDayFilled

	suite.mockDayRepo.On("FindRecurrenceDayByID", ctx, suite.day.RecurrenceDayID).Return(suite.day, nil).Once()

	workday, err := suite.service.ClaimShift(ctx, suite.candidateID, suite.day.RecurrenceDayID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(workday)
	suite.mockWorkdayRepo.AssertNotCalled(suite.T(), "CreateClaim", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClaimServiceTestSuite) TestClaimShift_RequisitionNotOpen() {
	ctx := context.Background()
	suite.requisition.Status = domain.RequisitionPending

	suite.mockDayRepo.On("FindRecurrenceDayByID", ctx, suite.day.RecurrenceDayID).Return(suite.day, nil).Once()
	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, suite.requisition.RequisitionID).Return(suite.requisition, nil).Once()

	_, err := suite.service.ClaimShift(ctx, suite.candidateID, suite.day.RecurrenceDayID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.NotErrorIs(err, apperrors.ErrConflict)
	suite.mockWorkdayRepo.AssertNotCalled(suite.T(), "CreateClaim", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClaimServiceTestSuite) TestClaimShift_DisciplineMismatch() {
	ctx := context.Background()
	suite.candidate.Disciplines = []string{"DA"}

	suite.mockDayRepo.On("FindRecurrenceDayByID", ctx, suite.day.RecurrenceDayID).Return(suite.day, nil).Once()
	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, suite.requisition.RequisitionID).Return(suite.requisition, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.candidateID).Return(suite.candidate, nil).Once()

	_, err := suite.service.ClaimShift(ctx, suite.candidateID, suite.day.RecurrenceDayID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockWorkdayRepo.AssertNotCalled(suite.T(), "CreateClaim", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClaimServiceTestSuite) TestClaimShift_DayNotFound() {
	ctx := context.Background()

	suite.mockDayRepo.On("FindRecurrenceDayByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ClaimShift(ctx, suite.candidateID, "missing")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ClaimServiceTestSuite) TestClaimShift_WeekAlreadySubmitted() {
	ctx := context.Background()
	weekBegin := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	submitted := &domain.Timesheet{
		TimesheetID:   uuid.NewString(),
		CandidateID:   suite.candidateID,
		RequisitionID: suite.requisition.RequisitionID,
		WeekBeginDate: weekBegin,
		Status:        domain.TimesheetPending,
	}

	suite.mockDayRepo.On("FindRecurrenceDayByID", ctx, suite.day.RecurrenceDayID).Return(suite.day, nil).Once()
	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, suite.requisition.RequisitionID).Return(suite.requisition, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.candidateID).Return(suite.candidate, nil).Once()
	suite.mockTimesheetRepo.On("FindTimesheetForWeek", ctx, suite.candidateID, suite.requisition.RequisitionID, weekBegin).
		Return(submitted, nil).Once()

	_, err := suite.service.ClaimShift(ctx, suite.candidateID, suite.day.RecurrenceDayID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorContains(err, "already been submitted")
	suite.mockWorkdayRepo.AssertNotCalled(suite.T(), "CreateClaim", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClaimServiceTestSuite) TestClaimShift_ReusesDraftWeekSheet() {
	ctx := context.Background()
	weekBegin := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	draft := &domain.Timesheet{
		TimesheetID:   uuid.NewString(),
		CandidateID:   suite.candidateID,
		RequisitionID: suite.requisition.RequisitionID,
		WeekBeginDate: weekBegin,
		Status:        domain.TimesheetDraft,
	}

	suite.mockDayRepo.On("FindRecurrenceDayByID", ctx, suite.day.RecurrenceDayID).Return(suite.day, nil).Once()
	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, suite.requisition.RequisitionID).Return(suite.requisition, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.candidateID).Return(suite.candidate, nil).Once()
	suite.mockTimesheetRepo.On("FindTimesheetForWeek", ctx, suite.candidateID, suite.requisition.RequisitionID, weekBegin).
		Return(draft, nil).Once()
	suite.mockWorkdayRepo.On("CreateClaim", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.client.ClientID).Return(suite.client, nil).Once()
	suite.mockNotifier.On("Notify", ctx, "shift_claimed", suite.client.ContactEmail, mock.Anything).Once()
	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()

	workday, err := suite.service.ClaimShift(ctx, suite.candidateID, suite.day.RecurrenceDayID)

	suite.Require().NoError(err)
	suite.NotNil(workday)
	suite.mockWorkdayRepo.AssertExpectations(suite.T())
}

func (suite *ClaimServiceTestSuite) TestClaimShift_NotificationFailureIsNotFatal() {
	ctx := context.Background()

	suite.mockDayRepo.On("FindRecurrenceDayByID", ctx, suite.day.RecurrenceDayID).Return(suite.day, nil).Once()
	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, suite.requisition.RequisitionID).Return(suite.requisition, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.candidateID).Return(suite.candidate, nil).Once()
	suite.expectNoWeekSheet(ctx)
	suite.mockWorkdayRepo.On("CreateClaim", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	// Client lookup fails, so the notification is skipped entirely.
	suite.mockClientRepo.On("FindClientByID", ctx, suite.client.ClientID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()

	workday, err := suite.service.ClaimShift(ctx, suite.candidateID, suite.day.RecurrenceDayID)

	suite.Require().NoError(err)
	suite.NotNil(workday)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClaimServiceTestSuite) TestCancelShift_OwnerWithDraftSheet() {
	ctx := context.Background()
	workday := &domain.Workday{
		WorkdayID:       uuid.NewString(),
		RecurrenceDayID: suite.day.RecurrenceDayID,
		CandidateID:     suite.candidateID,
		TimesheetID:     uuid.NewString(),
	}
	sheet := &domain.Timesheet{TimesheetID: workday.TimesheetID, Status: domain.TimesheetDraft}

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, workday.WorkdayID).Return(workday, nil).Once()
	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, workday.TimesheetID).Return(sheet, nil).Once()
	suite.mockWorkdayRepo.On("DeleteClaim", ctx, workday.WorkdayID).Return(nil).Once()

	err := suite.service.CancelShift(ctx, workday.WorkdayID, suite.candidateID)

	suite.Require().NoError(err)
	suite.mockWorkdayRepo.AssertExpectations(suite.T())
}

func (suite *ClaimServiceTestSuite) TestCancelShift_SubmittedSheetBlocks() {
	ctx := context.Background()
	workday := &domain.Workday{
		WorkdayID:   uuid.NewString(),
		CandidateID: suite.candidateID,
		TimesheetID: uuid.NewString(),
	}
	sheet := &domain.Timesheet{TimesheetID: workday.TimesheetID, Status: domain.TimesheetPending}

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, workday.WorkdayID).Return(workday, nil).Once()
	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, workday.TimesheetID).Return(sheet, nil).Once()

	err := suite.service.CancelShift(ctx, workday.WorkdayID, suite.candidateID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockWorkdayRepo.AssertNotCalled(suite.T(), "DeleteClaim", mock.Anything, mock.Anything)
}

func (suite *ClaimServiceTestSuite) TestCancelShift_StrangerForbidden() {
	ctx := context.Background()
	strangerID := uuid.NewString()
	workday := &domain.Workday{
		WorkdayID:   uuid.NewString(),
		CandidateID: suite.candidateID,
	}
	stranger := &domain.User{UserID: strangerID, Role: domain.RoleCandidate}

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, workday.WorkdayID).Return(workday, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, strangerID).Return(stranger, nil).Once()

	err := suite.service.CancelShift(ctx, workday.WorkdayID, strangerID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ClaimServiceTestSuite) TestCancelShift_StaffMayCancel() {
	ctx := context.Background()
	staffID := uuid.NewString()
	workday := &domain.Workday{
		WorkdayID:   uuid.NewString(),
		CandidateID: suite.candidateID,
	}
	staff := &domain.User{UserID: staffID, Role: domain.RoleStaff}

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, workday.WorkdayID).Return(workday, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, staffID).Return(staff, nil).Once()
	suite.mockWorkdayRepo.On("DeleteClaim", ctx, workday.WorkdayID).Return(nil).Once()

	err := suite.service.CancelShift(ctx, workday.WorkdayID, staffID)

	suite.Require().NoError(err)
	suite.mockWorkdayRepo.AssertExpectations(suite.T())
}

func TestClaimServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClaimServiceTestSuite))
}
