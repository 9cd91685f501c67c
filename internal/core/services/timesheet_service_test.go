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
	"github.com/shiftbridge/staffing_app/internal/dto"
)

type TimesheetServiceTestSuite struct {
	suite.Suite
	mockTimesheetRepo   *MockTimesheetRepository
	mockWorkdayRepo     *MockWorkdayRepository
	mockDayRepo         *MockRecurrenceDayRepository
	mockRequisitionRepo *MockRequisitionRepository
	service             portssvc.TimesheetSvcFacade

	candidateID string
	weekBegin   time.Time
	sheet       *domain.Timesheet
	workday     *domain.Workday
}

func (suite *TimesheetServiceTestSuite) SetupTest() {
	suite.mockTimesheetRepo = new(MockTimesheetRepository)
	suite.mockWorkdayRepo = new(MockWorkdayRepository)
	suite.mockDayRepo = new(MockRecurrenceDayRepository)
	suite.mockRequisitionRepo = new(MockRequisitionRepository)
	suite.service = services.NewTimesheetService(
		suite.mockTimesheetRepo,
		suite.mockWorkdayRepo,
		suite.mockDayRepo,
		suite.mockRequisitionRepo,
	)

	suite.candidateID = uuid.NewString()
	suite.weekBegin = time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC) // Sunday
	suite.sheet = &domain.Timesheet{
		TimesheetID:   uuid.NewString(),
		CandidateID:   suite.candidateID,
		RequisitionID: uuid.NewString(),
		WeekBeginDate: suite.weekBegin,
		Status:        domain.TimesheetDraft,
	}
	suite.workday = &domain.Workday{
		WorkdayID:   uuid.NewString(),
		CandidateID: suite.candidateID,
		TimesheetID: suite.sheet.TimesheetID,
	}
	suite.sheet.WorkdayID = suite.workday.WorkdayID
}

func (suite *TimesheetServiceTestSuite) submitRequest() dto.SubmitTimesheetRequest {
	return dto.SubmitTimesheetRequest{
		Entries: []dto.HoursEntryInput{
			{Date: "2024-06-03", StartTime: "08:00", EndTime: "16:00", Hours: decimal.NewFromFloat(7.5)},
		},
		RateBase: decimal.NewFromInt(30),
		RateOT:   decimal.NewFromInt(45),
	}
}

func (suite *TimesheetServiceTestSuite) TestSubmitTimesheet_Success() {
	ctx := context.Background()

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, suite.workday.WorkdayID).Return(suite.workday, nil).Once()
	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, suite.sheet.TimesheetID).Return(suite.sheet, nil).Once()
	suite.mockTimesheetRepo.On("UpdateTimesheetSubmission", ctx, mock.AnythingOfType("domain.Timesheet")).
		Run(func(args mock.Arguments) {
			saved := args.Get(1).(domain.Timesheet)
			suite.Equal(domain.TimesheetPending, saved.Status)
			suite.True(saved.AwaitingClientSignature)
			suite.False(saved.Validated)
			suite.True(saved.TotalHoursWorked.Equal(decimal.NewFromFloat(7.5)))
		}).
		Return(nil).Once()

	sheet, err := suite.service.SubmitTimesheet(ctx, suite.workday.WorkdayID, suite.submitRequest(), suite.candidateID)

	suite.Require().NoError(err)
	suite.Require().NotNil(sheet)
	suite.Equal(domain.TimesheetPending, sheet.Status)
	suite.Len(sheet.HoursRaw, 1)
	suite.mockTimesheetRepo.AssertExpectations(suite.T())
}

func (suite *TimesheetServiceTestSuite) TestSubmitTimesheet_AlreadySubmitted() {
	ctx := context.Background()
	suite.sheet.Status = domain.TimesheetPending

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, suite.workday.WorkdayID).Return(suite.workday, nil).Once()
	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, suite.sheet.TimesheetID).Return(suite.sheet, nil).Once()

	_, err := suite.service.SubmitTimesheet(ctx, suite.workday.WorkdayID, suite.submitRequest(), suite.candidateID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockTimesheetRepo.AssertNotCalled(suite.T(), "UpdateTimesheetSubmission", mock.Anything, mock.Anything)
}

func (suite *TimesheetServiceTestSuite) TestSubmitTimesheet_NotOwner() {
	ctx := context.Background()

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, suite.workday.WorkdayID).Return(suite.workday, nil).Once()

	_, err := suite.service.SubmitTimesheet(ctx, suite.workday.WorkdayID, suite.submitRequest(), uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TimesheetServiceTestSuite) TestSubmitTimesheet_EntryOutsideWeek() {
	ctx := context.Background()
	req := suite.submitRequest()
	req.Entries[0].Date = "2024-06-09" // next week's Sunday

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, suite.workday.WorkdayID).Return(suite.workday, nil).Once()
	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, suite.sheet.TimesheetID).Return(suite.sheet, nil).Once()

	_, err := suite.service.SubmitTimesheet(ctx, suite.workday.WorkdayID, req, suite.candidateID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TimesheetServiceTestSuite) TestSubmitTimesheet_BadClockValue() {
	ctx := context.Background()
	req := suite.submitRequest()
	req.Entries[0].StartTime = "8 o'clock"

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, suite.workday.WorkdayID).Return(suite.workday, nil).Once()
	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, suite.sheet.TimesheetID).Return(suite.sheet, nil).Once()

	_, err := suite.service.SubmitTimesheet(ctx, suite.workday.WorkdayID, req, suite.candidateID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTimeFormat)
}

func (suite *TimesheetServiceTestSuite) TestSubmitTimesheet_NegativeHours() {
	ctx := context.Background()
	req := suite.submitRequest()
	req.Entries[0].Hours = decimal.NewFromInt(-1)

	suite.mockWorkdayRepo.On("FindWorkdayByID", ctx, suite.workday.WorkdayID).Return(suite.workday, nil).Once()
	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, suite.sheet.TimesheetID).Return(suite.sheet, nil).Once()

	_, err := suite.service.SubmitTimesheet(ctx, suite.workday.WorkdayID, req, suite.candidateID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

// scheduledDay builds a Monday 2024-06-03 8:00-16:00 New York shift with a
// 12:00-12:30 lunch, stored as the UTC instants 12:00Z-20:00Z (EDT is UTC-4).
func scheduledDay() domain.RecurrenceDay {
	lunchStart := time.Date(2024, 6, 3, 16, 0, 0, 0, time.UTC)
	lunchEnd := time.Date(2024, 6, 3, 16, 30, 0, 0, time.UTC)
	return domain.RecurrenceDay{
		RecurrenceDayID: uuid.NewString(),
		Date:            "2024-06-03",
		DayStart:        time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC),
		DayEnd:          time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC),
		LunchStart:      &lunchStart,
		LunchEnd:        &lunchEnd,
		Status:          domain.RecurrenceDayFilled,
	}
}

func (suite *TimesheetServiceTestSuite) TestReconcileTimesheet_CleanMatch() {
	day := scheduledDay()
	sheet := &domain.Timesheet{
		HoursRaw: []domain.HoursEntry{
			{Date: "2024-06-03", StartTime: "08:00", EndTime: "16:00", Hours: decimal.NewFromFloat(7.5)},
		},
	}

	discrepancies, err := services.ReconcileTimesheet(sheet, []domain.RecurrenceDay{day}, "America/New_York")

	suite.Require().NoError(err)
	suite.Empty(discrepancies)
}

func (suite *TimesheetServiceTestSuite) TestReconcileTimesheet_WithinClockTolerance() {
	day := scheduledDay()
	sheet := &domain.Timesheet{
		HoursRaw: []domain.HoursEntry{
			{Date: "2024-06-03", StartTime: "08:04", EndTime: "15:57", Hours: decimal.NewFromFloat(7.4)},
		},
	}

	discrepancies, err := services.ReconcileTimesheet(sheet, []domain.RecurrenceDay{day}, "America/New_York")

	suite.Require().NoError(err)
	suite.Empty(discrepancies)
}

func (suite *TimesheetServiceTestSuite) TestReconcileTimesheet_ToleranceAcrossMidnight() {
	// Evening shift ending 23:58 New York time; clocking out at 00:03 is a
	// five-minute drift, not a 1435-minute one.
	day := domain.RecurrenceDay{
		RecurrenceDayID: uuid.NewString(),
		Date:            "2024-06-03",
		DayStart:        time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC),  // 16:00 EDT
		DayEnd:          time.Date(2024, 6, 4, 3, 58, 0, 0, time.UTC),  // 23:58 EDT
		Status:          domain.RecurrenceDayFilled,
	}
	sheet := &domain.Timesheet{
		HoursRaw: []domain.HoursEntry{
			{Date: "2024-06-03", StartTime: "16:00", EndTime: "00:03", Hours: decimal.NewFromFloat(7.9)},
		},
	}

	discrepancies, err := services.ReconcileTimesheet(sheet, []domain.RecurrenceDay{day}, "America/New_York")

	suite.Require().NoError(err)
	suite.Empty(discrepancies)
}

func (suite *TimesheetServiceTestSuite) TestReconcileTimesheet_MissingDay() {
	day := scheduledDay()
	sheet := &domain.Timesheet{HoursRaw: nil}

	discrepancies, err := services.ReconcileTimesheet(sheet, []domain.RecurrenceDay{day}, "America/New_York")

	suite.Require().NoError(err)
	suite.Require().Len(discrepancies, 1)
	suite.Equal(domain.DiscrepancyMissingDay, discrepancies[0].Kind)
	suite.Equal("2024-06-03", discrepancies[0].Date)
	suite.Equal("08:00", discrepancies[0].ScheduledStart)
	suite.Equal("16:00", discrepancies[0].ScheduledEnd)
	suite.True(discrepancies[0].ScheduledHours.Equal(decimal.NewFromFloat(7.5)))
}

func (suite *TimesheetServiceTestSuite) TestReconcileTimesheet_TimeMismatch() {
	day := scheduledDay()
	sheet := &domain.Timesheet{
		HoursRaw: []domain.HoursEntry{
			{Date: "2024-06-03", StartTime: "09:00", EndTime: "16:00", Hours: decimal.NewFromFloat(6.5)},
		},
	}

	discrepancies, err := services.ReconcileTimesheet(sheet, []domain.RecurrenceDay{day}, "America/New_York")

	suite.Require().NoError(err)
	suite.Require().Len(discrepancies, 1)
	suite.Equal(domain.DiscrepancyTimeMismatch, discrepancies[0].Kind)
	suite.Equal("09:00", discrepancies[0].ReportedStart)
}

func (suite *TimesheetServiceTestSuite) TestReconcileTimesheet_UnscheduledDay() {
	day := scheduledDay()
	sheet := &domain.Timesheet{
		HoursRaw: []domain.HoursEntry{
			{Date: "2024-06-03", StartTime: "08:00", EndTime: "16:00", Hours: decimal.NewFromFloat(7.5)},
			{Date: "2024-06-04", StartTime: "08:00", EndTime: "16:00", Hours: decimal.NewFromFloat(7.5)},
		},
	}

	discrepancies, err := services.ReconcileTimesheet(sheet, []domain.RecurrenceDay{day}, "America/New_York")

	suite.Require().NoError(err)
	suite.Require().Len(discrepancies, 1)
	suite.Equal(domain.DiscrepancyUnscheduledDay, discrepancies[0].Kind)
	suite.Equal("2024-06-04", discrepancies[0].Date)
}

func (suite *TimesheetServiceTestSuite) TestReconcileTimesheet_HoursExceeded() {
	day := scheduledDay()
	sheet := &domain.Timesheet{
		HoursRaw: []domain.HoursEntry{
			{Date: "2024-06-03", StartTime: "08:00", EndTime: "16:00", Hours: decimal.NewFromInt(9)},
		},
	}

	discrepancies, err := services.ReconcileTimesheet(sheet, []domain.RecurrenceDay{day}, "America/New_York")

	suite.Require().NoError(err)
	suite.Require().Len(discrepancies, 1)
	suite.Equal(domain.DiscrepancyHoursExceeded, discrepancies[0].Kind)
	suite.True(discrepancies[0].ReportedHours.Equal(decimal.NewFromInt(9)))
}

func (suite *TimesheetServiceTestSuite) TestValidateTimesheet_CleanRunMarksValidated() {
	ctx := context.Background()
	day := scheduledDay()
	suite.sheet.Status = domain.TimesheetPending
	suite.sheet.HoursRaw = []domain.HoursEntry{
		{Date: "2024-06-03", StartTime: "08:00", EndTime: "16:00", Hours: decimal.NewFromFloat(7.5)},
	}
	requisition := &domain.Requisition{
		RequisitionID:     suite.sheet.RequisitionID,
		ReferenceTimezone: "America/New_York",
	}

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, suite.sheet.TimesheetID).Return(suite.sheet, nil).Once()
	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, suite.sheet.RequisitionID).Return(requisition, nil).Once()
	suite.mockWorkdayRepo.On("ListWorkdaysForWeek", ctx, suite.candidateID, suite.sheet.RequisitionID, suite.weekBegin).
		Return([]domain.Workday{{RecurrenceDayID: day.RecurrenceDayID}}, nil).Once()
	suite.mockDayRepo.On("ListRecurrenceDaysInWeek", ctx, suite.sheet.RequisitionID, suite.weekBegin).
		Return([]domain.RecurrenceDay{day}, nil).Once()
	suite.mockTimesheetRepo.On("UpdateTimesheetValidated", ctx, suite.sheet.TimesheetID, true, "system:validation", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	discrepancies, err := suite.service.ValidateTimesheet(ctx, suite.sheet.TimesheetID)

	suite.Require().NoError(err)
	suite.Empty(discrepancies)
	suite.mockTimesheetRepo.AssertExpectations(suite.T())
}

func (suite *TimesheetServiceTestSuite) TestValidateTimesheet_IgnoresUnclaimedShifts() {
	ctx := context.Background()
	claimed := scheduledDay()
	unclaimed := scheduledDay()
	unclaimed.Date = "2024-06-04"
	unclaimed.Status = domain.RecurrenceDayOpen
	suite.sheet.Status = domain.TimesheetPending
	suite.sheet.HoursRaw = []domain.HoursEntry{
		{Date: "2024-06-03", StartTime: "08:00", EndTime: "16:00", Hours: decimal.NewFromFloat(7.5)},
	}
	requisition := &domain.Requisition{
		RequisitionID:     suite.sheet.RequisitionID,
		ReferenceTimezone: "America/New_York",
	}

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, suite.sheet.TimesheetID).Return(suite.sheet, nil).Once()
	suite.mockRequisitionRepo.On("FindRequisitionByID", ctx, suite.sheet.RequisitionID).Return(requisition, nil).Once()
	suite.mockWorkdayRepo.On("ListWorkdaysForWeek", ctx, suite.candidateID, suite.sheet.RequisitionID, suite.weekBegin).
		Return([]domain.Workday{{RecurrenceDayID: claimed.RecurrenceDayID}}, nil).Once()
	suite.mockDayRepo.On("ListRecurrenceDaysInWeek", ctx, suite.sheet.RequisitionID, suite.weekBegin).
		Return([]domain.RecurrenceDay{claimed, unclaimed}, nil).Once()
	suite.mockTimesheetRepo.On("UpdateTimesheetValidated", ctx, suite.sheet.TimesheetID, true, "system:validation", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	// The unclaimed shift must not produce a MISSING_DAY.
	discrepancies, err := suite.service.ValidateTimesheet(ctx, suite.sheet.TimesheetID)

	suite.Require().NoError(err)
	suite.Empty(discrepancies)
}

func (suite *TimesheetServiceTestSuite) TestValidateTimesheet_DraftRejected() {
	ctx := context.Background()

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, suite.sheet.TimesheetID).Return(suite.sheet, nil).Once()

	_, err := suite.service.ValidateTimesheet(ctx, suite.sheet.TimesheetID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *TimesheetServiceTestSuite) TestMarkDiscrepancy() {
	ctx := context.Background()

	suite.mockTimesheetRepo.On("TransitionTimesheetStatus", ctx, suite.sheet.TimesheetID,
		domain.TimesheetPending, domain.TimesheetDiscrepancy, "reviewer-1", "hours mismatch", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.MarkDiscrepancy(ctx, suite.sheet.TimesheetID, "reviewer-1", "hours mismatch")

	suite.Require().NoError(err)
	suite.mockTimesheetRepo.AssertExpectations(suite.T())
}

func (suite *TimesheetServiceTestSuite) TestGetAuditTrail_SheetMustExist() {
	ctx := context.Background()

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetAuditTrail(ctx, "missing")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTimesheetRepo.AssertNotCalled(suite.T(), "ListAuditTrail", mock.Anything, mock.Anything)
}

func TestTimesheetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimesheetServiceTestSuite))
}
