package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// HoursEntryInput is one worked day as reported by the candidate.
type HoursEntryInput struct {
	Date      string          `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string          `json:"startTime" binding:"required"`
	EndTime   string          `json:"endTime" binding:"required"`
	Hours     decimal.Decimal `json:"hours" binding:"required"`
}

// SubmitTimesheetRequest defines the payload for submitting a week of hours
// against the workday's draft sheet.
type SubmitTimesheetRequest struct {
	Entries  []HoursEntryInput `json:"entries" binding:"required,min=1,dive"`
	RateBase decimal.Decimal   `json:"rateBase" binding:"required"`
	RateOT   decimal.Decimal   `json:"rateOT" binding:"required"`
}

// TimesheetResponse defines the data returned for a timesheet.
type TimesheetResponse struct {
	TimesheetID             string              `json:"timesheetID"`
	CandidateID             string              `json:"candidateID"`
	RequisitionID           string              `json:"requisitionID"`
	WorkdayID               string              `json:"workdayID"`
	WeekBeginDate           time.Time           `json:"weekBeginDate"`
	HoursRaw                []domain.HoursEntry `json:"hoursRaw"`
	TotalHoursWorked        decimal.Decimal     `json:"totalHoursWorked"`
	TotalHoursBilled        decimal.Decimal     `json:"totalHoursBilled"`
	CandidateRateBase       decimal.Decimal     `json:"candidateRateBase"`
	CandidateRateOT         decimal.Decimal     `json:"candidateRateOT"`
	Status                  string              `json:"status"`
	Validated               bool                `json:"validated"`
	AwaitingClientSignature bool                `json:"awaitingClientSignature"`
}

// ListTimesheetsResponse is the paginated list envelope.
type ListTimesheetsResponse struct {
	Timesheets []TimesheetResponse `json:"timesheets"`
	NextToken  *string             `json:"nextToken,omitempty"`
}

// ValidateTimesheetResponse carries the reconciliation result for review.
type ValidateTimesheetResponse struct {
	TimesheetID   string               `json:"timesheetID"`
	Discrepancies []domain.Discrepancy `json:"discrepancies"`
	Clean         bool                 `json:"clean"`
}

// ReviewTimesheetRequest carries the optional note for reject/void/revert and
// discrepancy-marking reviewer actions.
type ReviewTimesheetRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}

// ApproveTimesheetRequest configures an approval.
type ApproveTimesheetRequest struct {
	// OverrideDiscrepancies approves despite outstanding discrepancies.
	OverrideDiscrepancies bool `json:"overrideDiscrepancies"`
}

// ToTimesheetResponse converts a domain.Timesheet to its response DTO.
func ToTimesheetResponse(t *domain.Timesheet) TimesheetResponse {
	return TimesheetResponse{
		TimesheetID:             t.TimesheetID,
		CandidateID:             t.CandidateID,
		RequisitionID:           t.RequisitionID,
		WorkdayID:               t.WorkdayID,
		WeekBeginDate:           t.WeekBeginDate,
		HoursRaw:                t.HoursRaw,
		TotalHoursWorked:        t.TotalHoursWorked,
		TotalHoursBilled:        t.TotalHoursBilled,
		CandidateRateBase:       t.CandidateRateBase,
		CandidateRateOT:         t.CandidateRateOT,
		Status:                  string(t.Status),
		Validated:               t.Validated,
		AwaitingClientSignature: t.AwaitingClientSignature,
	}
}

// ToTimesheetResponses converts a slice of timesheets.
func ToTimesheetResponses(ts []domain.Timesheet) []TimesheetResponse {
	responses := make([]TimesheetResponse, len(ts))
	for i := range ts {
		responses[i] = ToTimesheetResponse(&ts[i])
	}
	return responses
}
