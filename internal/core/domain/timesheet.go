package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimesheetStatus indicates the state of a candidate's weekly hours report.
type TimesheetStatus string

const (
	// TimesheetDraft is the state of a sheet provisioned by the claim engine
	// before the candidate has submitted any hours.
	TimesheetDraft       TimesheetStatus = "DRAFT"
	TimesheetPending     TimesheetStatus = "PENDING"
	TimesheetApproved    TimesheetStatus = "APPROVED"
	TimesheetDiscrepancy TimesheetStatus = "DISCREPANCY"
	TimesheetRejected    TimesheetStatus = "REJECTED"
	// TimesheetVoid is terminal; it is never hard-deleted once approved.
	TimesheetVoid TimesheetStatus = "VOID"
)

// HoursEntry is one worked day as reported by the candidate: bare wall-clock
// start/end plus the hours the candidate believes they worked.
type HoursEntry struct {
	Date      string          `json:"date"` // YYYY-MM-DD
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Hours     decimal.Decimal `json:"hours"`
}

// Timesheet is one candidate's reported hours for one week (WeekBeginDate is
// normalized to the week's Sunday, UTC) against one requisition. Exactly one
// sheet exists per (candidate, requisition, week); the claim engine creates it
// lazily and the validation/settlement engines move it through its lifecycle.
type Timesheet struct {
	TimesheetID             string          `json:"timesheetID"`
	CandidateID             string          `json:"candidateID"`
	RequisitionID           string          `json:"requisitionID"`
	WorkdayID               string          `json:"workdayID"` // originating workday
	WeekBeginDate           time.Time       `json:"weekBeginDate"`
	HoursRaw                []HoursEntry    `json:"hoursRaw"`
	TotalHoursWorked        decimal.Decimal `json:"totalHoursWorked"`
	TotalHoursBilled        decimal.Decimal `json:"totalHoursBilled"`
	CandidateRateBase       decimal.Decimal `json:"candidateRateBase"` // hourly, in currency units
	CandidateRateOT         decimal.Decimal `json:"candidateRateOT"`
	Status                  TimesheetStatus `json:"status"`
	Validated               bool            `json:"validated"`
	AwaitingClientSignature bool            `json:"awaitingClientSignature"`
	AuditFields
}

// TimesheetAudit records a single status transition for review history.
type TimesheetAudit struct {
	AuditID     string          `json:"auditID"`
	TimesheetID string          `json:"timesheetID"`
	FromStatus  TimesheetStatus `json:"fromStatus"`
	ToStatus    TimesheetStatus `json:"toStatus"`
	ActorID     string          `json:"actorID"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DiscrepancyKind classifies a mismatch between scheduled and reported hours.
type DiscrepancyKind string

const (
	DiscrepancyMissingDay     DiscrepancyKind = "MISSING_DAY"
	DiscrepancyTimeMismatch   DiscrepancyKind = "TIME_MISMATCH"
	DiscrepancyUnscheduledDay DiscrepancyKind = "UNSCHEDULED_DAY"
	DiscrepancyHoursExceeded  DiscrepancyKind = "HOURS_EXCEEDED"
)

// Discrepancy is advisory metadata surfaced by validation. It carries both
// sides of the mismatch for display; it does not itself change the sheet's
// persisted status.
type Discrepancy struct {
	Kind            DiscrepancyKind `json:"kind"`
	Date            string          `json:"date"`
	ScheduledStart  string          `json:"scheduledStart,omitempty"`
	ScheduledEnd    string          `json:"scheduledEnd,omitempty"`
	ReportedStart   string          `json:"reportedStart,omitempty"`
	ReportedEnd     string          `json:"reportedEnd,omitempty"`
	ScheduledHours  decimal.Decimal `json:"scheduledHours"`
	ReportedHours   decimal.Decimal `json:"reportedHours"`
	Detail          string          `json:"detail,omitempty"`
	RecurrenceDayID string          `json:"recurrenceDayID,omitempty"`
}
