package domain

// Workday binds one candidate to one recurrence day within one requisition.
// The workdays table enforces uniqueness on RecurrenceDayID, which is the
// claim-exclusivity guarantee: a shift has at most one occupant, even under
// concurrent claim attempts.
type Workday struct {
	WorkdayID       string `json:"workdayID"`
	RequisitionID   string `json:"requisitionID"`
	RecurrenceDayID string `json:"recurrenceDayID"`
	CandidateID     string `json:"candidateID"`
	TimesheetID     string `json:"timesheetID,omitempty"` // back-reference, set once the draft is provisioned
	AuditFields
}
