package domain

import "github.com/shopspring/decimal"

// RequisitionStatus indicates where a staffing need sits in its lifecycle.
type RequisitionStatus string

const (
	RequisitionPending     RequisitionStatus = "PENDING"
	RequisitionOpen        RequisitionStatus = "OPEN"
	RequisitionFilled      RequisitionStatus = "FILLED"
	RequisitionUnfulfilled RequisitionStatus = "UNFULFILLED"
	RequisitionCanceled    RequisitionStatus = "CANCELED"
)

// Requisition is a staffing need posted by a client: either a permanent role
// or a pool of day-by-day temp shifts. ReferenceTimezone is the IANA zone used
// to interpret every child recurrence day's wall-clock times at creation.
type Requisition struct {
	RequisitionID     string            `json:"requisitionID"`
	ClientID          string            `json:"clientID"`
	Title             string            `json:"title"`
	Location          string            `json:"location"`
	Discipline        string            `json:"discipline"`
	ExperienceLevel   string            `json:"experienceLevel"`
	HourlyRate        decimal.Decimal   `json:"hourlyRate"`
	PermanentPosition bool              `json:"permanentPosition"`
	ReferenceTimezone string            `json:"referenceTimezone"`
	Status            RequisitionStatus `json:"status"`
	Archived          bool              `json:"archived"`
	AuditFields
}
