package domain

import "time"

// RecurrenceDayStatus indicates whether a shift instance is still up for grabs.
type RecurrenceDayStatus string

const (
	RecurrenceDayOpen        RecurrenceDayStatus = "OPEN"
	RecurrenceDayFilled      RecurrenceDayStatus = "FILLED"
	RecurrenceDayUnfulfilled RecurrenceDayStatus = "UNFULFILLED"
	RecurrenceDayCanceled    RecurrenceDayStatus = "CANCELED"
)

// RecurrenceDay is one calendar shift instance under a requisition. Date is a
// bare calendar date; the four window fields are UTC instants derived from the
// requisition's reference timezone when the shift was created.
//
// Invariant: DayStart < LunchStart <= LunchEnd < DayEnd when a lunch window is
// present, DayStart < DayEnd otherwise.
type RecurrenceDay struct {
	RecurrenceDayID string              `json:"recurrenceDayID"`
	RequisitionID   string              `json:"requisitionID"`
	Date            string              `json:"date"` // YYYY-MM-DD
	DayStart        time.Time           `json:"dayStart"`
	DayEnd          time.Time           `json:"dayEnd"`
	LunchStart      *time.Time          `json:"lunchStart,omitempty"`
	LunchEnd        *time.Time          `json:"lunchEnd,omitempty"`
	Status          RecurrenceDayStatus `json:"status"`
	Archived        bool                `json:"archived"`
	AuditFields
}

// HasLunch reports whether the shift carries a lunch window.
func (d *RecurrenceDay) HasLunch() bool {
	return d.LunchStart != nil && d.LunchEnd != nil
}
