package dto

import (
	"time"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// RecurrenceDayInput is one shift definition as authored by the client, in
// the requisition's reference timezone. Lunch fields are optional but must be
// provided together.
type RecurrenceDayInput struct {
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
	DayStart   string `json:"dayStart" binding:"required"`
	DayEnd     string `json:"dayEnd" binding:"required"`
	LunchStart string `json:"lunchStart" binding:"omitempty"`
	LunchEnd   string `json:"lunchEnd" binding:"omitempty"`
}

// CreateRecurrenceDaysRequest defines the payload for bulk shift creation.
type CreateRecurrenceDaysRequest struct {
	Days []RecurrenceDayInput `json:"days" binding:"required,min=1,dive"`
}

// UpdateRecurrenceDayRequest edits a single shift's times in local wall-clock
// terms; conversion to UTC reuses the requisition's reference timezone.
type UpdateRecurrenceDayRequest struct {
	Date       *string `json:"date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	DayStart   *string `json:"dayStart,omitempty"`
	DayEnd     *string `json:"dayEnd,omitempty"`
	LunchStart *string `json:"lunchStart,omitempty"`
	LunchEnd   *string `json:"lunchEnd,omitempty"`
}

// RecurrenceDayResponse defines the data returned for a shift instance, with
// the stored UTC instants.
type RecurrenceDayResponse struct {
	RecurrenceDayID string     `json:"recurrenceDayID"`
	RequisitionID   string     `json:"requisitionID"`
	Date            string     `json:"date"`
	DayStart        time.Time  `json:"dayStart"`
	DayEnd          time.Time  `json:"dayEnd"`
	LunchStart      *time.Time `json:"lunchStart,omitempty"`
	LunchEnd        *time.Time `json:"lunchEnd,omitempty"`
	Status          string     `json:"status"`
}

// ToRecurrenceDayResponse converts a domain.RecurrenceDay to its response DTO.
func ToRecurrenceDayResponse(d *domain.RecurrenceDay) RecurrenceDayResponse {
	return RecurrenceDayResponse{
		RecurrenceDayID: d.RecurrenceDayID,
		RequisitionID:   d.RequisitionID,
		Date:            d.Date,
		DayStart:        d.DayStart,
		DayEnd:          d.DayEnd,
		LunchStart:      d.LunchStart,
		LunchEnd:        d.LunchEnd,
		Status:          string(d.Status),
	}
}

// ToRecurrenceDayResponses converts a slice of shift instances.
func ToRecurrenceDayResponses(days []domain.RecurrenceDay) []RecurrenceDayResponse {
	responses := make([]RecurrenceDayResponse, len(days))
	for i := range days {
		responses[i] = ToRecurrenceDayResponse(&days[i])
	}
	return responses
}
