package dto

import (
	"time"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// ClaimShiftRequest identifies the shift a candidate wants to claim. The
// candidate is the authenticated caller.
type ClaimShiftRequest struct {
	RecurrenceDayID string `json:"recurrenceDayID" binding:"required,uuid"`
}

// WorkdayResponse defines the data returned for a claimed shift.
type WorkdayResponse struct {
	WorkdayID       string    `json:"workdayID"`
	RequisitionID   string    `json:"requisitionID"`
	RecurrenceDayID string    `json:"recurrenceDayID"`
	CandidateID     string    `json:"candidateID"`
	TimesheetID     string    `json:"timesheetID,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToWorkdayResponse converts a domain.Workday to its response DTO.
func ToWorkdayResponse(w *domain.Workday) WorkdayResponse {
	return WorkdayResponse{
		WorkdayID:       w.WorkdayID,
		RequisitionID:   w.RequisitionID,
		RecurrenceDayID: w.RecurrenceDayID,
		CandidateID:     w.CandidateID,
		TimesheetID:     w.TimesheetID,
		CreatedAt:       w.CreatedAt,
	}
}
