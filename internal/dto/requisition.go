package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// CreateRequisitionRequest defines the payload for posting a staffing need.
type CreateRequisitionRequest struct {
	ClientID          string          `json:"clientID" binding:"required,uuid"`
	Title             string          `json:"title" binding:"required"`
	Location          string          `json:"location" binding:"required"`
	Discipline        string          `json:"discipline" binding:"required"`
	ExperienceLevel   string          `json:"experienceLevel" binding:"omitempty"`
	HourlyRate        decimal.Decimal `json:"hourlyRate" binding:"required"`
	PermanentPosition bool            `json:"permanentPosition"`
	ReferenceTimezone string          `json:"referenceTimezone" binding:"required,timezone"`
}

// UpdateRequisitionRequest defines the mutable fields of a requisition.
// Pointer fields distinguish "leave unchanged" from explicit values.
type UpdateRequisitionRequest struct {
	Title           *string          `json:"title,omitempty"`
	Location        *string          `json:"location,omitempty"`
	ExperienceLevel *string          `json:"experienceLevel,omitempty"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate,omitempty"`
}

// RequisitionResponse defines the data returned for a requisition.
type RequisitionResponse struct {
	RequisitionID     string          `json:"requisitionID"`
	ClientID          string          `json:"clientID"`
	Title             string          `json:"title"`
	Location          string          `json:"location"`
	Discipline        string          `json:"discipline"`
	ExperienceLevel   string          `json:"experienceLevel"`
	HourlyRate        decimal.Decimal `json:"hourlyRate"`
	PermanentPosition bool            `json:"permanentPosition"`
	ReferenceTimezone string          `json:"referenceTimezone"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ListRequisitionsResponse is the paginated list envelope.
type ListRequisitionsResponse struct {
	Requisitions []RequisitionResponse `json:"requisitions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToRequisitionResponse converts a domain.Requisition to its response DTO.
func ToRequisitionResponse(r *domain.Requisition) RequisitionResponse {
	return RequisitionResponse{
		RequisitionID:     r.RequisitionID,
		ClientID:          r.ClientID,
		Title:             r.Title,
		Location:          r.Location,
		Discipline:        r.Discipline,
		ExperienceLevel:   r.ExperienceLevel,
		HourlyRate:        r.HourlyRate,
		PermanentPosition: r.PermanentPosition,
		ReferenceTimezone: r.ReferenceTimezone,
		Status:            string(r.Status),
		CreatedAt:         r.CreatedAt,
	}
}

// ToRequisitionResponses converts a slice of requisitions.
func ToRequisitionResponses(rs []domain.Requisition) []RequisitionResponse {
	responses := make([]RequisitionResponse, len(rs))
	for i := range rs {
		responses[i] = ToRequisitionResponse(&rs[i])
	}
	return responses
}
