package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/middleware"
)

// timesheetHandler handles hour submission and reconciliation requests.
type timesheetHandler struct {
	timesheetService portssvc.TimesheetSvcFacade
}

// newTimesheetHandler creates a new timesheetHandler.
func newTimesheetHandler(timesheetService portssvc.TimesheetSvcFacade) *timesheetHandler {
	return &timesheetHandler{timesheetService: timesheetService}
}

// submitTimesheet godoc
// @Summary Submit a week of hours
// @Description Records the candidate's hours for the workday's week and moves the sheet to PENDING
// @Tags timesheets
// @Accept  json
// @Produce  json
// @Param   workdayID path string true "Workday ID"
// @Param   hours body dto.SubmitTimesheetRequest true "Reported hours"
// @Success 200 {object} dto.TimesheetResponse
// @Failure 409 {object} map[string]string "Week already submitted"
// @Router /workdays/{workdayID}/timesheet [post]
func (h *timesheetHandler) submitTimesheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SubmitTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for submitTimesheet", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sheet, err := h.timesheetService.SubmitTimesheet(c.Request.Context(), c.Param("workdayID"), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to submit timesheet")
		return
	}

	logger.Info("Timesheet submitted", slog.String("timesheet_id", sheet.TimesheetID))
	c.JSON(http.StatusOK, dto.ToTimesheetResponse(sheet))
}

// getTimesheet godoc
// @Summary Get a timesheet
// @Tags timesheets
// @Produce  json
// @Param   timesheetID path string true "Timesheet ID"
// @Success 200 {object} dto.TimesheetResponse
// @Failure 404 {object} map[string]string "Timesheet not found"
// @Router /timesheets/{timesheetID} [get]
func (h *timesheetHandler) getTimesheet(c *gin.Context) {
	sheet, err := h.timesheetService.GetTimesheetByID(c.Request.Context(), c.Param("timesheetID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve timesheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimesheetResponse(sheet))
}

// listTimesheets godoc
// @Summary List timesheets by status
// @Tags timesheets
// @Produce  json
// @Param   status query string true "Timesheet status" Enums(DRAFT, PENDING, APPROVED, DISCREPANCY, REJECTED, VOID)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTimesheetsResponse
// @Router /timesheets [get]
func (h *timesheetHandler) listTimesheets(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}
	status := domain.TimesheetStatus(c.DefaultQuery("status", string(domain.TimesheetPending)))

	sheets, nextToken, err := h.timesheetService.ListTimesheets(c.Request.Context(), status, params)
	if err != nil {
		respondError(c, err, "Failed to list timesheets")
		return
	}
	c.JSON(http.StatusOK, dto.ListTimesheetsResponse{
		Timesheets: dto.ToTimesheetResponses(sheets),
		NextToken:  nextToken,
	})
}

// validateTimesheet godoc
// @Summary Reconcile a timesheet against its schedule
// @Description Returns the discrepancy list; an empty list marks the sheet validated
// @Tags timesheets
// @Produce  json
// @Param   timesheetID path string true "Timesheet ID"
// @Success 200 {object} dto.ValidateTimesheetResponse
// @Failure 409 {object} map[string]string "No hours submitted yet"
// @Router /timesheets/{timesheetID}/validate [post]
func (h *timesheetHandler) validateTimesheet(c *gin.Context) {
	timesheetID := c.Param("timesheetID")
	discrepancies, err := h.timesheetService.ValidateTimesheet(c.Request.Context(), timesheetID)
	if err != nil {
		respondError(c, err, "Failed to validate timesheet")
		return
	}
	if discrepancies == nil {
		discrepancies = []domain.Discrepancy{}
	}
	c.JSON(http.StatusOK, dto.ValidateTimesheetResponse{
		TimesheetID:   timesheetID,
		Discrepancies: discrepancies,
		Clean:         len(discrepancies) == 0,
	})
}

// markDiscrepancy godoc
// @Summary Park a timesheet in DISCREPANCY
// @Tags timesheets
// @Accept  json
// @Produce  json
// @Param   timesheetID path string true "Timesheet ID"
// @Param   review body dto.ReviewTimesheetRequest false "Reviewer note"
// @Success 204 "Marked"
// @Failure 409 {object} map[string]string "Timesheet is not pending"
// @Router /timesheets/{timesheetID}/discrepancy [post]
func (h *timesheetHandler) markDiscrepancy(c *gin.Context) {
	var req dto.ReviewTimesheetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.timesheetService.MarkDiscrepancy(c.Request.Context(), c.Param("timesheetID"), actorID, req.Note); err != nil {
		respondError(c, err, "Failed to mark discrepancy")
		return
	}
	c.Status(http.StatusNoContent)
}

// getAuditTrail godoc
// @Summary Get a timesheet's status history
// @Tags timesheets
// @Produce  json
// @Param   timesheetID path string true "Timesheet ID"
// @Success 200 {array} domain.TimesheetAudit
// @Failure 404 {object} map[string]string "Timesheet not found"
// @Router /timesheets/{timesheetID}/audit [get]
func (h *timesheetHandler) getAuditTrail(c *gin.Context) {
	audits, err := h.timesheetService.GetAuditTrail(c.Request.Context(), c.Param("timesheetID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve audit trail")
		return
	}
	c.JSON(http.StatusOK, audits)
}
