package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/middleware"
)

// workdayHandler handles claim and cancel requests for shifts.
type workdayHandler struct {
	claimService portssvc.ClaimSvcFacade
}

// newWorkdayHandler creates a new workdayHandler.
func newWorkdayHandler(claimService portssvc.ClaimSvcFacade) *workdayHandler {
	return &workdayHandler{claimService: claimService}
}

// claimShift godoc
// @Summary Claim an open shift
// @Description Atomically assigns the authenticated candidate to the shift and provisions the week's draft timesheet
// @Tags workdays
// @Accept  json
// @Produce  json
// @Param   claim body dto.ClaimShiftRequest true "Shift to claim"
// @Success 201 {object} dto.WorkdayResponse
// @Failure 403 {object} map[string]string "Discipline not held"
// @Failure 409 {object} map[string]string "Shift already claimed"
// @Router /workdays/claim [post]
func (h *workdayHandler) claimShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ClaimShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for claimShift", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	candidateID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	workday, err := h.claimService.ClaimShift(c.Request.Context(), candidateID, req.RecurrenceDayID)
	if err != nil {
		respondError(c, err, "Failed to claim shift")
		return
	}

	logger.Info("Shift claimed", slog.String("workday_id", workday.WorkdayID))
	c.JSON(http.StatusCreated, dto.ToWorkdayResponse(workday))
}

// cancelShift godoc
// @Summary Release a claimed shift
// @Description Deletes the workday and any still-draft timesheet, reopening the shift
// @Tags workdays
// @Produce  json
// @Param   workdayID path string true "Workday ID"
// @Success 204 "Canceled"
// @Failure 409 {object} map[string]string "Hours already submitted"
// @Router /workdays/{workdayID} [delete]
func (h *workdayHandler) cancelShift(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.claimService.CancelShift(c.Request.Context(), c.Param("workdayID"), actorID); err != nil {
		respondError(c, err, "Failed to cancel shift claim")
		return
	}
	c.Status(http.StatusNoContent)
}
