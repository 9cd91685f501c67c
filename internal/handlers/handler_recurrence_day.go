package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/middleware"
)

// recurrenceDayHandler handles HTTP requests for shift instances.
type recurrenceDayHandler struct {
	schedulingService portssvc.SchedulingSvcFacade
}

// newRecurrenceDayHandler creates a new recurrenceDayHandler.
func newRecurrenceDayHandler(schedulingService portssvc.SchedulingSvcFacade) *recurrenceDayHandler {
	return &recurrenceDayHandler{schedulingService: schedulingService}
}

// createRecurrenceDays godoc
// @Summary Bulk-create shift instances under a requisition
// @Description Wall-clock times are interpreted in the requisition's reference timezone
// @Tags recurrence-days
// @Accept  json
// @Produce  json
// @Param   requisitionID path string true "Requisition ID"
// @Param   days body dto.CreateRecurrenceDaysRequest true "Shift definitions"
// @Success 201 {array} dto.RecurrenceDayResponse
// @Failure 400 {object} map[string]string "Invalid shift window"
// @Router /requisitions/{requisitionID}/days [post]
func (h *recurrenceDayHandler) createRecurrenceDays(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRecurrenceDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createRecurrenceDays", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	days, err := h.schedulingService.CreateRecurrenceDays(c.Request.Context(), c.Param("requisitionID"), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create recurrence days")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecurrenceDayResponses(days))
}

// listRecurrenceDays godoc
// @Summary List a requisition's shift instances
// @Tags recurrence-days
// @Produce  json
// @Param   requisitionID path string true "Requisition ID"
// @Success 200 {array} dto.RecurrenceDayResponse
// @Failure 404 {object} map[string]string "Requisition not found"
// @Router /requisitions/{requisitionID}/days [get]
func (h *recurrenceDayHandler) listRecurrenceDays(c *gin.Context) {
	days, err := h.schedulingService.ListRecurrenceDays(c.Request.Context(), c.Param("requisitionID"))
	if err != nil {
		respondError(c, err, "Failed to list recurrence days")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurrenceDayResponses(days))
}

// updateRecurrenceDay godoc
// @Summary Edit an unclaimed shift instance
// @Tags recurrence-days
// @Accept  json
// @Produce  json
// @Param   recurrenceDayID path string true "Recurrence day ID"
// @Param   day body dto.UpdateRecurrenceDayRequest true "Fields to update"
// @Success 200 {object} dto.RecurrenceDayResponse
// @Failure 409 {object} map[string]string "Shift already claimed"
// @Router /days/{recurrenceDayID} [put]
func (h *recurrenceDayHandler) updateRecurrenceDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateRecurrenceDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateRecurrenceDay", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	day, err := h.schedulingService.UpdateRecurrenceDay(c.Request.Context(), c.Param("recurrenceDayID"), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to update recurrence day")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurrenceDayResponse(day))
}

// deleteRecurrenceDay godoc
// @Summary Delete a shift instance
// @Description A claimed shift requires force=true, which also cancels the claim
// @Tags recurrence-days
// @Produce  json
// @Param   recurrenceDayID path string true "Recurrence day ID"
// @Param   force query bool false "Cancel an existing claim as well" default(false)
// @Success 204 "Deleted"
// @Failure 409 {object} map[string]string "Shift is claimed and force not set"
// @Router /days/{recurrenceDayID} [delete]
func (h *recurrenceDayHandler) deleteRecurrenceDay(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	if err := h.schedulingService.DeleteRecurrenceDay(c.Request.Context(), c.Param("recurrenceDayID"), force, actorID); err != nil {
		respondError(c, err, "Failed to delete recurrence day")
		return
	}
	c.Status(http.StatusNoContent)
}
