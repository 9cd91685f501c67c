package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/middleware"
)

// requisitionHandler handles HTTP requests related to requisitions.
type requisitionHandler struct {
	requisitionService portssvc.RequisitionSvcFacade
}

// newRequisitionHandler creates a new requisitionHandler.
func newRequisitionHandler(requisitionService portssvc.RequisitionSvcFacade) *requisitionHandler {
	return &requisitionHandler{requisitionService: requisitionService}
}

// createRequisition godoc
// @Summary Create a requisition
// @Description Posts a new staffing need in PENDING status
// @Tags requisitions
// @Accept  json
// @Produce  json
// @Param   requisition body dto.CreateRequisitionRequest true "Requisition"
// @Success 201 {object} dto.RequisitionResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Client not found"
// @Router /requisitions [post]
func (h *requisitionHandler) createRequisition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createRequisition", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requisition, err := h.requisitionService.CreateRequisition(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create requisition")
		return
	}

	logger.Info("Requisition created", slog.String("requisition_id", requisition.RequisitionID))
	c.JSON(http.StatusCreated, dto.ToRequisitionResponse(requisition))
}

// getRequisition godoc
// @Summary Get a requisition
// @Tags requisitions
// @Produce  json
// @Param   requisitionID path string true "Requisition ID"
// @Success 200 {object} dto.RequisitionResponse
// @Failure 404 {object} map[string]string "Requisition not found"
// @Router /requisitions/{requisitionID} [get]
func (h *requisitionHandler) getRequisition(c *gin.Context) {
	requisition, err := h.requisitionService.GetRequisitionByID(c.Request.Context(), c.Param("requisitionID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve requisition")
		return
	}
	c.JSON(http.StatusOK, dto.ToRequisitionResponse(requisition))
}

// listRequisitions godoc
// @Summary List requisitions
// @Tags requisitions
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListRequisitionsResponse
// @Router /requisitions [get]
func (h *requisitionHandler) listRequisitions(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	requisitions, nextToken, err := h.requisitionService.ListRequisitions(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list requisitions")
		return
	}
	c.JSON(http.StatusOK, dto.ListRequisitionsResponse{
		Requisitions: dto.ToRequisitionResponses(requisitions),
		NextToken:    nextToken,
	})
}

// updateRequisition godoc
// @Summary Update a requisition
// @Tags requisitions
// @Accept  json
// @Produce  json
// @Param   requisitionID path string true "Requisition ID"
// @Param   requisition body dto.UpdateRequisitionRequest true "Fields to update"
// @Success 200 {object} dto.RequisitionResponse
// @Failure 404 {object} map[string]string "Requisition not found"
// @Router /requisitions/{requisitionID} [put]
func (h *requisitionHandler) updateRequisition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateRequisition", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requisition, err := h.requisitionService.UpdateRequisition(c.Request.Context(), c.Param("requisitionID"), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to update requisition")
		return
	}
	c.JSON(http.StatusOK, dto.ToRequisitionResponse(requisition))
}

// openRequisition godoc
// @Summary Publish a requisition to candidates
// @Description Transitions a PENDING requisition to OPEN
// @Tags requisitions
// @Produce  json
// @Param   requisitionID path string true "Requisition ID"
// @Success 204 "Opened"
// @Failure 409 {object} map[string]string "Requisition is not pending"
// @Router /requisitions/{requisitionID}/open [post]
func (h *requisitionHandler) openRequisition(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.requisitionService.OpenRequisition(c.Request.Context(), c.Param("requisitionID"), actorID); err != nil {
		respondError(c, err, "Failed to open requisition")
		return
	}
	c.Status(http.StatusNoContent)
}

// archiveRequisition godoc
// @Summary Archive a requisition
// @Tags requisitions
// @Produce  json
// @Param   requisitionID path string true "Requisition ID"
// @Success 204 "Archived"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Router /requisitions/{requisitionID} [delete]
func (h *requisitionHandler) archiveRequisition(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.requisitionService.ArchiveRequisition(c.Request.Context(), c.Param("requisitionID"), actorID); err != nil {
		respondError(c, err, "Failed to archive requisition")
		return
	}
	c.Status(http.StatusNoContent)
}
