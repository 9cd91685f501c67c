package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/middleware"
)

// settlementHandler handles approval, invoicing and fee configuration.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// newSettlementHandler creates a new settlementHandler.
func newSettlementHandler(settlementService portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: settlementService}
}

// approveTimesheet godoc
// @Summary Approve a timesheet and settle it
// @Description Transitions the sheet to APPROVED, creates the external invoice and returns the local invoice
// @Tags settlement
// @Accept  json
// @Produce  json
// @Param   timesheetID path string true "Timesheet ID"
// @Param   approval body dto.ApproveTimesheetRequest false "Approval options"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} map[string]string "Sheet not approvable"
// @Failure 422 {object} map[string]string "Client billing not configured"
// @Failure 502 {object} map[string]string "Billing provider unavailable"
// @Router /timesheets/{timesheetID}/approve [post]
func (h *settlementHandler) approveTimesheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// The body is optional; an absent body means a plain approval.
	var req dto.ApproveTimesheetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.settlementService.ApproveTimesheet(c.Request.Context(), c.Param("timesheetID"), approverID, req.OverrideDiscrepancies)
	if err != nil {
		respondError(c, err, "Failed to approve timesheet")
		return
	}

	logger.Info("Timesheet approved", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// rejectTimesheet godoc
// @Summary Reject a timesheet
// @Tags settlement
// @Accept  json
// @Produce  json
// @Param   timesheetID path string true "Timesheet ID"
// @Param   review body dto.ReviewTimesheetRequest false "Reviewer note"
// @Success 204 "Rejected"
// @Router /timesheets/{timesheetID}/reject [post]
func (h *settlementHandler) rejectTimesheet(c *gin.Context) {
	h.review(c, h.settlementService.RejectTimesheet, "Failed to reject timesheet")
}

// voidTimesheet godoc
// @Summary Void a timesheet
// @Tags settlement
// @Accept  json
// @Produce  json
// @Param   timesheetID path string true "Timesheet ID"
// @Param   review body dto.ReviewTimesheetRequest false "Reviewer note"
// @Success 204 "Voided"
// @Router /timesheets/{timesheetID}/void [post]
func (h *settlementHandler) voidTimesheet(c *gin.Context) {
	h.review(c, h.settlementService.VoidTimesheet, "Failed to void timesheet")
}

// revertTimesheet godoc
// @Summary Revert a timesheet to PENDING
// @Tags settlement
// @Accept  json
// @Produce  json
// @Param   timesheetID path string true "Timesheet ID"
// @Param   review body dto.ReviewTimesheetRequest false "Reviewer note"
// @Success 204 "Reverted"
// @Router /timesheets/{timesheetID}/revert [post]
func (h *settlementHandler) revertTimesheet(c *gin.Context) {
	h.review(c, h.settlementService.RevertTimesheetToPending, "Failed to revert timesheet")
}

// review runs the shared bind/identity plumbing for the note-carrying
// reviewer actions.
func (h *settlementHandler) review(c *gin.Context, action func(ctx context.Context, timesheetID, actorID, note string) error, logMsg string) {
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

	if err := action(c.Request.Context(), c.Param("timesheetID"), actorID, req.Note); err != nil {
		respondError(c, err, logMsg)
		return
	}
	c.Status(http.StatusNoContent)
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Router /invoices/{invoiceID} [get]
func (h *settlementHandler) getInvoice(c *gin.Context) {
	invoice, err := h.settlementService.GetInvoiceByID(c.Request.Context(), c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listClientInvoices godoc
// @Summary List a client's invoices
// @Tags invoices
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListInvoicesResponse
// @Router /clients/{clientID}/invoices [get]
func (h *settlementHandler) listClientInvoices(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	invoices, nextToken, err := h.settlementService.ListInvoicesByClient(c.Request.Context(), c.Param("clientID"), params)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ListInvoicesResponse{
		Invoices:  dto.ToInvoiceResponses(invoices),
		NextToken: nextToken,
	})
}

// getFeeConfig godoc
// @Summary Get the platform fee configuration
// @Tags fee-config
// @Produce  json
// @Success 200 {object} dto.FeeConfigResponse
// @Router /fee-config [get]
func (h *settlementHandler) getFeeConfig(c *gin.Context) {
	cfg, err := h.settlementService.GetFeeConfig(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve fee config")
		return
	}
	c.JSON(http.StatusOK, dto.ToFeeConfigResponse(cfg))
}

// updateFeeConfig godoc
// @Summary Update the platform fee configuration
// @Tags fee-config
// @Accept  json
// @Produce  json
// @Param   config body dto.UpdateFeeConfigRequest true "Fee configuration"
// @Success 200 {object} dto.FeeConfigResponse
// @Failure 400 {object} map[string]string "Invalid fee amount"
// @Router /fee-config [put]
func (h *settlementHandler) updateFeeConfig(c *gin.Context) {
	var req dto.UpdateFeeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cfg, err := h.settlementService.UpdateFeeConfig(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to update fee config")
		return
	}
	c.JSON(http.StatusOK, dto.ToFeeConfigResponse(cfg))
}
