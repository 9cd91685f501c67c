package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/middleware"
)

// jobsHandler exposes the time-driven batch jobs to the external scheduler.
// These routes carry no user identity; the scheduler-signature middleware is
// the only gate.
type jobsHandler struct {
	requisitionService portssvc.RequisitionSvcFacade
}

// newJobsHandler creates a new jobsHandler.
func newJobsHandler(requisitionService portssvc.RequisitionSvcFacade) *jobsHandler {
	return &jobsHandler{requisitionService: requisitionService}
}

// runRequisitionAging godoc
// @Summary Run the daily requisition close-out batch
// @Description Closes stale open requisitions as CANCELED or UNFULFILLED and reports counts
// @Tags jobs
// @Produce  json
// @Param   X-Scheduler-Signature header string true "Hex HMAC-SHA256 of the request body"
// @Success 200 {object} services.AgingSummary
// @Failure 401 {object} map[string]string "Bad signature"
// @Router /jobs/requisition-aging [post]
func (h *jobsHandler) runRequisitionAging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.requisitionService.CloseOutdatedRequisitions(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, err, "Requisition aging run failed")
		return
	}

	logger.Info("Requisition aging run finished",
		slog.Int("scanned", summary.Scanned),
		slog.Int("canceled", summary.Canceled),
		slog.Int("unfulfilled", summary.Unfulfilled),
		slog.Int("failed", summary.Failed))
	c.JSON(http.StatusOK, summary)
}
