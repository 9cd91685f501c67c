package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/shiftbridge/staffing_app/cmd/docs"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/middleware"
	"github.com/shiftbridge/staffing_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/", GetHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
	registerJobRoutes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerRequisitionRoutes(v1, services.Requisition, services.Scheduling)
	registerWorkdayRoutes(v1, services.Claim)
	registerTimesheetRoutes(v1, services.Timesheet, services.Settlement)
	registerInvoiceRoutes(v1, services.Settlement)
}

func registerRequisitionRoutes(v1 *gin.RouterGroup, requisitionSvc portssvc.RequisitionSvcFacade, schedulingSvc portssvc.SchedulingSvcFacade) {
	requisitionHandler := newRequisitionHandler(requisitionSvc)
	dayHandler := newRecurrenceDayHandler(schedulingSvc)

	// Scheduling is a client-side concern; candidates only read.
	manage := middleware.RequireRole(domain.RoleClient, domain.RoleStaff, domain.RoleAdmin)

	requisitions := v1.Group("/requisitions")
	{
		requisitions.POST("", manage, requisitionHandler.createRequisition)
		requisitions.GET("", requisitionHandler.listRequisitions)
		requisitions.GET("/:requisitionID", requisitionHandler.getRequisition)
		requisitions.PUT("/:requisitionID", manage, requisitionHandler.updateRequisition)
		requisitions.POST("/:requisitionID/open", manage, requisitionHandler.openRequisition)
		requisitions.DELETE("/:requisitionID", manage, requisitionHandler.archiveRequisition)

		requisitions.POST("/:requisitionID/days", manage, dayHandler.createRecurrenceDays)
		requisitions.GET("/:requisitionID/days", dayHandler.listRecurrenceDays)
	}

	days := v1.Group("/days")
	{
		days.PUT("/:recurrenceDayID", manage, dayHandler.updateRecurrenceDay)
		days.DELETE("/:recurrenceDayID", manage, dayHandler.deleteRecurrenceDay)
	}
}

func registerWorkdayRoutes(v1 *gin.RouterGroup, claimSvc portssvc.ClaimSvcFacade) {
	workdayHandler := newWorkdayHandler(claimSvc)

	workdays := v1.Group("/workdays")
	{
		workdays.POST("/claim", middleware.RequireRole(domain.RoleCandidate), workdayHandler.claimShift)
		// Cancel is open to the claiming candidate and to staff; the service
		// enforces ownership.
		workdays.DELETE("/:workdayID", workdayHandler.cancelShift)
	}
}

func registerTimesheetRoutes(v1 *gin.RouterGroup, timesheetSvc portssvc.TimesheetSvcFacade, settlementSvc portssvc.SettlementSvcFacade) {
	timesheetHandler := newTimesheetHandler(timesheetSvc)
	settlementHandler := newSettlementHandler(settlementSvc)

	review := middleware.RequireRole(domain.RoleStaff, domain.RoleAdmin)

	v1.POST("/workdays/:workdayID/timesheet", middleware.RequireRole(domain.RoleCandidate), timesheetHandler.submitTimesheet)

	timesheets := v1.Group("/timesheets")
	{
		timesheets.GET("", review, timesheetHandler.listTimesheets)
		timesheets.GET("/:timesheetID", timesheetHandler.getTimesheet)
		timesheets.GET("/:timesheetID/audit", review, timesheetHandler.getAuditTrail)
		timesheets.POST("/:timesheetID/validate", review, timesheetHandler.validateTimesheet)
		timesheets.POST("/:timesheetID/discrepancy", review, timesheetHandler.markDiscrepancy)

		timesheets.POST("/:timesheetID/approve", review, settlementHandler.approveTimesheet)
		timesheets.POST("/:timesheetID/reject", review, settlementHandler.rejectTimesheet)
		timesheets.POST("/:timesheetID/void", review, settlementHandler.voidTimesheet)
		timesheets.POST("/:timesheetID/revert", review, settlementHandler.revertTimesheet)
	}
}

func registerInvoiceRoutes(v1 *gin.RouterGroup, settlementSvc portssvc.SettlementSvcFacade) {
	settlementHandler := newSettlementHandler(settlementSvc)

	billingRead := middleware.RequireRole(domain.RoleClient, domain.RoleStaff, domain.RoleAdmin)

	v1.GET("/invoices/:invoiceID", billingRead, settlementHandler.getInvoice)
	v1.GET("/clients/:clientID/invoices", billingRead, settlementHandler.listClientInvoices)

	feeConfig := v1.Group("/fee-config")
	{
		feeConfig.GET("", middleware.RequireRole(domain.RoleStaff, domain.RoleAdmin), settlementHandler.getFeeConfig)
		feeConfig.PUT("", middleware.RequireRole(domain.RoleAdmin), settlementHandler.updateFeeConfig)
	}
}

// registerJobRoutes wires the scheduler-triggered batch endpoints. These sit
// outside /api/v1 because the caller is a machine, not a user.
func registerJobRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	jobs := r.Group("/jobs", middleware.SchedulerSignature(cfg.SchedulerSecret))
	jobsHandler := newJobsHandler(services.Requisition)
	jobs.POST("/requisition-aging", jobsHandler.runRequisitionAging)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
