package services

import (
	portsrepo "github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
)

// NewServiceContainer wires every application service from the repository
// provider and the external collaborators.
func NewServiceContainer(repos portsrepo.RepositoryProvider, billing portssvc.BillingProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Requisition: NewRequisitionService(repos.RequisitionRepo, repos.ClientRepo),
		Scheduling:  NewSchedulingService(repos.RequisitionRepo, repos.RecurrenceDayRepo, repos.WorkdayRepo),
		Claim:       NewClaimService(repos.RequisitionRepo, repos.RecurrenceDayRepo, repos.WorkdayRepo, repos.TimesheetRepo, repos.UserRepo, repos.ClientRepo, notifier),
		Timesheet:   NewTimesheetService(repos.TimesheetRepo, repos.WorkdayRepo, repos.RecurrenceDayRepo, repos.RequisitionRepo),
		Settlement:  NewSettlementService(repos.TimesheetRepo, repos.InvoiceRepo, repos.FeeConfigRepo, repos.RequisitionRepo, repos.ClientRepo, billing, notifier),
	}
}
