package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portsrepo "github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
)

// Shared hand-written mocks for the repository and collaborator interfaces.
// Each service suite wires only those it needs.

// MockRequisitionRepository is a mock type for the RequisitionRepositoryFacade interface
type MockRequisitionRepository struct {
	mock.Mock
}

func (m *MockRequisitionRepository) FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) ListRequisitions(ctx context.Context, limit int, nextToken *string) ([]domain.Requisition, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Requisition), token, args.Error(2)
}

func (m *MockRequisitionRepository) ListAgingCandidates(ctx context.Context) ([]portsrepo.RequisitionAging, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.RequisitionAging), args.Error(1)
}

func (m *MockRequisitionRepository) SaveRequisition(ctx context.Context, requisition domain.Requisition) error {
	args := m.Called(ctx, requisition)
	return args.Error(0)
}

func (m *MockRequisitionRepository) UpdateRequisition(ctx context.Context, requisition domain.Requisition) error {
	args := m.Called(ctx, requisition)
	return args.Error(0)
}

func (m *MockRequisitionRepository) UpdateRequisitionStatus(ctx context.Context, requisitionID string, status domain.RequisitionStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, requisitionID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockRequisitionRepository) ArchiveRequisition(ctx context.Context, requisitionID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, requisitionID, updatedBy, updatedAt)
	return args.Error(0)
}

// MockRecurrenceDayRepository is a mock type for the RecurrenceDayRepositoryFacade interface
type MockRecurrenceDayRepository struct {
	mock.Mock
}

func (m *MockRecurrenceDayRepository) FindRecurrenceDayByID(ctx context.Context, recurrenceDayID string) (*domain.RecurrenceDay, error) {
	args := m.Called(ctx, recurrenceDayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurrenceDay), args.Error(1)
}

func (m *MockRecurrenceDayRepository) ListRecurrenceDaysByRequisition(ctx context.Context, requisitionID string) ([]domain.RecurrenceDay, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurrenceDay), args.Error(1)
}

func (m *MockRecurrenceDayRepository) ListRecurrenceDaysInWeek(ctx context.Context, requisitionID string, weekBegin time.Time) ([]domain.RecurrenceDay, error) {
	args := m.Called(ctx, requisitionID, weekBegin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurrenceDay), args.Error(1)
}

func (m *MockRecurrenceDayRepository) SaveRecurrenceDays(ctx context.Context, days []domain.RecurrenceDay) error {
	args := m.Called(ctx, days)
	return args.Error(0)
}

func (m *MockRecurrenceDayRepository) UpdateRecurrenceDay(ctx context.Context, day domain.RecurrenceDay) error {
	args := m.Called(ctx, day)
	return args.Error(0)
}

func (m *MockRecurrenceDayRepository) UpdateRecurrenceDayStatus(ctx context.Context, recurrenceDayID string, status domain.RecurrenceDayStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, recurrenceDayID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockRecurrenceDayRepository) DeleteRecurrenceDay(ctx context.Context, recurrenceDayID string, force bool) error {
	args := m.Called(ctx, recurrenceDayID, force)
	return args.Error(0)
}

// MockWorkdayRepository is a mock type for the WorkdayRepositoryFacade interface
type MockWorkdayRepository struct {
	mock.Mock
}

func (m *MockWorkdayRepository) FindWorkdayByID(ctx context.Context, workdayID string) (*domain.Workday, error) {
	args := m.Called(ctx, workdayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workday), args.Error(1)
}

func (m *MockWorkdayRepository) FindWorkdayByRecurrenceDay(ctx context.Context, recurrenceDayID string) (*domain.Workday, error) {
	args := m.Called(ctx, recurrenceDayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workday), args.Error(1)
}

func (m *MockWorkdayRepository) ListWorkdaysForWeek(ctx context.Context, candidateID, requisitionID string, weekBegin time.Time) ([]domain.Workday, error) {
	args := m.Called(ctx, candidateID, requisitionID, weekBegin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workday), args.Error(1)
}

func (m *MockWorkdayRepository) CreateClaim(ctx context.Context, workday domain.Workday, draft *domain.Timesheet) error {
	args := m.Called(ctx, workday, draft)
	return args.Error(0)
}

func (m *MockWorkdayRepository) DeleteClaim(ctx context.Context, workdayID string) error {
	args := m.Called(ctx, workdayID)
	return args.Error(0)
}

// MockTimesheetRepository is a mock type for the TimesheetRepositoryFacade interface
type MockTimesheetRepository struct {
	mock.Mock
}

func (m *MockTimesheetRepository) FindTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error) {
	args := m.Called(ctx, timesheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Timesheet), args.Error(1)
}

func (m *MockTimesheetRepository) FindTimesheetForWeek(ctx context.Context, candidateID, requisitionID string, weekBegin time.Time) (*domain.Timesheet, error) {
	args := m.Called(ctx, candidateID, requisitionID, weekBegin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Timesheet), args.Error(1)
}

func (m *MockTimesheetRepository) ListTimesheetsByStatus(ctx context.Context, status domain.TimesheetStatus, limit int, nextToken *string) ([]domain.Timesheet, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Timesheet), token, args.Error(2)
}

func (m *MockTimesheetRepository) ListAuditTrail(ctx context.Context, timesheetID string) ([]domain.TimesheetAudit, error) {
	args := m.Called(ctx, timesheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimesheetAudit), args.Error(1)
}

func (m *MockTimesheetRepository) SaveTimesheet(ctx context.Context, sheet domain.Timesheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

func (m *MockTimesheetRepository) UpdateTimesheetSubmission(ctx context.Context, sheet domain.Timesheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

func (m *MockTimesheetRepository) TransitionTimesheetStatus(ctx context.Context, timesheetID string, from, to domain.TimesheetStatus, actorID, note string, at time.Time) error {
	args := m.Called(ctx, timesheetID, from, to, actorID, note, at)
	return args.Error(0)
}

func (m *MockTimesheetRepository) UpdateTimesheetValidated(ctx context.Context, timesheetID string, validated bool, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, timesheetID, validated, updatedBy, updatedAt)
	return args.Error(0)
}

// MockInvoiceRepository is a mock type for the InvoiceRepositoryFacade interface
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByTimesheet(ctx context.Context, timesheetID string) (*domain.Invoice, error) {
	args := m.Called(ctx, timesheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, clientID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Invoice), token, args.Error(2)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, amountPaid, amountRemaining string, updatedBy string) error {
	args := m.Called(ctx, invoiceID, status, amountPaid, amountRemaining, updatedBy)
	return args.Error(0)
}

// MockFeeConfigRepository is a mock type for the FeeConfigRepositoryFacade interface
type MockFeeConfigRepository struct {
	mock.Mock
}

func (m *MockFeeConfigRepository) GetFeeConfig(ctx context.Context) (*domain.AdminFeeConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminFeeConfig), args.Error(1)
}

func (m *MockFeeConfigRepository) UpdateFeeConfig(ctx context.Context, cfg domain.AdminFeeConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// MockClientRepository is a mock type for the ClientRepositoryFacade interface
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClientBillingCustomer(ctx context.Context, clientID, billingCustomerID, updatedBy string) error {
	args := m.Called(ctx, clientID, billingCustomerID, updatedBy)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockBillingProvider is a mock type for the BillingProvider interface
type MockBillingProvider struct {
	mock.Mock
}

func (m *MockBillingProvider) CreateInvoice(ctx context.Context, customerHandle string, lineItems []portssvc.BillingLineItem, metadata map[string]string, dueDate *time.Time) (*portssvc.ExternalInvoice, error) {
	args := m.Called(ctx, customerHandle, lineItems, metadata, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.ExternalInvoice), args.Error(1)
}

func (m *MockBillingProvider) RetrieveCustomer(ctx context.Context, customerHandle string) (*portssvc.BillingCustomer, error) {
	args := m.Called(ctx, customerHandle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.BillingCustomer), args.Error(1)
}

// MockNotifier records notifications instead of delivering them.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, templateKey, recipient string, data map[string]any) {
	m.Called(ctx, templateKey, recipient, data)
}
