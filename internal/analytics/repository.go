package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProjectsParams scopes the primary project query.
type ProjectsParams struct {
	TenantID  uuid.UUID
	ClientID  *uuid.UUID
	ProjectID *uuid.UUID
}

// RangeParams scopes a secondary fetch to a set of projects and a date range
// applied on the record's own date column.
type RangeParams struct {
	TenantID   uuid.UUID
	ProjectIDs []uuid.UUID
	From       time.Time
	To         time.Time
}

// TimesheetParams scopes the rapportini fetch.
type TimesheetParams struct {
	TenantID   uuid.UUID
	From       time.Time
	To         time.Time
	ProjectID  *uuid.UUID
	EmployeeID *uuid.UUID
}

// PayrollParams scopes payroll allocations by year membership; month-level
// filtering happens client-side because the table has no date column.
type PayrollParams struct {
	TenantID   uuid.UUID
	ProjectIDs []uuid.UUID
	YearFrom   int
	YearTo     int
}

// Repository exposes the tenant-scoped record sources the engine reads.
type Repository interface {
	Projects(ctx context.Context, arg ProjectsParams) ([]Project, error)
	IssuedInvoices(ctx context.Context, arg RangeParams) ([]IssuedInvoice, error)
	ReceivedInvoices(ctx context.Context, arg RangeParams) ([]ReceivedInvoice, error)
	Receipts(ctx context.Context, arg RangeParams) ([]Receipt, error)
	ExpenseNotes(ctx context.Context, arg RangeParams) ([]ExpenseNote, error)
	PayrollAllocations(ctx context.Context, arg PayrollParams) ([]PayrollAllocation, error)
	Clients(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Client, error)
	Employees(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Employee, error)
	TimesheetEntries(ctx context.Context, arg TimesheetParams) ([]TimesheetEntry, error)
}
