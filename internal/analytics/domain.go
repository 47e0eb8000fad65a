// Package analytics derives financial KPIs, time series, forecasts and an
// actionable alert feed from a tenant's raw transactional records.
//
// The package never persists anything: one call reads a point-in-time
// snapshot of the records, runs a set of independent pure calculators over
// it and assembles a single aggregate result. All record collections are
// owned and mutated elsewhere; foreign keys may be missing and every
// calculator degrades to zeros instead of failing.
package analytics

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus enumerates the lifecycle states of a commessa.
type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "da_iniziare"
	ProjectInProgress ProjectStatus = "in_corso"
	ProjectCompleted  ProjectStatus = "completata"
	ProjectArchived   ProjectStatus = "archiviata"
)

// InvoiceStatus enumerates invoice payment states.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "da_pagare"
	InvoicePaid    InvoiceStatus = "pagata"
	InvoiceVoid    InvoiceStatus = "annullata"
)

// Project is a commessa: the cost-and-revenue-bearing job order.
type Project struct {
	ID              uuid.UUID
	Title           string
	ClientID        *uuid.UUID
	PlannedBudget   *float64
	ContractAmount  *float64
	StartDate       *time.Time
	ExpectedEndDate *time.Time
	Status          ProjectStatus
}

// Active reports whether the project still accrues work.
func (p Project) Active() bool {
	return p.Status != ProjectCompleted && p.Status != ProjectArchived
}

// IssuedInvoice is a fattura attiva: revenue owed by a client.
type IssuedInvoice struct {
	ID        uuid.UUID
	ProjectID *uuid.UUID
	ClientID  *uuid.UUID
	IssueDate time.Time
	DueDate   *time.Time
	PaidDate  *time.Time
	Taxable   float64
	Tax       float64
	Total     float64
	Status    InvoiceStatus
}

// ReceivedInvoice is a fattura passiva: a cost owed to a supplier.
type ReceivedInvoice struct {
	ID        uuid.UUID
	ProjectID *uuid.UUID
	IssueDate time.Time
	DueDate   *time.Time
	PaidDate  *time.Time
	Taxable   float64
	Tax       float64
	Total     float64
	Status    InvoiceStatus
}

// Receipt is a scontrino: a small cost with a free-text category label.
type Receipt struct {
	ID        uuid.UUID
	ProjectID *uuid.UUID
	IssueDate time.Time
	Total     float64
	Category  string
}

// ExpenseNote is an approved nota spesa, treated as pure cost.
type ExpenseNote struct {
	ID        uuid.UUID
	ProjectID *uuid.UUID
	Date      time.Time
	Amount    float64
}

// PayrollAllocation is the share of one payslip charged to a project.
// The source table is keyed by (month, year), not by a continuous date.
type PayrollAllocation struct {
	ID        uuid.UUID
	ProjectID *uuid.UUID
	Month     int
	Year      int
	Amount    float64
	Hours     float64
}

// Client identifies an invoiced counterparty.
type Client struct {
	ID           uuid.UUID
	RegisteredAs string
}

// Employee identifies a timesheet owner.
type Employee struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

// TimesheetEntry is a rapportino: one employee-day on a project.
type TimesheetEntry struct {
	ID           uuid.UUID
	EmployeeID   *uuid.UUID
	ProjectID    *uuid.UUID
	Date         time.Time
	HoursWorked  float64
	BreakMinutes float64
}

// AnalyticsFilters scopes one analytics computation.
type AnalyticsFilters struct {
	DateFrom   time.Time
	DateTo     time.Time
	ClientID   *uuid.UUID
	ProjectID  *uuid.UUID
	EmployeeID *uuid.UUID
}

// RawBundle is the immutable snapshot every calculator reads from.
type RawBundle struct {
	Projects           []Project
	IssuedInvoices     []IssuedInvoice
	ReceivedInvoices   []ReceivedInvoice
	Receipts           []Receipt
	ExpenseNotes       []ExpenseNote
	PayrollAllocations []PayrollAllocation
	Clients            []Client
	Employees          []Employee
	TimesheetEntries   []TimesheetEntry
}
