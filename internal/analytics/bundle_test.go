package analytics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	projects    []Project
	projectsErr error

	issued     []IssuedInvoice
	received   []ReceivedInvoice
	receipts   []Receipt
	notes      []ExpenseNote
	payroll    []PayrollAllocation
	clients    []Client
	employees  []Employee
	timesheets []TimesheetEntry

	issuedErr  error
	payrollErr error

	calls map[string]int
}

func (s *stubRepo) record(name string) {
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[name]++
}

func (s *stubRepo) Projects(ctx context.Context, arg ProjectsParams) ([]Project, error) {
	s.record("projects")
	return s.projects, s.projectsErr
}

func (s *stubRepo) IssuedInvoices(ctx context.Context, arg RangeParams) ([]IssuedInvoice, error) {
	s.record("issued")
	return s.issued, s.issuedErr
}

func (s *stubRepo) ReceivedInvoices(ctx context.Context, arg RangeParams) ([]ReceivedInvoice, error) {
	s.record("received")
	return s.received, nil
}

func (s *stubRepo) Receipts(ctx context.Context, arg RangeParams) ([]Receipt, error) {
	s.record("receipts")
	return s.receipts, nil
}

func (s *stubRepo) ExpenseNotes(ctx context.Context, arg RangeParams) ([]ExpenseNote, error) {
	s.record("notes")
	return s.notes, nil
}

func (s *stubRepo) PayrollAllocations(ctx context.Context, arg PayrollParams) ([]PayrollAllocation, error) {
	s.record("payroll")
	return s.payroll, s.payrollErr
}

func (s *stubRepo) Clients(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Client, error) {
	s.record("clients")
	return s.clients, nil
}

func (s *stubRepo) Employees(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Employee, error) {
	s.record("employees")
	return s.employees, nil
}

func (s *stubRepo) TimesheetEntries(ctx context.Context, arg TimesheetParams) ([]TimesheetEntry, error) {
	s.record("timesheets")
	return s.timesheets, nil
}

func testFilters() AnalyticsFilters {
	return AnalyticsFilters{
		DateFrom: day(2025, time.March, 1),
		DateTo:   day(2025, time.March, 31),
	}
}

func TestFetcherPrimaryFailureAborts(t *testing.T) {
	repo := &stubRepo{projectsErr: errors.New("boom")}
	fetcher := NewFetcher(repo, slog.Default())

	_, err := fetcher.Fetch(context.Background(), uuid.New(), testFilters())
	require.Error(t, err)
	require.Zero(t, repo.calls["issued"], "secondary fetches should not run after primary failure")
}

func TestFetcherEmptyProjectsShortCircuits(t *testing.T) {
	repo := &stubRepo{}
	fetcher := NewFetcher(repo, slog.Default())

	bundle, err := fetcher.Fetch(context.Background(), uuid.New(), testFilters())
	require.NoError(t, err)
	require.Empty(t, bundle.Projects)
	require.NotNil(t, bundle.IssuedInvoices)
	require.Zero(t, repo.calls["issued"])
}

func TestFetcherSecondaryFailureDegrades(t *testing.T) {
	projectID := uuid.New()
	repo := &stubRepo{
		projects:  []Project{{ID: projectID, Status: ProjectInProgress}},
		issuedErr: errors.New("table offline"),
		received:  []ReceivedInvoice{{ID: uuid.New(), IssueDate: day(2025, time.March, 3), Total: 10}},
	}
	fetcher := NewFetcher(repo, slog.Default())

	bundle, err := fetcher.Fetch(context.Background(), uuid.New(), testFilters())
	require.NoError(t, err, "secondary failure must not abort the fetch")
	require.Empty(t, bundle.IssuedInvoices)
	require.Len(t, bundle.ReceivedInvoices, 1)
}

func TestPgErrorCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	require.Equal(t, "42P01", pgErrorCode(fmt.Errorf("analytics: query scontrini: %w", pgErr)))
	require.Equal(t, "", pgErrorCode(errors.New("table offline")))
	require.Equal(t, "", pgErrorCode(nil))
}

func TestFetcherDegradeLogsSQLState(t *testing.T) {
	projectID := uuid.New()
	repo := &stubRepo{
		projects:  []Project{{ID: projectID, Status: ProjectInProgress}},
		issuedErr: &pgconn.PgError{Code: "42P01", Message: "relation does not exist"},
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	fetcher := NewFetcher(repo, logger)

	_, err := fetcher.Fetch(context.Background(), uuid.New(), testFilters())
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"sqlstate":"42P01"`)
	require.Contains(t, buf.String(), `"collection":"fatture_attive"`)
}

func TestFetcherPayrollMonthOverlap(t *testing.T) {
	projectID := uuid.New()
	repo := &stubRepo{
		projects: []Project{{ID: projectID, Status: ProjectInProgress}},
		payroll: []PayrollAllocation{
			{ID: uuid.New(), Month: 2, Year: 2025, Amount: 100},
			{ID: uuid.New(), Month: 3, Year: 2025, Amount: 200},
			{ID: uuid.New(), Month: 4, Year: 2025, Amount: 300},
		},
	}
	fetcher := NewFetcher(repo, slog.Default())

	// The window covers only part of march and april; both full months count.
	filters := AnalyticsFilters{
		DateFrom: day(2025, time.March, 15),
		DateTo:   day(2025, time.April, 10),
	}
	bundle, err := fetcher.Fetch(context.Background(), uuid.New(), filters)
	require.NoError(t, err)
	require.Len(t, bundle.PayrollAllocations, 2)
	require.Equal(t, 3, bundle.PayrollAllocations[0].Month)
	require.Equal(t, 4, bundle.PayrollAllocations[1].Month)
}

func TestFetcherResolvesEmployeesFromTimesheets(t *testing.T) {
	projectID := uuid.New()
	employeeID := uuid.New()
	repo := &stubRepo{
		projects: []Project{{ID: projectID, Status: ProjectInProgress}},
		timesheets: []TimesheetEntry{
			{ID: uuid.New(), EmployeeID: uuidPtr(employeeID), Date: day(2025, time.March, 5), HoursWorked: 8},
		},
		employees: []Employee{{ID: employeeID, FirstName: "Anna", LastName: "Russo"}},
	}
	fetcher := NewFetcher(repo, slog.Default())

	bundle, err := fetcher.Fetch(context.Background(), uuid.New(), testFilters())
	require.NoError(t, err)
	require.Len(t, bundle.Employees, 1)
	require.Equal(t, 1, repo.calls["employees"])
}
