package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Fetcher loads the raw record snapshot a computation runs over.
//
// The project query is authoritative: if it fails the whole fetch fails, and
// if it matches nothing the bundle is empty. Every secondary collection
// degrades to an empty slice on error so that one broken table never takes
// the whole report down.
type Fetcher struct {
	repo   Repository
	logger *slog.Logger
}

// NewFetcher constructs a Fetcher.
func NewFetcher(repo Repository, logger *slog.Logger) *Fetcher {
	return &Fetcher{repo: repo, logger: logger}
}

// Fetch assembles the RawBundle for one tenant and filter set.
func (f *Fetcher) Fetch(ctx context.Context, tenantID uuid.UUID, filters AnalyticsFilters) (RawBundle, error) {
	projects, err := f.repo.Projects(ctx, ProjectsParams{
		TenantID:  tenantID,
		ClientID:  filters.ClientID,
		ProjectID: filters.ProjectID,
	})
	if err != nil {
		return RawBundle{}, fmt.Errorf("analytics: fetch projects: %w", err)
	}

	bundle := emptyBundle()
	bundle.Projects = projects
	if len(projects) == 0 {
		return bundle, nil
	}

	projectIDs := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}
	rangeArg := RangeParams{
		TenantID:   tenantID,
		ProjectIDs: projectIDs,
		From:       filters.DateFrom,
		To:         filters.DateTo,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := f.repo.IssuedInvoices(gctx, rangeArg)
		if err != nil {
			f.degrade("fatture_attive", err)
			return nil
		}
		bundle.IssuedInvoices = rows
		return nil
	})
	g.Go(func() error {
		rows, err := f.repo.ReceivedInvoices(gctx, rangeArg)
		if err != nil {
			f.degrade("fatture_passive", err)
			return nil
		}
		bundle.ReceivedInvoices = rows
		return nil
	})
	g.Go(func() error {
		rows, err := f.repo.Receipts(gctx, rangeArg)
		if err != nil {
			f.degrade("scontrini", err)
			return nil
		}
		bundle.Receipts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := f.repo.ExpenseNotes(gctx, rangeArg)
		if err != nil {
			f.degrade("note_spesa", err)
			return nil
		}
		bundle.ExpenseNotes = rows
		return nil
	})
	g.Go(func() error {
		rows, err := f.repo.PayrollAllocations(gctx, PayrollParams{
			TenantID:   tenantID,
			ProjectIDs: projectIDs,
			YearFrom:   filters.DateFrom.Year(),
			YearTo:     filters.DateTo.Year(),
		})
		if err != nil {
			f.degrade("buste_paga", err)
			return nil
		}
		bundle.PayrollAllocations = filterPayrollByRange(rows, filters.DateFrom, filters.DateTo)
		return nil
	})
	g.Go(func() error {
		rows, err := f.repo.TimesheetEntries(gctx, TimesheetParams{
			TenantID:   tenantID,
			From:       filters.DateFrom,
			To:         filters.DateTo,
			ProjectID:  filters.ProjectID,
			EmployeeID: filters.EmployeeID,
		})
		if err != nil {
			f.degrade("rapportini", err)
			return nil
		}
		bundle.TimesheetEntries = rows
		return nil
	})
	g.Go(func() error {
		ids := clientIDs(projects)
		rows, err := f.repo.Clients(gctx, tenantID, ids)
		if err != nil {
			f.degrade("clienti", err)
			return nil
		}
		bundle.Clients = rows
		return nil
	})

	// Goroutines swallow their own errors, so Wait only fails on ctx cancellation.
	if err := g.Wait(); err != nil {
		return RawBundle{}, err
	}

	// Employee names resolve from the timesheet rows, so this runs after the
	// fan-out completes.
	employees, err := f.repo.Employees(ctx, tenantID, employeeIDs(bundle.TimesheetEntries))
	if err != nil {
		f.degrade("dipendenti", err)
	} else {
		bundle.Employees = employees
	}

	return bundle, nil
}

func (f *Fetcher) degrade(collection string, err error) {
	if f.logger == nil {
		return
	}
	attrs := []any{
		slog.String("collection", collection),
		slog.Any("error", err),
	}
	if code := pgErrorCode(err); code != "" {
		attrs = append(attrs, slog.String("sqlstate", code))
	}
	f.logger.Warn("analytics fetch degraded", attrs...)
}

func emptyBundle() RawBundle {
	return RawBundle{
		Projects:           []Project{},
		IssuedInvoices:     []IssuedInvoice{},
		ReceivedInvoices:   []ReceivedInvoice{},
		Receipts:           []Receipt{},
		ExpenseNotes:       []ExpenseNote{},
		PayrollAllocations: []PayrollAllocation{},
		Clients:            []Client{},
		Employees:          []Employee{},
		TimesheetEntries:   []TimesheetEntry{},
	}
}

// filterPayrollByRange keeps allocations whose (month, year) overlaps the
// requested window. A payslip month counts in full even when the window only
// covers part of it.
func filterPayrollByRange(allocations []PayrollAllocation, from, to time.Time) []PayrollAllocation {
	months := monthsInRange(from, to)
	kept := make([]PayrollAllocation, 0, len(allocations))
	for _, alloc := range allocations {
		if _, ok := months[monthKey{year: alloc.Year, month: alloc.Month}]; ok {
			kept = append(kept, alloc)
		}
	}
	return kept
}

type monthKey struct {
	year  int
	month int
}

func monthsInRange(from, to time.Time) map[monthKey]struct{} {
	months := make(map[monthKey]struct{})
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		months[monthKey{year: cursor.Year(), month: int(cursor.Month())}] = struct{}{}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}

func clientIDs(projects []Project) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(projects))
	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		if p.ClientID == nil {
			continue
		}
		if _, ok := seen[*p.ClientID]; ok {
			continue
		}
		seen[*p.ClientID] = struct{}{}
		ids = append(ids, *p.ClientID)
	}
	return ids
}

func employeeIDs(entries []TimesheetEntry) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		if entry.EmployeeID == nil {
			continue
		}
		if _, ok := seen[*entry.EmployeeID]; ok {
			continue
		}
		seen[*entry.EmployeeID] = struct{}{}
		ids = append(ids, *entry.EmployeeID)
	}
	return ids
}
