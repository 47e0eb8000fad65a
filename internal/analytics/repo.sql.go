package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository implements Repository over a pgx connection pool.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs the Postgres-backed record source.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

var errRepoNotInitialised = errors.New("analytics: repository not initialised")

// Projects returns the tenant's commesse, optionally narrowed to one client
// or one project. This is the primary query: its failure aborts the fetch.
func (r *PgRepository) Projects(ctx context.Context, arg ProjectsParams) ([]Project, error) {
	if r == nil || r.pool == nil {
		return nil, errRepoNotInitialised
	}
	const query = `
SELECT id, titolo, cliente_id, budget_preventivo, importo_commessa, data_inizio, data_fine_prevista, stato
FROM commesse
WHERE tenant_id = $1
  AND ($2::uuid IS NULL OR cliente_id = $2)
  AND ($3::uuid IS NULL OR id = $3)
ORDER BY titolo, id`
	rows, err := r.pool.Query(ctx, query, arg.TenantID, arg.ClientID, arg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("analytics: query commesse: %w", err)
	}
	defer rows.Close()

	projects := make([]Project, 0)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Title, &p.ClientID, &p.PlannedBudget, &p.ContractAmount, &p.StartDate, &p.ExpectedEndDate, &p.Status); err != nil {
			return nil, fmt.Errorf("analytics: scan commessa: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate commesse: %w", err)
	}
	return projects, nil
}

// IssuedInvoices returns fatture attive for the projects, ranged on issue date.
func (r *PgRepository) IssuedInvoices(ctx context.Context, arg RangeParams) ([]IssuedInvoice, error) {
	if r == nil || r.pool == nil {
		return nil, errRepoNotInitialised
	}
	const query = `
SELECT id, commessa_id, cliente_id, data_emissione, data_scadenza, data_pagamento,
       importo_imponibile, importo_iva, importo_totale, stato
FROM fatture_attive
WHERE tenant_id = $1
  AND commessa_id = ANY($2)
  AND data_emissione BETWEEN $3 AND $4
ORDER BY data_emissione, id`
	rows, err := r.pool.Query(ctx, query, arg.TenantID, arg.ProjectIDs, dateOnly(arg.From), dateOnly(arg.To))
	if err != nil {
		return nil, fmt.Errorf("analytics: query fatture attive: %w", err)
	}
	defer rows.Close()

	invoices := make([]IssuedInvoice, 0)
	for rows.Next() {
		var inv IssuedInvoice
		if err := rows.Scan(&inv.ID, &inv.ProjectID, &inv.ClientID, &inv.IssueDate, &inv.DueDate, &inv.PaidDate,
			&inv.Taxable, &inv.Tax, &inv.Total, &inv.Status); err != nil {
			return nil, fmt.Errorf("analytics: scan fattura attiva: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate fatture attive: %w", err)
	}
	return invoices, nil
}

// ReceivedInvoices returns fatture passive for the projects, ranged on issue date.
func (r *PgRepository) ReceivedInvoices(ctx context.Context, arg RangeParams) ([]ReceivedInvoice, error) {
	if r == nil || r.pool == nil {
		return nil, errRepoNotInitialised
	}
	const query = `
SELECT id, commessa_id, data_emissione, data_scadenza, data_pagamento,
       importo_imponibile, importo_iva, importo_totale, stato
FROM fatture_passive
WHERE tenant_id = $1
  AND commessa_id = ANY($2)
  AND data_emissione BETWEEN $3 AND $4
ORDER BY data_emissione, id`
	rows, err := r.pool.Query(ctx, query, arg.TenantID, arg.ProjectIDs, dateOnly(arg.From), dateOnly(arg.To))
	if err != nil {
		return nil, fmt.Errorf("analytics: query fatture passive: %w", err)
	}
	defer rows.Close()

	invoices := make([]ReceivedInvoice, 0)
	for rows.Next() {
		var inv ReceivedInvoice
		if err := rows.Scan(&inv.ID, &inv.ProjectID, &inv.IssueDate, &inv.DueDate, &inv.PaidDate,
			&inv.Taxable, &inv.Tax, &inv.Total, &inv.Status); err != nil {
			return nil, fmt.Errorf("analytics: scan fattura passiva: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate fatture passive: %w", err)
	}
	return invoices, nil
}

// Receipts returns scontrini for the projects, ranged on issue date.
func (r *PgRepository) Receipts(ctx context.Context, arg RangeParams) ([]Receipt, error) {
	if r == nil || r.pool == nil {
		return nil, errRepoNotInitialised
	}
	const query = `
SELECT id, commessa_id, data_emissione, importo_totale, COALESCE(categoria, '')
FROM scontrini
WHERE tenant_id = $1
  AND commessa_id = ANY($2)
  AND data_emissione BETWEEN $3 AND $4
ORDER BY data_emissione, id`
	rows, err := r.pool.Query(ctx, query, arg.TenantID, arg.ProjectIDs, dateOnly(arg.From), dateOnly(arg.To))
	if err != nil {
		return nil, fmt.Errorf("analytics: query scontrini: %w", err)
	}
	defer rows.Close()

	receipts := make([]Receipt, 0)
	for rows.Next() {
		var rec Receipt
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.IssueDate, &rec.Total, &rec.Category); err != nil {
			return nil, fmt.Errorf("analytics: scan scontrino: %w", err)
		}
		receipts = append(receipts, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate scontrini: %w", err)
	}
	return receipts, nil
}

// ExpenseNotes returns approved note spesa for the projects, ranged on note date.
func (r *PgRepository) ExpenseNotes(ctx context.Context, arg RangeParams) ([]ExpenseNote, error) {
	if r == nil || r.pool == nil {
		return nil, errRepoNotInitialised
	}
	const query = `
SELECT id, commessa_id, data_nota, importo
FROM note_spesa
WHERE tenant_id = $1
  AND commessa_id = ANY($2)
  AND stato = 'approvato'
  AND data_nota BETWEEN $3 AND $4
ORDER BY data_nota, id`
	rows, err := r.pool.Query(ctx, query, arg.TenantID, arg.ProjectIDs, dateOnly(arg.From), dateOnly(arg.To))
	if err != nil {
		return nil, fmt.Errorf("analytics: query note spesa: %w", err)
	}
	defer rows.Close()

	notes := make([]ExpenseNote, 0)
	for rows.Next() {
		var note ExpenseNote
		if err := rows.Scan(&note.ID, &note.ProjectID, &note.Date, &note.Amount); err != nil {
			return nil, fmt.Errorf("analytics: scan nota spesa: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate note spesa: %w", err)
	}
	return notes, nil
}

// PayrollAllocations returns per-project payslip shares. The payslip detail
// table is keyed by (mese, anno); the fetch narrows on year only and the
// caller filters months against the requested range.
func (r *PgRepository) PayrollAllocations(ctx context.Context, arg PayrollParams) ([]PayrollAllocation, error) {
	if r == nil || r.pool == nil {
		return nil, errRepoNotInitialised
	}
	const query = `
SELECT d.id, d.commessa_id, b.mese, b.anno, d.importo_commessa, d.ore_commessa
FROM dettaglio_buste_paga d
JOIN buste_paga b ON b.id = d.busta_paga_id
WHERE b.tenant_id = $1
  AND d.commessa_id = ANY($2)
  AND b.anno BETWEEN $3 AND $4
ORDER BY b.anno, b.mese, d.id`
	rows, err := r.pool.Query(ctx, query, arg.TenantID, arg.ProjectIDs, arg.YearFrom, arg.YearTo)
	if err != nil {
		return nil, fmt.Errorf("analytics: query buste paga: %w", err)
	}
	defer rows.Close()

	allocations := make([]PayrollAllocation, 0)
	for rows.Next() {
		var alloc PayrollAllocation
		if err := rows.Scan(&alloc.ID, &alloc.ProjectID, &alloc.Month, &alloc.Year, &alloc.Amount, &alloc.Hours); err != nil {
			return nil, fmt.Errorf("analytics: scan busta paga: %w", err)
		}
		allocations = append(allocations, alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate buste paga: %w", err)
	}
	return allocations, nil
}

// Clients resolves registered names for the given client ids.
func (r *PgRepository) Clients(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Client, error) {
	if r == nil || r.pool == nil {
		return nil, errRepoNotInitialised
	}
	if len(ids) == 0 {
		return []Client{}, nil
	}
	const query = `
SELECT id, ragione_sociale
FROM clienti
WHERE tenant_id = $1 AND id = ANY($2)
ORDER BY ragione_sociale, id`
	rows, err := r.pool.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("analytics: query clienti: %w", err)
	}
	defer rows.Close()

	clients := make([]Client, 0, len(ids))
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.RegisteredAs); err != nil {
			return nil, fmt.Errorf("analytics: scan cliente: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate clienti: %w", err)
	}
	return clients, nil
}

// Employees resolves names for the given employee ids.
func (r *PgRepository) Employees(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Employee, error) {
	if r == nil || r.pool == nil {
		return nil, errRepoNotInitialised
	}
	if len(ids) == 0 {
		return []Employee{}, nil
	}
	const query = `
SELECT id, nome, cognome
FROM dipendenti
WHERE tenant_id = $1 AND id = ANY($2)
ORDER BY cognome, nome, id`
	rows, err := r.pool.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("analytics: query dipendenti: %w", err)
	}
	defer rows.Close()

	employees := make([]Employee, 0, len(ids))
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName); err != nil {
			return nil, fmt.Errorf("analytics: scan dipendente: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate dipendenti: %w", err)
	}
	return employees, nil
}

// TimesheetEntries returns rapportini in range, optionally narrowed to one
// project or one employee.
func (r *PgRepository) TimesheetEntries(ctx context.Context, arg TimesheetParams) ([]TimesheetEntry, error) {
	if r == nil || r.pool == nil {
		return nil, errRepoNotInitialised
	}
	const query = `
SELECT id, dipendente_id, commessa_id, data_rapportino, ore_lavorate, COALESCE(tempo_pausa, 0)
FROM rapportini
WHERE tenant_id = $1
  AND data_rapportino BETWEEN $2 AND $3
  AND ($4::uuid IS NULL OR commessa_id = $4)
  AND ($5::uuid IS NULL OR dipendente_id = $5)
ORDER BY data_rapportino, id`
	rows, err := r.pool.Query(ctx, query, arg.TenantID, dateOnly(arg.From), dateOnly(arg.To), arg.ProjectID, arg.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("analytics: query rapportini: %w", err)
	}
	defer rows.Close()

	entries := make([]TimesheetEntry, 0)
	for rows.Next() {
		var entry TimesheetEntry
		if err := rows.Scan(&entry.ID, &entry.EmployeeID, &entry.ProjectID, &entry.Date, &entry.HoursWorked, &entry.BreakMinutes); err != nil {
			return nil, fmt.Errorf("analytics: scan rapportino: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate rapportini: %w", err)
	}
	return entries, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// pgErrorCode extracts the SQLSTATE from a Postgres error, if any.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
