package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestComputeWorkingCapitalOpenPositions(t *testing.T) {
	now := day(2025, time.June, 30)
	bundle := RawBundle{
		IssuedInvoices: []IssuedInvoice{
			{ID: uuid.New(), IssueDate: day(2025, time.June, 1), Total: 1000, Status: InvoicePending},
			{ID: uuid.New(), IssueDate: day(2025, time.June, 5), Total: 300, Status: InvoiceVoid},
			{ID: uuid.New(), IssueDate: day(2025, time.June, 10), PaidDate: timePtr(day(2025, time.June, 20)), Total: 800, Status: InvoicePaid},
		},
		ReceivedInvoices: []ReceivedInvoice{
			{ID: uuid.New(), IssueDate: day(2025, time.June, 2), Total: 400, Status: InvoicePending},
			{ID: uuid.New(), IssueDate: day(2025, time.June, 12), PaidDate: timePtr(day(2025, time.June, 22)), Total: 200, Status: InvoicePaid},
		},
		Receipts: []Receipt{
			{ID: uuid.New(), IssueDate: day(2025, time.June, 15), Total: 100},
		},
	}

	capital := ComputeWorkingCapital(bundle, now)
	if !almostEqual(capital.Receivables, 1000) {
		t.Fatalf("receivables = %v, want 1000 (paid and void excluded)", capital.Receivables)
	}
	if !almostEqual(capital.Payables, 400) {
		t.Fatalf("payables = %v, want 400", capital.Payables)
	}
	// Collected 800 minus 200 paid out minus 100 receipts.
	if !almostEqual(capital.AvailableLiquidity, 500) {
		t.Fatalf("liquidity = %v, want 500", capital.AvailableLiquidity)
	}
	if !almostEqual(capital.NetWorkingCapital, 1100) {
		t.Fatalf("net working capital = %v, want 1000-400+500", capital.NetWorkingCapital)
	}
	if !almostEqual(capital.CashCycle, capital.DSO-capital.DPO) {
		t.Fatalf("cash cycle = %v, want dso-dpo", capital.CashCycle)
	}
}

func TestComputeWorkingCapitalGuards(t *testing.T) {
	capital := ComputeWorkingCapital(RawBundle{}, day(2025, time.June, 30))
	if capital.CurrentRatio != 0 {
		t.Fatalf("current ratio = %v, want 0 (denominator floored at 1)", capital.CurrentRatio)
	}
	if capital.DSO != 0 || capital.DPO != 0 {
		t.Fatalf("dso/dpo = %v/%v, want 0 without flow", capital.DSO, capital.DPO)
	}
	if capital.AvailableLiquidity != 0 {
		t.Fatalf("liquidity = %v, want floored at 0", capital.AvailableLiquidity)
	}
}

func TestComputeWorkingCapitalLiquidityFloor(t *testing.T) {
	now := day(2025, time.June, 30)
	bundle := RawBundle{
		ReceivedInvoices: []ReceivedInvoice{
			{ID: uuid.New(), IssueDate: day(2025, time.June, 10), PaidDate: timePtr(day(2025, time.June, 15)), Total: 900, Status: InvoicePaid},
		},
	}
	capital := ComputeWorkingCapital(bundle, now)
	if capital.AvailableLiquidity != 0 {
		t.Fatalf("liquidity = %v, want 0 when outflow exceeds inflow", capital.AvailableLiquidity)
	}
}
