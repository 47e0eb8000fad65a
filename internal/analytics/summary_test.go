package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestComputeEconomicSummary(t *testing.T) {
	bundle := RawBundle{
		Projects: []Project{
			{ID: uuid.New(), ContractAmount: float64Ptr(10000), PlannedBudget: float64Ptr(8000)},
			{ID: uuid.New(), PlannedBudget: float64Ptr(5000)},
		},
		IssuedInvoices: []IssuedInvoice{
			{ID: uuid.New(), IssueDate: day(2025, time.March, 1), Taxable: 4000, Tax: 880, Total: 4880},
		},
		ReceivedInvoices: []ReceivedInvoice{
			{ID: uuid.New(), IssueDate: day(2025, time.March, 5), Taxable: 1500, Tax: 330, Total: 1830},
		},
		PayrollAllocations: []PayrollAllocation{
			{ID: uuid.New(), Month: 3, Year: 2025, Amount: 900},
		},
		ExpenseNotes: []ExpenseNote{
			{ID: uuid.New(), Date: day(2025, time.March, 10), Amount: 100},
		},
	}

	summary := ComputeEconomicSummary(bundle)
	if !almostEqual(summary.PlannedRevenue, 15000) {
		t.Fatalf("planned revenue = %v, want contract amount + budget fallback", summary.PlannedRevenue)
	}
	if !almostEqual(summary.GrossProfit, 4000-1500-900-100) {
		t.Fatalf("gross profit = %v, want 1500", summary.GrossProfit)
	}
	if !almostEqual(summary.VATBalance, 330-880) {
		t.Fatalf("vat balance = %v, want received tax minus issued tax", summary.VATBalance)
	}
	if summary.TaxFilingCosts != 0 {
		t.Fatalf("f24 costs = %v, want 0", summary.TaxFilingCosts)
	}
}

func TestComputeEconomicSummaryEmpty(t *testing.T) {
	summary := ComputeEconomicSummary(RawBundle{})
	if summary != (EconomicSummary{}) {
		t.Fatalf("empty bundle summary = %+v, want zero value", summary)
	}
}
