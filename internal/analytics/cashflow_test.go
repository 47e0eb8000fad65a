package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestComputeCashFlowForecastWindowsAndDrift(t *testing.T) {
	now := day(2025, time.June, 30)
	bundle := RawBundle{
		IssuedInvoices: []IssuedInvoice{
			// Inside the 30 day window.
			{ID: uuid.New(), IssueDate: day(2025, time.June, 20), Total: 3000},
			// Inside 90 but outside 30.
			{ID: uuid.New(), IssueDate: day(2025, time.April, 15), Total: 6000},
			// Outside every window.
			{ID: uuid.New(), IssueDate: day(2025, time.January, 10), Total: 9999},
		},
		ReceivedInvoices: []ReceivedInvoice{
			{ID: uuid.New(), IssueDate: day(2025, time.June, 25), Total: 1000},
		},
		Receipts: []Receipt{
			{ID: uuid.New(), IssueDate: day(2025, time.May, 10), Total: 500},
		},
	}

	forecast := ComputeCashFlowForecast(bundle, now)
	if !almostEqual(forecast.OpeningBalance, 2000) {
		t.Fatalf("opening balance = %v, want 3000-1000", forecast.OpeningBalance)
	}
	if !almostEqual(forecast.InflowsMonth1, 3000) {
		t.Fatalf("month1 inflows = %v, want (3000+6000)/3 = 3000", forecast.InflowsMonth1)
	}
	if !almostEqual(forecast.OutflowsMonth1, 500) {
		t.Fatalf("month1 outflows = %v, want (1000+500)/3 = 500", forecast.OutflowsMonth1)
	}
	if !almostEqual(forecast.InflowsMonth2, 3000*0.95) || !almostEqual(forecast.OutflowsMonth2, 500*1.05) {
		t.Fatalf("month2 drift not applied: %+v", forecast)
	}
	if !almostEqual(forecast.InflowsMonth3, 3000*0.90) || !almostEqual(forecast.OutflowsMonth3, 500*1.10) {
		t.Fatalf("month3 drift not applied: %+v", forecast)
	}
}

func TestProjectedBalances(t *testing.T) {
	forecast := CashFlowForecast{
		OpeningBalance: 1000,
		InflowsMonth1:  500,
		OutflowsMonth1: 2000,
		InflowsMonth2:  475,
		OutflowsMonth2: 2100,
		InflowsMonth3:  450,
		OutflowsMonth3: 2200,
	}
	month1, month2, month3 := forecast.ProjectedBalances()
	if !almostEqual(month1, -500) {
		t.Fatalf("month1 = %v, want 1000+500-2000 = -500", month1)
	}
	if !almostEqual(month2, -2125) {
		t.Fatalf("month2 = %v, want -2125", month2)
	}
	if !almostEqual(month3, -3875) {
		t.Fatalf("month3 = %v, want -3875", month3)
	}
}
