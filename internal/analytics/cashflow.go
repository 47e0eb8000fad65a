package analytics

import "time"

// Conservative drift applied to the projection: each further month expects a
// little less revenue and a little more cost. Heuristic dampening, not a
// statistical model.
const (
	revenueDriftMonth2 = 0.95
	costDriftMonth2    = 1.05
	revenueDriftMonth3 = 0.90
	costDriftMonth3    = 1.10
)

// CashFlowForecast projects the next three months of inflow and outflow from
// recent activity.
type CashFlowForecast struct {
	OpeningBalance float64 `json:"saldoIniziale"`
	InflowsMonth1  float64 `json:"entratePrevistoMese1"`
	OutflowsMonth1 float64 `json:"uscitePrevistoMese1"`
	InflowsMonth2  float64 `json:"entratePrevistoMese2"`
	OutflowsMonth2 float64 `json:"uscitePrevistoMese2"`
	InflowsMonth3  float64 `json:"entratePrevistoMese3"`
	OutflowsMonth3 float64 `json:"uscitePrevistoMese3"`
}

// ProjectedBalances returns the running balance at the end of each projected
// month.
func (f CashFlowForecast) ProjectedBalances() (month1, month2, month3 float64) {
	month1 = f.OpeningBalance + f.InflowsMonth1 - f.OutflowsMonth1
	month2 = month1 + f.InflowsMonth2 - f.OutflowsMonth2
	month3 = month2 + f.InflowsMonth3 - f.OutflowsMonth3
	return month1, month2, month3
}

// ComputeCashFlowForecast approximates the opening balance as net flow over
// the trailing 30 days from now, takes the trailing 90 days as the monthly
// run rate, and projects three months with conservative drift. The windows
// are anchored on the wall clock, not the filter range.
func ComputeCashFlowForecast(bundle RawBundle, now time.Time) CashFlowForecast {
	last30 := now.AddDate(0, 0, -30)
	last90 := now.AddDate(0, 0, -90)

	revenue30, costs30 := flowSince(bundle, last30)
	revenue90, costs90 := flowSince(bundle, last90)

	avgRevenue := revenue90 / 3
	avgCosts := costs90 / 3

	return CashFlowForecast{
		OpeningBalance: revenue30 - costs30,
		InflowsMonth1:  avgRevenue,
		OutflowsMonth1: avgCosts,
		InflowsMonth2:  avgRevenue * revenueDriftMonth2,
		OutflowsMonth2: avgCosts * costDriftMonth2,
		InflowsMonth3:  avgRevenue * revenueDriftMonth3,
		OutflowsMonth3: avgCosts * costDriftMonth3,
	}
}

func flowSince(bundle RawBundle, since time.Time) (revenue, costs float64) {
	for _, inv := range bundle.IssuedInvoices {
		if !inv.IssueDate.Before(since) {
			revenue += inv.Total
		}
	}
	for _, inv := range bundle.ReceivedInvoices {
		if !inv.IssueDate.Before(since) {
			costs += inv.Total
		}
	}
	for _, rec := range bundle.Receipts {
		if !rec.IssueDate.Before(since) {
			costs += rec.Total
		}
	}
	return revenue, costs
}
