package analytics

// KPISummary is the headline figure block of the report.
type KPISummary struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	TotalCosts       float64 `json:"totalCosts"`
	Margin           float64 `json:"margin"`
	MarginPercentage float64 `json:"marginPercentage"`
	ActiveProjects   int     `json:"activeProjects"`
	TotalHours       float64 `json:"totalHours"`
}

// ComputeKPISummary derives the headline KPIs from the snapshot. Revenue is
// the sum of issued invoice totals, cost the sum of received invoice and
// receipt totals.
func ComputeKPISummary(bundle RawBundle) KPISummary {
	var revenue float64
	for _, inv := range bundle.IssuedInvoices {
		revenue += inv.Total
	}
	var costs float64
	for _, inv := range bundle.ReceivedInvoices {
		costs += inv.Total
	}
	for _, rec := range bundle.Receipts {
		costs += rec.Total
	}

	active := 0
	for _, p := range bundle.Projects {
		if p.Active() {
			active++
		}
	}

	var hours float64
	for _, entry := range bundle.TimesheetEntries {
		hours += entry.HoursWorked
	}

	margin := revenue - costs
	return KPISummary{
		TotalRevenue:     revenue,
		TotalCosts:       costs,
		Margin:           margin,
		MarginPercentage: safePercent(margin, revenue),
		ActiveProjects:   active,
		TotalHours:       hours,
	}
}

// safePercent returns num/den×100, or 0 when den is not positive.
func safePercent(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * 100
}
