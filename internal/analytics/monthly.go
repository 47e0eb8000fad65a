package analytics

import "time"

// MonthPoint is one calendar-month bucket of the revenue series.
type MonthPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"fatturato"`
	Costs   float64 `json:"costi"`
	Margin  float64 `json:"margine"`
}

// TrendPoint extends the monthly bucket with the margin ratio.
type TrendPoint struct {
	Month            string  `json:"mese"`
	Revenue          float64 `json:"fatturato"`
	Costs            float64 `json:"costi"`
	Margin           float64 `json:"margine"`
	MarginPercentage float64 `json:"marginePercentuale"`
}

// ComputeRevenueByMonth buckets revenue and cost into one point per calendar
// month spanning [from, to] inclusive. Empty months produce zero points.
func ComputeRevenueByMonth(bundle RawBundle, from, to time.Time) []MonthPoint {
	months := enumerateMonths(from, to)
	points := make([]MonthPoint, 0, len(months))
	for _, month := range months {
		revenue, costs := monthTotals(bundle, month)
		points = append(points, MonthPoint{
			Month:   month.Format("2006-01"),
			Revenue: revenue,
			Costs:   costs,
			Margin:  revenue - costs,
		})
	}
	return points
}

// ComputeProfitabilityTrend is the monthly series enriched with margin %.
func ComputeProfitabilityTrend(bundle RawBundle, from, to time.Time) []TrendPoint {
	months := enumerateMonths(from, to)
	points := make([]TrendPoint, 0, len(months))
	for _, month := range months {
		revenue, costs := monthTotals(bundle, month)
		margin := revenue - costs
		points = append(points, TrendPoint{
			Month:            month.Format("2006-01"),
			Revenue:          revenue,
			Costs:            costs,
			Margin:           margin,
			MarginPercentage: safePercent(margin, revenue),
		})
	}
	return points
}

func monthTotals(bundle RawBundle, month time.Time) (revenue, costs float64) {
	for _, inv := range bundle.IssuedInvoices {
		if sameMonth(inv.IssueDate, month) {
			revenue += inv.Total
		}
	}
	for _, inv := range bundle.ReceivedInvoices {
		if sameMonth(inv.IssueDate, month) {
			costs += inv.Total
		}
	}
	for _, rec := range bundle.Receipts {
		if sameMonth(rec.IssueDate, month) {
			costs += rec.Total
		}
	}
	return revenue, costs
}

func sameMonth(date, month time.Time) bool {
	return date.Year() == month.Year() && date.Month() == month.Month()
}

// enumerateMonths returns the first day of every calendar month touched by
// [from, to] inclusive.
func enumerateMonths(from, to time.Time) []time.Time {
	if to.Before(from) {
		return nil
	}
	var months []time.Time
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		months = append(months, cursor)
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}
