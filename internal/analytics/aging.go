package analytics

import (
	"sort"
	"time"
)

// AgingBucket accumulates overdue receivables for one day range.
type AgingBucket struct {
	Amount       float64 `json:"importo"`
	InvoiceCount int     `json:"numeroFatture"`
}

// DelinquentClient aggregates a client's overdue exposure.
type DelinquentClient struct {
	ID           string  `json:"id"`
	RegisteredAs string  `json:"ragione_sociale"`
	OverdueTotal float64 `json:"importoScaduto"`
	MaxDaysLate  int     `json:"giorniRitardo"`
}

// AgingReport classifies unpaid receivables by age relative to due date.
type AgingReport struct {
	Range0To30  AgingBucket        `json:"range_0_30"`
	Range31To60 AgingBucket        `json:"range_31_60"`
	Range61To90 AgingBucket        `json:"range_61_90"`
	RangeOver90 AgingBucket        `json:"range_over_90"`
	Total       float64            `json:"totale"`
	DSO         float64            `json:"dso"`
	Delinquent  []DelinquentClient `json:"clientiMorosi"`
}

// ComputeAgingReport buckets every unpaid, due-dated issued invoice by days
// past due. Invoices not yet due land in the 0-30 bucket. Clients with any
// invoice more than 30 days late make the delinquent list, carrying their
// summed overdue amount and worst lateness.
func ComputeAgingReport(bundle RawBundle, now time.Time) AgingReport {
	report := AgingReport{Delinquent: []DelinquentClient{}}

	names := make(map[string]string, len(bundle.Clients))
	for _, c := range bundle.Clients {
		names[c.ID.String()] = c.RegisteredAs
	}

	type exposure struct {
		amount  float64
		maxDays int
	}
	delinquent := make(map[string]*exposure)

	for _, inv := range bundle.IssuedInvoices {
		if inv.Status != InvoicePending || inv.DueDate == nil {
			continue
		}
		daysLate := int(now.Sub(*inv.DueDate).Hours() / 24)
		report.Total += inv.Total

		switch {
		case daysLate <= 30:
			report.Range0To30.Amount += inv.Total
			report.Range0To30.InvoiceCount++
		case daysLate <= 60:
			report.Range31To60.Amount += inv.Total
			report.Range31To60.InvoiceCount++
		case daysLate <= 90:
			report.Range61To90.Amount += inv.Total
			report.Range61To90.InvoiceCount++
		default:
			report.RangeOver90.Amount += inv.Total
			report.RangeOver90.InvoiceCount++
		}

		if daysLate > 30 && inv.ClientID != nil {
			clientID := inv.ClientID.String()
			exp, ok := delinquent[clientID]
			if !ok {
				exp = &exposure{}
				delinquent[clientID] = exp
			}
			exp.amount += inv.Total
			if daysLate > exp.maxDays {
				exp.maxDays = daysLate
			}
		}
	}

	var totalRevenue float64
	for _, inv := range bundle.IssuedInvoices {
		totalRevenue += inv.Total
	}
	report.DSO = safeRatio(report.Total, totalRevenue) * 365

	for clientID, exp := range delinquent {
		name := names[clientID]
		if name == "" {
			name = unknownClient
		}
		report.Delinquent = append(report.Delinquent, DelinquentClient{
			ID:           clientID,
			RegisteredAs: name,
			OverdueTotal: exp.amount,
			MaxDaysLate:  exp.maxDays,
		})
	}
	sort.Slice(report.Delinquent, func(i, j int) bool {
		if report.Delinquent[i].OverdueTotal != report.Delinquent[j].OverdueTotal {
			return report.Delinquent[i].OverdueTotal > report.Delinquent[j].OverdueTotal
		}
		return report.Delinquent[i].ID < report.Delinquent[j].ID
	})
	return report
}

// safeRatio returns num/den, or 0 when den is not positive.
func safeRatio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
