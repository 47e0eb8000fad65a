package analytics

import (
	"math"
	"time"
)

// WorkingCapital summarizes the tenant's short-term financial position.
type WorkingCapital struct {
	Receivables        float64 `json:"creditiCommerciali"`
	Payables           float64 `json:"debitiCommerciali"`
	AvailableLiquidity float64 `json:"liquiditaDisponibile"`
	NetWorkingCapital  float64 `json:"capitaleCircolanteNetto"`
	CurrentRatio       float64 `json:"rapportoLiquidita"`
	DSO                float64 `json:"giornoIncassoMedi"`
	DPO                float64 `json:"giornoPagamentoMedi"`
	CashCycle          float64 `json:"cicloCassa"`
}

// ComputeWorkingCapital derives the capital position from open invoices and
// recent settled flow. Liquidity approximates cash on hand as payments
// collected minus payments made over the trailing 30 days, floored at zero.
// DSO and DPO divide the open balances by trailing-90-day daily averages.
func ComputeWorkingCapital(bundle RawBundle, now time.Time) WorkingCapital {
	var receivables float64
	for _, inv := range bundle.IssuedInvoices {
		if inv.Status != InvoicePaid && inv.Status != InvoiceVoid {
			receivables += inv.Total
		}
	}
	var payables float64
	for _, inv := range bundle.ReceivedInvoices {
		if inv.Status != InvoicePaid && inv.Status != InvoiceVoid {
			payables += inv.Total
		}
	}

	last30 := now.AddDate(0, 0, -30)
	var collected float64
	for _, inv := range bundle.IssuedInvoices {
		if inv.Status == InvoicePaid && !settlementDate(inv.PaidDate, inv.IssueDate).Before(last30) {
			collected += inv.Total
		}
	}
	var paidOut float64
	for _, inv := range bundle.ReceivedInvoices {
		if inv.Status == InvoicePaid && !settlementDate(inv.PaidDate, inv.IssueDate).Before(last30) {
			paidOut += inv.Total
		}
	}
	for _, rec := range bundle.Receipts {
		if !rec.IssueDate.Before(last30) {
			paidOut += rec.Total
		}
	}
	liquidity := math.Max(0, collected-paidOut)

	last90 := now.AddDate(0, 0, -90)
	revenue90, costs90 := flowSince(bundle, last90)
	dailyRevenue := revenue90 / 90
	dailyCosts := costs90 / 90

	dso := safeRatio(receivables, dailyRevenue)
	dpo := safeRatio(payables, dailyCosts)

	return WorkingCapital{
		Receivables:        receivables,
		Payables:           payables,
		AvailableLiquidity: liquidity,
		NetWorkingCapital:  receivables - payables + liquidity,
		CurrentRatio:       (receivables + liquidity) / math.Max(payables, 1),
		DSO:                dso,
		DPO:                dpo,
		CashCycle:          dso - dpo,
	}
}

func settlementDate(paid *time.Time, fallback time.Time) time.Time {
	if paid != nil {
		return *paid
	}
	return fallback
}
