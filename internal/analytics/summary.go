package analytics

// EconomicSummary is the riepilogo economico: the at-a-glance profit and VAT
// position across the selected projects.
type EconomicSummary struct {
	PlannedRevenue  float64 `json:"fatturatoPrevisto"`
	IssuedTaxable   float64 `json:"ricaviImponibile"`
	ReceivedTaxable float64 `json:"costiImponibile"`
	PayrollCosts    float64 `json:"costiBustePaga"`
	TaxFilingCosts  float64 `json:"costiF24"`
	ExpenseNotes    float64 `json:"noteSpesa"`
	GrossProfit     float64 `json:"utileLordo"`
	VATBalance      float64 `json:"saldoIVA"`
}

// ComputeEconomicSummary totals the taxable flows and labor costs across the
// snapshot. Planned revenue prefers the contract amount and falls back to
// the planned budget. The VAT balance is received tax minus issued tax, so a
// positive value is a credit position.
func ComputeEconomicSummary(bundle RawBundle) EconomicSummary {
	var summary EconomicSummary

	for _, p := range bundle.Projects {
		switch {
		case p.ContractAmount != nil && *p.ContractAmount > 0:
			summary.PlannedRevenue += *p.ContractAmount
		case p.PlannedBudget != nil:
			summary.PlannedRevenue += *p.PlannedBudget
		}
	}

	var issuedTax, receivedTax float64
	for _, inv := range bundle.IssuedInvoices {
		summary.IssuedTaxable += inv.Taxable
		issuedTax += inv.Tax
	}
	for _, inv := range bundle.ReceivedInvoices {
		summary.ReceivedTaxable += inv.Taxable
		receivedTax += inv.Tax
	}
	for _, alloc := range bundle.PayrollAllocations {
		summary.PayrollCosts += alloc.Amount
	}
	for _, note := range bundle.ExpenseNotes {
		summary.ExpenseNotes += note.Amount
	}

	// TODO: wire the f24 filings table once its allocation per commessa lands.
	summary.TaxFilingCosts = 0

	summary.GrossProfit = summary.IssuedTaxable - summary.ReceivedTaxable -
		summary.PayrollCosts - summary.TaxFilingCosts - summary.ExpenseNotes
	summary.VATBalance = receivedTax - issuedTax
	return summary
}
