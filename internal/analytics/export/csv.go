// Package export renders the assembled analytics report as CSV and XLSX
// downloads.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cantiere-erp/cantiere-erp/internal/analytics"
)

// WriteCSV serialises the whole report as stacked CSV sections separated by
// blank lines.
func WriteCSV(w io.Writer, data analytics.AnalyticsData) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	sections := []func(*csv.Writer) error{
		func(cw *csv.Writer) error { return writeKPISection(cw, data.KPIs) },
		func(cw *csv.Writer) error { return writeMonthlySection(cw, data.RevenueByMonth) },
		func(cw *csv.Writer) error { return writeCategorySection(cw, data.CostsByCategory) },
		func(cw *csv.Writer) error { return writeProjectSection(cw, data.MarginByProject) },
		func(cw *csv.Writer) error { return writeBudgetSection(cw, data.BudgetVsActual) },
		func(cw *csv.Writer) error { return writeAgingSection(cw, data.AgingReport) },
		func(cw *csv.Writer) error { return writeSummarySection(cw, data.EconomicSummary) },
		func(cw *csv.Writer) error { return writeAlertSection(cw, data.Alerts) },
	}
	for i, section := range sections {
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return err
			}
		}
		if err := section(writer); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeKPISection(w *csv.Writer, kpis analytics.KPISummary) error {
	if err := w.Write([]string{"Indicatore", "Valore"}); err != nil {
		return err
	}
	records := [][]string{
		{"Fatturato", formatFloat(kpis.TotalRevenue)},
		{"Costi", formatFloat(kpis.TotalCosts)},
		{"Margine", formatFloat(kpis.Margin)},
		{"Margine %", formatFloat(kpis.MarginPercentage)},
		{"Commesse attive", strconv.Itoa(kpis.ActiveProjects)},
		{"Ore lavorate", formatFloat(kpis.TotalHours)},
	}
	return writeAll(w, records)
}

func writeMonthlySection(w *csv.Writer, points []analytics.MonthPoint) error {
	if err := w.Write([]string{"Mese", "Fatturato", "Costi", "Margine"}); err != nil {
		return err
	}
	for _, point := range points {
		record := []string{point.Month, formatFloat(point.Revenue), formatFloat(point.Costs), formatFloat(point.Margin)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeCategorySection(w *csv.Writer, categories []analytics.CategoryCost) error {
	if err := w.Write([]string{"Categoria", "Importo", "Percentuale"}); err != nil {
		return err
	}
	for _, c := range categories {
		if err := w.Write([]string{c.Name, formatFloat(c.Value), formatFloat(c.Percentage)}); err != nil {
			return err
		}
	}
	return nil
}

func writeProjectSection(w *csv.Writer, margins []analytics.ProjectMargin) error {
	if err := w.Write([]string{"Commessa", "Fatturato", "Costi", "Margine", "Margine %"}); err != nil {
		return err
	}
	for _, m := range margins {
		record := []string{m.Title, formatFloat(m.Revenue), formatFloat(m.Costs), formatFloat(m.Margin), formatFloat(m.MarginPercentage)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeBudgetSection(w *csv.Writer, variances []analytics.BudgetVariance) error {
	if err := w.Write([]string{"Commessa", "Budget", "Budget imputato", "Costi effettivi", "Fatturato effettivo", "Varianza %"}); err != nil {
		return err
	}
	for _, v := range variances {
		imputed := "no"
		if v.BudgetImputed {
			imputed = "sì"
		}
		record := []string{
			v.Title,
			formatFloat(v.PlannedBudget),
			imputed,
			formatFloat(v.ActualCosts),
			formatFloat(v.ActualRevenue),
			formatFloat(v.VariancePercentage),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeAgingSection(w *csv.Writer, report analytics.AgingReport) error {
	if err := w.Write([]string{"Fascia", "Importo", "Numero fatture"}); err != nil {
		return err
	}
	rows := []struct {
		label  string
		bucket analytics.AgingBucket
	}{
		{"0-30 giorni", report.Range0To30},
		{"31-60 giorni", report.Range31To60},
		{"61-90 giorni", report.Range61To90},
		{"oltre 90 giorni", report.RangeOver90},
	}
	for _, row := range rows {
		record := []string{row.label, formatFloat(row.bucket.Amount), strconv.Itoa(row.bucket.InvoiceCount)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Write([]string{"Totale", formatFloat(report.Total), ""})
}

func writeSummarySection(w *csv.Writer, summary analytics.EconomicSummary) error {
	if err := w.Write([]string{"Riepilogo", "Valore"}); err != nil {
		return err
	}
	records := [][]string{
		{"Fatturato previsto", formatFloat(summary.PlannedRevenue)},
		{"Ricavi imponibile", formatFloat(summary.IssuedTaxable)},
		{"Costi imponibile", formatFloat(summary.ReceivedTaxable)},
		{"Costi buste paga", formatFloat(summary.PayrollCosts)},
		{"Note spesa", formatFloat(summary.ExpenseNotes)},
		{"Utile lordo", formatFloat(summary.GrossProfit)},
		{"Saldo IVA", formatFloat(summary.VATBalance)},
	}
	return writeAll(w, records)
}

func writeAlertSection(w *csv.Writer, alerts []analytics.Alert) error {
	if err := w.Write([]string{"Tipo", "Titolo", "Messaggio", "Priorità"}); err != nil {
		return err
	}
	for _, alert := range alerts {
		record := []string{alert.Type, alert.Title, alert.Message, strconv.Itoa(alert.Priority)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeAll(w *csv.Writer, records [][]string) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
