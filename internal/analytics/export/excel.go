package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cantiere-erp/cantiere-erp/internal/analytics"
)

// BuildWorkbook renders the report as an XLSX workbook with one sheet per
// dataset. The caller owns the returned file and must Close it.
func BuildWorkbook(data analytics.AnalyticsData) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := buildKPISheet(f, data.KPIs, data.EconomicSummary); err != nil {
		return nil, err
	}
	if err := buildMonthlySheet(f, data.RevenueByMonth); err != nil {
		return nil, err
	}
	if err := buildProjectSheet(f, data.MarginByProject, data.BudgetVsActual); err != nil {
		return nil, err
	}
	if err := buildAgingSheet(f, data.AgingReport); err != nil {
		return nil, err
	}
	if err := buildAlertSheet(f, data.Alerts); err != nil {
		return nil, err
	}

	// The default sheet was repurposed as the KPI sheet.
	index, err := f.GetSheetIndex("Riepilogo")
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	return f, nil
}

func buildKPISheet(f *excelize.File, kpis analytics.KPISummary, summary analytics.EconomicSummary) error {
	const sheet = "Riepilogo"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Indicatore", "Valore"},
		{"Fatturato", kpis.TotalRevenue},
		{"Costi", kpis.TotalCosts},
		{"Margine", kpis.Margin},
		{"Margine %", kpis.MarginPercentage},
		{"Commesse attive", kpis.ActiveProjects},
		{"Ore lavorate", kpis.TotalHours},
		{},
		{"Fatturato previsto", summary.PlannedRevenue},
		{"Ricavi imponibile", summary.IssuedTaxable},
		{"Costi imponibile", summary.ReceivedTaxable},
		{"Costi buste paga", summary.PayrollCosts},
		{"Note spesa", summary.ExpenseNotes},
		{"Utile lordo", summary.GrossProfit},
		{"Saldo IVA", summary.VATBalance},
	}
	return writeRows(f, sheet, rows)
}

func buildMonthlySheet(f *excelize.File, points []analytics.MonthPoint) error {
	const sheet = "Andamento mensile"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Mese", "Fatturato", "Costi", "Margine"}}
	for _, point := range points {
		rows = append(rows, []interface{}{point.Month, point.Revenue, point.Costs, point.Margin})
	}
	return writeRows(f, sheet, rows)
}

func buildProjectSheet(f *excelize.File, margins []analytics.ProjectMargin, variances []analytics.BudgetVariance) error {
	const sheet = "Commesse"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Commessa", "Fatturato", "Costi", "Margine", "Margine %"}}
	for _, m := range margins {
		rows = append(rows, []interface{}{m.Title, m.Revenue, m.Costs, m.Margin, m.MarginPercentage})
	}
	rows = append(rows, []interface{}{})
	rows = append(rows, []interface{}{"Commessa", "Budget", "Budget imputato", "Costi effettivi", "Varianza %"})
	for _, v := range variances {
		imputed := "no"
		if v.BudgetImputed {
			imputed = "sì"
		}
		rows = append(rows, []interface{}{v.Title, v.PlannedBudget, imputed, v.ActualCosts, v.VariancePercentage})
	}
	return writeRows(f, sheet, rows)
}

func buildAgingSheet(f *excelize.File, report analytics.AgingReport) error {
	const sheet = "Scadenzario"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Fascia", "Importo", "Numero fatture"},
		{"0-30 giorni", report.Range0To30.Amount, report.Range0To30.InvoiceCount},
		{"31-60 giorni", report.Range31To60.Amount, report.Range31To60.InvoiceCount},
		{"61-90 giorni", report.Range61To90.Amount, report.Range61To90.InvoiceCount},
		{"oltre 90 giorni", report.RangeOver90.Amount, report.RangeOver90.InvoiceCount},
		{"Totale", report.Total, nil},
		{},
		{"Cliente moroso", "Importo scaduto", "Giorni ritardo"},
	}
	for _, client := range report.Delinquent {
		rows = append(rows, []interface{}{client.RegisteredAs, client.OverdueTotal, client.MaxDaysLate})
	}
	return writeRows(f, sheet, rows)
}

func buildAlertSheet(f *excelize.File, alerts []analytics.Alert) error {
	const sheet = "Avvisi"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{{"Tipo", "Titolo", "Messaggio", "Priorità"}}
	for _, alert := range alerts {
		rows = append(rows, []interface{}{alert.Type, alert.Title, alert.Message, alert.Priority})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export: sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
