package analytics

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Alert severity levels.
const (
	AlertError   = "error"
	AlertWarning = "warning"
	AlertSuccess = "success"
	AlertInfo    = "info"
)

// Alert impact levels.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Alert is one prioritized, actionable signal derived from the metrics.
// Priority 1 is the most urgent.
type Alert struct {
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	Message          string   `json:"message"`
	Priority         int      `json:"priority"`
	Impact           string   `json:"impact,omitempty"`
	SuggestedActions []string `json:"suggestedActions,omitempty"`
}

// itPrinter renders amounts with Italian digit grouping in alert text.
var itPrinter = message.NewPrinter(language.Italian)

// GenerateAlerts evaluates a fixed ordered rule set against the computed
// metrics. Rules are layered signals, not exclusive states: several may fire
// on the same input. The result is sorted by ascending priority with the
// evaluation order preserved within each priority.
func GenerateAlerts(
	kpis KPISummary,
	marginByProject []ProjectMargin,
	forecast CashFlowForecast,
	aging AgingReport,
	budgetVsActual []BudgetVariance,
) []Alert {
	alerts := make([]Alert, 0, 4)

	month1, month2, _ := forecast.ProjectedBalances()
	if month1 < 0 {
		alerts = append(alerts, Alert{
			Type:     AlertError,
			Title:    "Cash Flow Negativo tra 30 giorni",
			Message:  "Il saldo previsto sarà negativo tra 30 giorni. Azione immediata richiesta.",
			Priority: 1,
			Impact:   ImpactHigh,
			SuggestedActions: []string{
				"Accelerare la riscossione dei crediti scaduti",
				"Posticipare pagamenti non urgenti",
				"Contattare la banca per linea di credito temporanea",
				"Emettere fatture in sospeso immediatamente",
			},
		})
	} else if month2 < 0 {
		alerts = append(alerts, Alert{
			Type:     AlertWarning,
			Title:    "Cash Flow Negativo tra 60 giorni",
			Message:  "Il saldo diventerà negativo tra 60 giorni se il trend continua.",
			Priority: 2,
			Impact:   ImpactHigh,
			SuggestedActions: []string{
				"Monitorare incassi e pagamenti settimanalmente",
				"Pianificare flussi di cassa con clienti principali",
				"Considerare riduzione spese discrezionali",
			},
		})
	}

	if aging.RangeOver90.Amount > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertError,
			Title:    "Crediti Scaduti da oltre 90 giorni",
			Message:  itPrinter.Sprintf("€%.0f in fatture scadute da oltre 90 giorni. Rischio insolvenza.", aging.RangeOver90.Amount),
			Priority: 1,
			Impact:   ImpactHigh,
			SuggestedActions: []string{
				"Inviare sollecito formale ai clienti morosi",
				"Considerare azioni legali per importi significativi",
				"Sospendere nuove forniture fino a pagamento",
				"Valutare cessione del credito (factoring)",
			},
		})
	}

	if aging.DSO > 60 {
		alerts = append(alerts, Alert{
			Type:     AlertWarning,
			Title:    "DSO Elevato",
			Message:  itPrinter.Sprintf("Days Sales Outstanding: %.0f giorni (target: <45 giorni)", aging.DSO),
			Priority: 2,
			Impact:   ImpactMedium,
			SuggestedActions: []string{
				"Implementare politiche di pagamento più stringenti",
				"Offrire sconti per pagamenti anticipati",
				"Richiedere acconti su nuovi progetti",
			},
		})
	}

	overBudget := 0
	for _, v := range budgetVsActual {
		if v.VariancePercentage < -10 {
			overBudget++
		}
	}
	if overBudget > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertWarning,
			Title:    itPrinter.Sprintf("%d Commesse Oltre Budget", overBudget),
			Message:  "Ci sono commesse con costi superiori al preventivo del 10%+",
			Priority: 2,
			Impact:   ImpactHigh,
			SuggestedActions: []string{
				"Analizzare cause degli extra-costi per commessa",
				"Aggiornare preventivi clienti se contrattualmente possibile",
				"Implementare controlli settimanali su budget progetti",
				"Rivedere processi di stima costi",
			},
		})
	}

	lossProjects := 0
	for _, p := range marginByProject {
		if p.Margin < 0 {
			lossProjects++
		}
	}
	if lossProjects > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertError,
			Title:    "Commesse in Perdita",
			Message:  itPrinter.Sprintf("%d commessa/e con margine negativo", lossProjects),
			Priority: 1,
			Impact:   ImpactHigh,
			SuggestedActions: []string{
				"Identificare cause delle perdite (materiali, ore extra, errori)",
				"Valutare se continuare o chiudere le commesse",
				"Negoziare varianti contrattuali con clienti",
				"Ridurre costi operativi dove possibile",
			},
		})
	}

	if kpis.MarginPercentage < 10 && kpis.TotalRevenue > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertWarning,
			Title:    "Margine Aziendale Basso",
			Message:  itPrinter.Sprintf("Il margine è solo del %.1f%% (target: >20%%)", kpis.MarginPercentage),
			Priority: 2,
			Impact:   ImpactMedium,
			SuggestedActions: []string{
				"Aumentare prezzi su nuovi preventivi",
				"Ottimizzare processi per ridurre costi",
				"Focus su commesse ad alto margine",
				"Rinegoziare condizioni con fornitori",
			},
		})
	}

	if kpis.MarginPercentage > 30 && kpis.TotalRevenue > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertSuccess,
			Title:    "Ottima Performance",
			Message:  itPrinter.Sprintf("Margine eccellente: %.1f%%", kpis.MarginPercentage),
			Priority: 3,
			Impact:   ImpactLow,
			SuggestedActions: []string{
				"Mantenere focus su commesse profittevoli",
				"Considerare investimenti in crescita",
				"Premiare team per risultati",
			},
		})
	}

	if len(alerts) == 0 {
		alerts = append(alerts, Alert{
			Type:     AlertInfo,
			Title:    "Situazione Stabile",
			Message:  "Nessun problema critico rilevato. Continuare il monitoraggio.",
			Priority: 3,
			Impact:   ImpactLow,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Priority < alerts[j].Priority
	})
	return alerts
}

// noDataAlert is the single informational alert carried by the empty result.
func noDataAlert() Alert {
	return Alert{
		Type:     AlertInfo,
		Title:    "Nessun dato disponibile",
		Message:  "Non ci sono dati per il periodo selezionato",
		Priority: 1,
	}
}
