package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// imputedBudgetFactor synthesizes a planned budget from actual revenue when
// the project carries none.
const imputedBudgetFactor = 1.2

// BudgetPolicy resolves a project's planned budget. The second return value
// reports whether the figure was imputed rather than read from the record.
type BudgetPolicy func(project Project, actualRevenue float64) (float64, bool)

// DefaultBudgetPolicy uses the explicit planned budget when present and
// positive, otherwise imputes actual revenue × 1.2.
func DefaultBudgetPolicy(project Project, actualRevenue float64) (float64, bool) {
	if project.PlannedBudget != nil && *project.PlannedBudget > 0 {
		return *project.PlannedBudget, false
	}
	return actualRevenue * imputedBudgetFactor, true
}

// ProjectMargin ranks one project by its realized margin.
type ProjectMargin struct {
	ID               string  `json:"id"`
	Title            string  `json:"titolo"`
	Revenue          float64 `json:"fatturato"`
	Costs            float64 `json:"costi"`
	Margin           float64 `json:"margine"`
	MarginPercentage float64 `json:"marginPercentage"`
}

// BudgetVariance compares one project's planned budget against actuals.
type BudgetVariance struct {
	ID                 string  `json:"id"`
	Title              string  `json:"titolo"`
	PlannedBudget      float64 `json:"budgetPreventivo"`
	BudgetImputed      bool    `json:"budgetImputato"`
	ActualCosts        float64 `json:"costiEffettivi"`
	ActualRevenue      float64 `json:"fatturatoEffettivo"`
	CompletionPercent  float64 `json:"percentualeCompletamento"`
	Variance           float64 `json:"varianceBudget"`
	VariancePercentage float64 `json:"variancePercentage"`
}

// ProjectProgress is one project's calendar-based completion estimate.
type ProjectProgress struct {
	ID                string     `json:"id"`
	Title             string     `json:"titolo"`
	StartDate         *time.Time `json:"data_inizio"`
	ExpectedEndDate   *time.Time `json:"data_fine_prevista"`
	Status            string     `json:"stato"`
	CompletionPercent float64    `json:"percentualeCompletamento"`
	ClientName        string     `json:"cliente,omitempty"`
}

// ComputeMarginByProject ranks projects by realized margin, excluding ones
// with neither revenue nor cost.
func ComputeMarginByProject(bundle RawBundle) []ProjectMargin {
	margins := make([]ProjectMargin, 0, len(bundle.Projects))
	for _, p := range bundle.Projects {
		revenue, costs := projectTotals(bundle, p.ID)
		if revenue <= 0 && costs <= 0 {
			continue
		}
		margin := revenue - costs
		margins = append(margins, ProjectMargin{
			ID:               p.ID.String(),
			Title:            p.Title,
			Revenue:          revenue,
			Costs:            costs,
			Margin:           margin,
			MarginPercentage: safePercent(margin, revenue),
		})
	}
	sort.Slice(margins, func(i, j int) bool {
		if margins[i].Margin != margins[j].Margin {
			return margins[i].Margin > margins[j].Margin
		}
		return margins[i].ID < margins[j].ID
	})
	return margins
}

// ComputeBudgetVsActual measures each project's cost overrun against its
// planned budget, biggest surprises first regardless of sign.
func ComputeBudgetVsActual(bundle RawBundle, policy BudgetPolicy) []BudgetVariance {
	if policy == nil {
		policy = DefaultBudgetPolicy
	}
	variances := make([]BudgetVariance, 0, len(bundle.Projects))
	for _, p := range bundle.Projects {
		revenue, costs := projectTotals(bundle, p.ID)
		budget, imputed := policy(p, revenue)

		var completion float64
		if revenue > 0 {
			completion = math.Min(100, safePercent(revenue, budget))
		}

		variances = append(variances, BudgetVariance{
			ID:                 p.ID.String(),
			Title:              p.Title,
			PlannedBudget:      budget,
			BudgetImputed:      imputed,
			ActualCosts:        costs,
			ActualRevenue:      revenue,
			CompletionPercent:  completion,
			Variance:           budget - costs,
			VariancePercentage: safePercent(budget-costs, budget),
		})
	}
	sort.Slice(variances, func(i, j int) bool {
		vi, vj := math.Abs(variances[i].VariancePercentage), math.Abs(variances[j].VariancePercentage)
		if vi != vj {
			return vi > vj
		}
		return variances[i].ID < variances[j].ID
	})
	return variances
}

// ComputeProjectTimeline estimates completion from elapsed calendar time,
// clamped to [0, 100]. Completed projects with dates are forced to 100.
// Projects missing either date report 0.
func ComputeProjectTimeline(bundle RawBundle, now time.Time) []ProjectProgress {
	clientNames := make(map[string]string, len(bundle.Clients))
	for _, c := range bundle.Clients {
		clientNames[c.ID.String()] = c.RegisteredAs
	}

	progress := make([]ProjectProgress, 0, len(bundle.Projects))
	for _, p := range bundle.Projects {
		var completion float64
		if p.StartDate != nil && p.ExpectedEndDate != nil {
			total := p.ExpectedEndDate.Sub(*p.StartDate).Hours() / 24
			elapsed := now.Sub(*p.StartDate).Hours() / 24
			if total > 0 {
				completion = math.Min(100, math.Max(0, elapsed/total*100))
			}
			if p.Status == ProjectCompleted {
				completion = 100
			}
		}

		var clientName string
		if p.ClientID != nil {
			clientName = clientNames[p.ClientID.String()]
		}
		progress = append(progress, ProjectProgress{
			ID:                p.ID.String(),
			Title:             p.Title,
			StartDate:         p.StartDate,
			ExpectedEndDate:   p.ExpectedEndDate,
			Status:            string(p.Status),
			CompletionPercent: completion,
			ClientName:        clientName,
		})
	}
	return progress
}

func projectTotals(bundle RawBundle, projectID uuid.UUID) (revenue, costs float64) {
	for _, inv := range bundle.IssuedInvoices {
		if inv.ProjectID != nil && *inv.ProjectID == projectID {
			revenue += inv.Total
		}
	}
	for _, inv := range bundle.ReceivedInvoices {
		if inv.ProjectID != nil && *inv.ProjectID == projectID {
			costs += inv.Total
		}
	}
	for _, rec := range bundle.Receipts {
		if rec.ProjectID != nil && *rec.ProjectID == projectID {
			costs += rec.Total
		}
	}
	return revenue, costs
}
