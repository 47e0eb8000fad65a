package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cantiere-erp/cantiere-erp/internal/shared"
)

// AnalyticsData is the complete assembled report. Callers always receive a
// structurally complete object: slices are never nil and a data-less period
// yields the zeroed shape with a single informational alert.
type AnalyticsData struct {
	KPIs                KPISummary        `json:"kpis"`
	RevenueByMonth      []MonthPoint      `json:"revenueByMonth"`
	CostsByCategory     []CategoryCost    `json:"costsByCategory"`
	MarginByProject     []ProjectMargin   `json:"marginByProject"`
	HoursByEmployee     []EmployeeHours   `json:"hoursByEmployee"`
	TopClients          []ClientRevenue   `json:"topClients"`
	CashFlowForecast    CashFlowForecast  `json:"cashFlowForecast"`
	BudgetVsActual      []BudgetVariance  `json:"budgetVsActual"`
	AgingReport         AgingReport       `json:"agingReport"`
	ProjectTimeline     []ProjectProgress `json:"projectTimeline"`
	ResourceUtilization []Utilization     `json:"resourceUtilization"`
	ProfitabilityTrends []TrendPoint      `json:"profitabilityTrends"`
	WorkingCapital      WorkingCapital    `json:"workingCapital"`
	EconomicSummary     EconomicSummary   `json:"riepilogoEconomico"`
	Alerts              []Alert           `json:"alerts"`
}

// EmptyAnalyticsData is the defined result for a period with no data.
func EmptyAnalyticsData() AnalyticsData {
	return AnalyticsData{
		RevenueByMonth:      []MonthPoint{},
		CostsByCategory:     []CategoryCost{},
		MarginByProject:     []ProjectMargin{},
		HoursByEmployee:     []EmployeeHours{},
		TopClients:          []ClientRevenue{},
		BudgetVsActual:      []BudgetVariance{},
		AgingReport:         AgingReport{Delinquent: []DelinquentClient{}},
		ProjectTimeline:     []ProjectProgress{},
		ResourceUtilization: []Utilization{},
		ProfitabilityTrends: []TrendPoint{},
		Alerts:              []Alert{noDataAlert()},
	}
}

// BundleSource abstracts the record fetch for the assembler.
type BundleSource interface {
	Fetch(ctx context.Context, tenantID uuid.UUID, filters AnalyticsFilters) (RawBundle, error)
}

// Service assembles the analytics report for one tenant and filter set.
type Service struct {
	fetcher BundleSource
	cache   *Cache
	logger  *slog.Logger
	budget  BudgetPolicy
	now     func() time.Time
}

// NewService constructs the assembler. A nil cache disables caching.
func NewService(fetcher BundleSource, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
		budget:  DefaultBudgetPolicy,
		now:     time.Now,
	}
}

// WithNow overrides the clock, primarily for tests.
func (s *Service) WithNow(fn func() time.Time) *Service {
	if fn != nil {
		s.now = fn
	}
	return s
}

// WithBudgetPolicy overrides the planned-budget imputation policy.
func (s *Service) WithBudgetPolicy(policy BudgetPolicy) *Service {
	if policy != nil {
		s.budget = policy
	}
	return s
}

// GetAnalyticsData fetches the raw snapshot and runs every calculator over
// it. Fetch failures and empty project sets both degrade to the defined
// empty result. The assembled report is cached per tenant, filters and day.
func (s *Service) GetAnalyticsData(ctx context.Context, tenantID uuid.UUID, filters AnalyticsFilters) (AnalyticsData, error) {
	if filters.DateTo.Before(filters.DateFrom) {
		return AnalyticsData{}, fmt.Errorf("%w: date_to before date_from", shared.ErrInvalidFilters)
	}

	now := s.now()
	key, err := s.cache.BuildKey(ctx, keyAnalytics(tenantID, filters, now))
	if err != nil {
		s.warn("cache key", err)
		return s.assemble(ctx, tenantID, filters, now), nil
	}

	var data AnalyticsData
	err = s.cache.FetchJSON(ctx, key, &data, func(ctx context.Context) (interface{}, error) {
		return s.assemble(ctx, tenantID, filters, now), nil
	})
	if err != nil {
		s.warn("cache fetch", err)
		return s.assemble(ctx, tenantID, filters, now), nil
	}
	return data, nil
}

func (s *Service) assemble(ctx context.Context, tenantID uuid.UUID, filters AnalyticsFilters, now time.Time) AnalyticsData {
	bundle, err := s.fetcher.Fetch(ctx, tenantID, filters)
	if err != nil {
		s.warn("fetch bundle", err)
		return EmptyAnalyticsData()
	}
	if len(bundle.Projects) == 0 {
		return EmptyAnalyticsData()
	}

	data := EmptyAnalyticsData()
	data.Alerts = nil

	// Calculators are independent pure functions over the immutable bundle;
	// they fan out and each one degrades to its empty default on panic.
	g, _ := errgroup.WithContext(ctx)
	g.Go(s.guard("kpis", func() { data.KPIs = ComputeKPISummary(bundle) }))
	g.Go(s.guard("revenue_by_month", func() {
		data.RevenueByMonth = ComputeRevenueByMonth(bundle, filters.DateFrom, filters.DateTo)
	}))
	g.Go(s.guard("costs_by_category", func() { data.CostsByCategory = ComputeCostsByCategory(bundle.Receipts) }))
	g.Go(s.guard("margin_by_project", func() { data.MarginByProject = ComputeMarginByProject(bundle) }))
	g.Go(s.guard("hours_by_employee", func() { data.HoursByEmployee = ComputeHoursByEmployee(bundle) }))
	g.Go(s.guard("top_clients", func() { data.TopClients = ComputeTopClients(bundle) }))
	g.Go(s.guard("cash_flow", func() { data.CashFlowForecast = ComputeCashFlowForecast(bundle, now) }))
	g.Go(s.guard("budget_vs_actual", func() { data.BudgetVsActual = ComputeBudgetVsActual(bundle, s.budget) }))
	g.Go(s.guard("aging", func() { data.AgingReport = ComputeAgingReport(bundle, now) }))
	g.Go(s.guard("timeline", func() { data.ProjectTimeline = ComputeProjectTimeline(bundle, now) }))
	g.Go(s.guard("utilization", func() { data.ResourceUtilization = ComputeResourceUtilization(bundle) }))
	g.Go(s.guard("profitability", func() {
		data.ProfitabilityTrends = ComputeProfitabilityTrend(bundle, filters.DateFrom, filters.DateTo)
	}))
	g.Go(s.guard("working_capital", func() { data.WorkingCapital = ComputeWorkingCapital(bundle, now) }))
	g.Go(s.guard("economic_summary", func() { data.EconomicSummary = ComputeEconomicSummary(bundle) }))
	_ = g.Wait()

	// Alerts read the calculator outputs, so they run after the fan-out.
	data.Alerts = GenerateAlerts(data.KPIs, data.MarginByProject, data.CashFlowForecast, data.AgingReport, data.BudgetVsActual)
	return data
}

// guard wraps one calculator so a panic degrades to the zero default
// instead of taking the whole assembly down.
func (s *Service) guard(name string, fn func()) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil && s.logger != nil {
				s.logger.Error("calculator panicked",
					slog.String("calculator", name),
					slog.Any("panic", r),
				)
			}
		}()
		fn()
		return nil
	}
}

func (s *Service) warn(op string, err error) {
	if s.logger != nil {
		s.logger.Warn("analytics degraded", slog.String("op", op), slog.Any("error", err))
	}
}
