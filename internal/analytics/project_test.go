package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestComputeMarginByProjectExcludesIdleProjects(t *testing.T) {
	active := uuid.New()
	idle := uuid.New()
	bundle := RawBundle{
		Projects: []Project{
			{ID: active, Title: "Cantiere A", Status: ProjectInProgress},
			{ID: idle, Title: "Cantiere B", Status: ProjectInProgress},
		},
		IssuedInvoices: []IssuedInvoice{
			{ID: uuid.New(), ProjectID: uuidPtr(active), IssueDate: day(2025, time.March, 1), Total: 900},
		},
		ReceivedInvoices: []ReceivedInvoice{
			{ID: uuid.New(), ProjectID: uuidPtr(active), IssueDate: day(2025, time.March, 5), Total: 400},
		},
	}

	margins := ComputeMarginByProject(bundle)
	if len(margins) != 1 {
		t.Fatalf("len = %d, want 1 (idle project excluded)", len(margins))
	}
	if margins[0].Title != "Cantiere A" || !almostEqual(margins[0].Margin, 500) {
		t.Fatalf("unexpected row: %+v", margins[0])
	}
}

func TestComputeMarginByProjectSortedByMargin(t *testing.T) {
	low := uuid.New()
	high := uuid.New()
	bundle := RawBundle{
		Projects: []Project{
			{ID: low, Title: "Basso", Status: ProjectInProgress},
			{ID: high, Title: "Alto", Status: ProjectInProgress},
		},
		IssuedInvoices: []IssuedInvoice{
			{ID: uuid.New(), ProjectID: uuidPtr(low), IssueDate: day(2025, time.March, 1), Total: 100},
			{ID: uuid.New(), ProjectID: uuidPtr(high), IssueDate: day(2025, time.March, 1), Total: 1000},
		},
	}

	margins := ComputeMarginByProject(bundle)
	if margins[0].Title != "Alto" {
		t.Fatalf("first = %q, want Alto", margins[0].Title)
	}
}

func TestDefaultBudgetPolicyImputation(t *testing.T) {
	explicit := Project{ID: uuid.New(), PlannedBudget: float64Ptr(5000)}
	if budget, imputed := DefaultBudgetPolicy(explicit, 1000); imputed || !almostEqual(budget, 5000) {
		t.Fatalf("explicit budget: got %v imputed=%v", budget, imputed)
	}

	missing := Project{ID: uuid.New()}
	budget, imputed := DefaultBudgetPolicy(missing, 1000)
	if !imputed {
		t.Fatal("missing budget should be flagged as imputed")
	}
	if !almostEqual(budget, 1200) {
		t.Fatalf("imputed budget = %v, want 1200", budget)
	}
}

func TestComputeBudgetVsActualSortedByAbsoluteVariance(t *testing.T) {
	small := uuid.New()
	blown := uuid.New()
	bundle := RawBundle{
		Projects: []Project{
			{ID: small, Title: "Piccolo", PlannedBudget: float64Ptr(1000), Status: ProjectInProgress},
			{ID: blown, Title: "Sforato", PlannedBudget: float64Ptr(1000), Status: ProjectInProgress},
		},
		ReceivedInvoices: []ReceivedInvoice{
			{ID: uuid.New(), ProjectID: uuidPtr(small), IssueDate: day(2025, time.March, 1), Total: 950},
			{ID: uuid.New(), ProjectID: uuidPtr(blown), IssueDate: day(2025, time.March, 1), Total: 2000},
		},
	}

	variances := ComputeBudgetVsActual(bundle, nil)
	if len(variances) != 2 {
		t.Fatalf("len = %d, want 2", len(variances))
	}
	if variances[0].Title != "Sforato" {
		t.Fatalf("first = %q, want the biggest overrun first", variances[0].Title)
	}
	if !almostEqual(variances[0].VariancePercentage, -100) {
		t.Fatalf("variance%% = %v, want -100", variances[0].VariancePercentage)
	}
	if variances[0].BudgetImputed {
		t.Fatal("explicit budget flagged as imputed")
	}
}

func TestComputeBudgetVsActualCompletionClamped(t *testing.T) {
	projectID := uuid.New()
	bundle := RawBundle{
		Projects: []Project{{ID: projectID, Title: "Oltre", PlannedBudget: float64Ptr(1000), Status: ProjectInProgress}},
		IssuedInvoices: []IssuedInvoice{
			{ID: uuid.New(), ProjectID: uuidPtr(projectID), IssueDate: day(2025, time.March, 1), Total: 2500},
		},
	}

	variances := ComputeBudgetVsActual(bundle, nil)
	if !almostEqual(variances[0].CompletionPercent, 100) {
		t.Fatalf("completion = %v, want clamped to 100", variances[0].CompletionPercent)
	}
}

func TestComputeProjectTimeline(t *testing.T) {
	now := day(2025, time.June, 15)
	halfway := Project{
		ID:              uuid.New(),
		Title:           "Meta",
		StartDate:       timePtr(day(2025, time.June, 1)),
		ExpectedEndDate: timePtr(day(2025, time.June, 29)),
		Status:          ProjectInProgress,
	}
	completed := Project{
		ID:              uuid.New(),
		Title:           "Chiusa",
		StartDate:       timePtr(day(2025, time.January, 1)),
		ExpectedEndDate: timePtr(day(2025, time.December, 31)),
		Status:          ProjectCompleted,
	}
	dateless := Project{ID: uuid.New(), Title: "Senza date", Status: ProjectCompleted}

	progress := ComputeProjectTimeline(RawBundle{Projects: []Project{halfway, completed, dateless}}, now)
	if !almostEqual(progress[0].CompletionPercent, 50) {
		t.Fatalf("halfway completion = %v, want 50", progress[0].CompletionPercent)
	}
	if !almostEqual(progress[1].CompletionPercent, 100) {
		t.Fatalf("completed project = %v, want forced 100", progress[1].CompletionPercent)
	}
	if progress[2].CompletionPercent != 0 {
		t.Fatalf("dateless project = %v, want 0 even when completed", progress[2].CompletionPercent)
	}
}

func TestComputeProjectTimelineClampsFuture(t *testing.T) {
	notStarted := Project{
		ID:              uuid.New(),
		Title:           "Futura",
		StartDate:       timePtr(day(2025, time.September, 1)),
		ExpectedEndDate: timePtr(day(2025, time.October, 1)),
		Status:          ProjectNotStarted,
	}
	progress := ComputeProjectTimeline(RawBundle{Projects: []Project{notStarted}}, day(2025, time.June, 1))
	if progress[0].CompletionPercent != 0 {
		t.Fatalf("future project = %v, want clamped to 0", progress[0].CompletionPercent)
	}
}
