package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestComputeCostsByCategoryPercentagesAndFallback(t *testing.T) {
	receipts := []Receipt{
		{ID: uuid.New(), IssueDate: day(2025, time.April, 1), Total: 600, Category: "Materiali"},
		{ID: uuid.New(), IssueDate: day(2025, time.April, 2), Total: 300, Category: "Carburante"},
		{ID: uuid.New(), IssueDate: day(2025, time.April, 3), Total: 100},
	}

	categories := ComputeCostsByCategory(receipts)
	if len(categories) != 3 {
		t.Fatalf("len = %d, want 3", len(categories))
	}
	if categories[0].Name != "Materiali" {
		t.Fatalf("first category = %q, want highest value first", categories[0].Name)
	}
	if categories[2].Name != "Altro" {
		t.Fatalf("uncategorized receipt bucketed as %q, want Altro", categories[2].Name)
	}

	var sum float64
	for _, c := range categories {
		sum += c.Percentage
	}
	if !almostEqual(sum, 100) {
		t.Fatalf("percentages sum = %v, want 100", sum)
	}
}

func TestComputeCostsByCategoryEmpty(t *testing.T) {
	if got := ComputeCostsByCategory(nil); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}
