package analytics

import "sort"

// fallbackCategory labels receipts that carry no category.
const fallbackCategory = "Altro"

// CategoryCost is one slice of the cost-by-category breakdown.
type CategoryCost struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// ComputeCostsByCategory buckets receipt totals by their free-text category
// label, sorted by descending value.
func ComputeCostsByCategory(receipts []Receipt) []CategoryCost {
	totals := make(map[string]float64)
	var grandTotal float64
	for _, rec := range receipts {
		name := rec.Category
		if name == "" {
			name = fallbackCategory
		}
		totals[name] += rec.Total
		grandTotal += rec.Total
	}

	categories := make([]CategoryCost, 0, len(totals))
	for name, value := range totals {
		categories = append(categories, CategoryCost{
			Name:       name,
			Value:      value,
			Percentage: safePercent(value, grandTotal),
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Value != categories[j].Value {
			return categories[i].Value > categories[j].Value
		}
		return categories[i].Name < categories[j].Name
	})
	return categories
}
