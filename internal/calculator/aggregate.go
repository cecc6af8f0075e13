package calculator

import (
	"strings"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// AggregateItems sums labour hours per product family.
//
// Items whose exact name is not in the catalog are dropped. The family key is
// the part of the name before the first "-", trimmed. Quantities are half-hour
// units, so each item contributes quantity/2 hours. Output keeps the order in
// which each key was first seen.
func AggregateItems(items []domain.LineItem, catalog domain.Catalog) []domain.AggregatedItem {
	result := make([]domain.AggregatedItem, 0)
	index := make(map[string]int)

	for _, item := range items {
		if !catalog.Contains(item.Name) {
			continue
		}

		key := familyKey(item.Name)
		hours := item.Quantity / 2

		if i, ok := index[key]; ok {
			result[i].Hours += hours
			continue
		}

		index[key] = len(result)
		result = append(result, domain.AggregatedItem{Name: key, Hours: hours})
	}

	return result
}

// TotalHours sums the hours of aggregated items
func TotalHours(items []domain.AggregatedItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Hours
	}
	return total
}

func familyKey(name string) string {
	if i := strings.Index(name, "-"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
