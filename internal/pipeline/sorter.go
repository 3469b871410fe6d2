package pipeline

import (
	"sort"

	"taxreport/internal/model"
)

// SortByCreatedTime returns the lines ordered by ascending timestamp. The
// sort is stable and ties keep their original input order. Invoice
// allocation depends on first-appearance order, so the result must be
// deterministic for a fixed input. Lines without a parsable timestamp sort
// as the minimum key and end up first, still in input order.
func SortByCreatedTime(lines []model.OrderLine) []model.OrderLine {
	sorted := make([]model.OrderLine, len(lines))
	copy(sorted, lines)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CreatedTime, sorted[j].CreatedTime
		if a == nil {
			return b != nil
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})

	return sorted
}
