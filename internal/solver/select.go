package solver

import "sort"

// SelectDeliveries picks a subset of deliveries whose capacities sum to at
// most limit. Candidates are tried smallest capacity first, nearest to the
// depot on equal capacity, and a stop that would overflow the budget is
// skipped without ending the scan. The caller's slice is not modified.
func SelectDeliveries(deliveries []Stop, limit float64) []Stop {
	if limit < 0 || len(deliveries) == 0 {
		return nil
	}
	ordered := append([]Stop(nil), deliveries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Capacity != ordered[j].Capacity {
			return ordered[i].Capacity < ordered[j].Capacity
		}
		return Distance(Depot, ordered[i]) < Distance(Depot, ordered[j])
	})

	selected := make([]Stop, 0, len(ordered))
	total := 0.0
	for _, d := range ordered {
		if total+d.Capacity <= limit {
			selected = append(selected, d)
			total += d.Capacity
		}
	}
	return selected
}
