package solver

import "math"

// Distance returns the Euclidean distance between two stops.
func Distance(a, b Stop) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// RouteLength sums consecutive leg distances. Routes shorter than two
// stops have length 0.
func RouteLength(route []Stop) float64 {
	total := 0.0
	for i := 0; i < len(route)-1; i++ {
		total += Distance(route[i], route[i+1])
	}
	return total
}
