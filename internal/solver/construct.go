package solver

import "math"

// BuildRoute constructs the closed tour depot -> deliveries -> depot with the
// pickup spliced into its cheapest slot. No feasibility check happens here;
// that is CapacityFeasible's job.
func BuildRoute(deliveries []Stop, pickup Stop) []Stop {
	route := nearestNeighborTour(deliveries)
	route = insertPickup(route, pickup)
	return append(route, Depot)
}

// nearestNeighborTour orders deliveries by repeatedly walking to the closest
// unvisited stop, starting from the depot. Ties keep the earliest candidate
// in input order. The input slice is left untouched.
func nearestNeighborTour(deliveries []Stop) []Stop {
	route := make([]Stop, 0, len(deliveries)+1)
	route = append(route, Depot)
	current := Depot

	pool := append([]Stop(nil), deliveries...)
	visited := make([]bool, len(pool))
	for range pool {
		next := -1
		nextDist := math.MaxFloat64
		for i, d := range pool {
			if visited[i] {
				continue
			}
			if dd := Distance(current, d); dd < nextDist {
				nextDist = dd
				next = i
			}
		}
		visited[next] = true
		route = append(route, pool[next])
		current = pool[next]
	}
	return route
}

// insertPickup places the pickup at the position with the smallest marginal
// distance increase, first minimum on ties. The route passed in is the open
// tour depot -> deliveries; a route with no deliveries gets the pickup
// appended directly after the depot.
func insertPickup(route []Stop, pickup Stop) []Stop {
	bestPos := len(route)
	bestInc := math.MaxFloat64
	for i := 1; i < len(route); i++ {
		inc := Distance(route[i-1], pickup) + Distance(pickup, route[i]) - Distance(route[i-1], route[i])
		if inc < bestInc {
			bestInc = inc
			bestPos = i
		}
	}
	out := make([]Stop, 0, len(route)+1)
	out = append(out, route[:bestPos]...)
	out = append(out, pickup)
	return append(out, route[bestPos:]...)
}
