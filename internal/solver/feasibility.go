package solver

// CapacityFeasible simulates vehicle load along the route. The vehicle
// leaves the depot already carrying the full weight of every delivery on the
// route; deliveries shed their capacity on arrival, pickups add theirs,
// depot stops change nothing. The route is infeasible the moment the load
// exceeds vehicleCapacity, including before the first leg. Reordering a
// feasible route can therefore make it infeasible. The route is not modified.
func CapacityFeasible(route []Stop, vehicleCapacity float64) bool {
	load := 0.0
	for _, s := range route {
		if s.Type == TypeDelivery {
			load += s.Capacity
		}
	}
	if load > vehicleCapacity {
		return false
	}
	for _, s := range route {
		switch s.Type {
		case TypeDelivery:
			load -= s.Capacity
		case TypePickup:
			load += s.Capacity
		}
		if load > vehicleCapacity {
			return false
		}
	}
	return true
}
