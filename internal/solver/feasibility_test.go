package solver

import "testing"

func TestCapacityFeasibleOrderSensitive(t *testing.T) {
	d := Stop{Name: "D1", X: 2, Y: 3, Capacity: 2, Type: TypeDelivery}
	p := Stop{Name: "P1", X: 4, Y: 6, Capacity: 4, Type: TypePickup}

	// Dropping the delivery first leaves room for the pickup.
	if !CapacityFeasible([]Stop{Depot, d, p, Depot}, 5) {
		t.Fatal("delivery-then-pickup must be feasible at capacity 5")
	}
	// Picking up first overloads the still-laden vehicle.
	if CapacityFeasible([]Stop{Depot, p, d, Depot}, 5) {
		t.Fatal("pickup-then-delivery must be infeasible at capacity 5")
	}
}

func TestCapacityFeasibleInitialOverload(t *testing.T) {
	d1 := Stop{Name: "D1", Capacity: 4, Type: TypeDelivery}
	d2 := Stop{Name: "D2", Capacity: 4, Type: TypeDelivery}
	if CapacityFeasible([]Stop{Depot, d1, d2, Depot}, 7) {
		t.Fatal("initial load above capacity must be infeasible before any leg")
	}
}

func TestCapacityFeasibleEqualityBoundary(t *testing.T) {
	d := Stop{Name: "D1", Capacity: 5, Type: TypeDelivery}
	p := Stop{Name: "P1", Capacity: 5, Type: TypePickup}
	if !CapacityFeasible([]Stop{Depot, d, p, Depot}, 5) {
		t.Fatal("load exactly at capacity is feasible, not rejected")
	}
}

func TestCapacityFeasibleDepotNeutral(t *testing.T) {
	p := Stop{Name: "P1", Capacity: 3, Type: TypePickup}
	if !CapacityFeasible([]Stop{Depot, p, Depot}, 3) {
		t.Fatal("depot stops must not change the load")
	}
}

func TestCapacityFeasibleDoesNotMutateRoute(t *testing.T) {
	d := Stop{Name: "D1", Capacity: 2, Type: TypeDelivery}
	p := Stop{Name: "P1", Capacity: 1, Type: TypePickup}
	route := []Stop{Depot, d, p, Depot}
	orig := append([]Stop(nil), route...)
	CapacityFeasible(route, 10)
	for i := range orig {
		if route[i] != orig[i] {
			t.Fatalf("route mutated at %d", i)
		}
	}
}
