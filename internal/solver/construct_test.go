package solver

import "testing"

func TestNearestNeighborTourOrder(t *testing.T) {
	selected := SelectDeliveries(demoDeliveries(), 8)
	tour := nearestNeighborTour(selected)
	want := []string{"Depot", "D1", "D2", "D4", "D3"}
	got := routeNames(tour)
	if len(got) != len(want) {
		t.Fatalf("tour %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tour %v, want %v", got, want)
		}
	}
	if !almostEqual(RouteLength(tour), 17.7403562717074) {
		t.Fatalf("tour length: got %v, want 17.7403562717074", RouteLength(tour))
	}
}

func TestBuildRouteInsertsPickupAtCheapestSlot(t *testing.T) {
	selected := SelectDeliveries(demoDeliveries(), 8)
	route := BuildRoute(selected, demoPickups()[0])
	want := []string{"Depot", "D1", "D2", "D4", "P1", "D3", "Depot"}
	got := routeNames(route)
	if len(got) != len(want) {
		t.Fatalf("route %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("route %v, want %v", got, want)
		}
	}
	if !almostEqual(RouteLength(route), 25.548616874969106) {
		t.Fatalf("route length: got %v, want 25.548616874969106", RouteLength(route))
	}
}

func TestBuildRouteNoDeliveries(t *testing.T) {
	p := Stop{Name: "P1", X: 3, Y: 4, Capacity: 1, Type: TypePickup}
	route := BuildRoute(nil, p)
	got := routeNames(route)
	if len(got) != 3 || got[0] != "Depot" || got[1] != "P1" || got[2] != "Depot" {
		t.Fatalf("route %v, want [Depot P1 Depot]", got)
	}
	if !almostEqual(RouteLength(route), 10) {
		t.Fatalf("route length: got %v, want 10", RouteLength(route))
	}
}

func TestBuildRouteDoesNotMutateInput(t *testing.T) {
	deliveries := demoDeliveries()
	orig := append([]Stop(nil), deliveries...)
	BuildRoute(deliveries, demoPickups()[0])
	for i := range orig {
		if deliveries[i] != orig[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestRouteLengthShortRoutes(t *testing.T) {
	if RouteLength(nil) != 0 {
		t.Fatal("empty route must have length 0")
	}
	if RouteLength([]Stop{Depot}) != 0 {
		t.Fatal("single-stop route must have length 0")
	}
}
