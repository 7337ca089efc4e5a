package solver

import "testing"

func constructedGoldenRoute() []Stop {
	return BuildRoute(SelectDeliveries(demoDeliveries(), 8), demoPickups()[0])
}

func TestTwoOptImprovesGoldenRoute(t *testing.T) {
	route := constructedGoldenRoute()
	out := TwoOpt(route, 0)
	if !almostEqual(RouteLength(out), 23.709378340165593) {
		t.Fatalf("optimized length: got %v, want 23.709378340165593", RouteLength(out))
	}
	want := []string{"Depot", "D1", "D4", "D2", "P1", "D3", "Depot"}
	got := routeNames(out)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("optimized route %v, want %v", got, want)
		}
	}
}

func TestTwoOptNeverLengthens(t *testing.T) {
	route := constructedGoldenRoute()
	before := RouteLength(route)
	after := RouteLength(TwoOpt(route, 0))
	if after > before {
		t.Fatalf("2-opt lengthened the route: %v -> %v", before, after)
	}
}

func TestTwoOptIdempotent(t *testing.T) {
	once := TwoOpt(constructedGoldenRoute(), 0)
	twice := TwoOpt(once, 0)
	if !almostEqual(RouteLength(once), RouteLength(twice)) {
		t.Fatalf("second 2-opt changed length: %v -> %v", RouteLength(once), RouteLength(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("second 2-opt changed the route at %d", i)
		}
	}
}

func TestTwoOptPreservesStopSetAndEndpoints(t *testing.T) {
	route := constructedGoldenRoute()
	out := TwoOpt(route, 0)
	if len(out) != len(route) {
		t.Fatalf("stop count changed: %d -> %d", len(route), len(out))
	}
	if out[0] != Depot || out[len(out)-1] != Depot {
		t.Fatal("depot endpoints must not move")
	}
	counts := map[string]int{}
	for _, s := range route {
		counts[s.Name]++
	}
	for _, s := range out {
		counts[s.Name]--
	}
	for name, n := range counts {
		if n != 0 {
			t.Fatalf("stop multiset changed for %s", name)
		}
	}
}

func TestTwoOptPassCap(t *testing.T) {
	route := constructedGoldenRoute()
	capped := TwoOpt(route, 1)
	if RouteLength(capped) > RouteLength(route) {
		t.Fatal("capped 2-opt must still not lengthen the route")
	}
	uncapped := TwoOpt(route, 0)
	if RouteLength(uncapped) > RouteLength(capped) {
		t.Fatal("running to convergence must be at least as good as one pass")
	}
}

func TestTwoOptTinyRoutesUnchanged(t *testing.T) {
	p := Stop{Name: "P", X: 1, Y: 1, Capacity: 1, Type: TypePickup}
	route := []Stop{Depot, p, Depot}
	out := TwoOpt(route, 0)
	for i := range route {
		if out[i] != route[i] {
			t.Fatal("routes with no interior segment must come back unchanged")
		}
	}
}

func TestTwoOptDoesNotMutateInput(t *testing.T) {
	route := constructedGoldenRoute()
	orig := append([]Stop(nil), route...)
	TwoOpt(route, 0)
	for i := range orig {
		if route[i] != orig[i] {
			t.Fatalf("input route mutated at %d", i)
		}
	}
}
