package solver

import "testing"

func TestSelectDeliveriesGreedyOrder(t *testing.T) {
	got := SelectDeliveries(demoDeliveries(), 8)
	want := []string{"D2", "D1", "D4", "D3"}
	if len(got) != len(want) {
		t.Fatalf("selected %v, want %v", routeNames(got), want)
	}
	total := 0.0
	for i, s := range got {
		if s.Name != want[i] {
			t.Fatalf("selected %v, want %v", routeNames(got), want)
		}
		total += s.Capacity
	}
	if total > 8 {
		t.Fatalf("selection sum %v exceeds budget", total)
	}
}

func TestSelectDeliveriesTieBreakByDepotDistance(t *testing.T) {
	deliveries := []Stop{
		{Name: "FAR", X: 10, Y: 10, Capacity: 2, Type: TypeDelivery},
		{Name: "NEAR", X: 1, Y: 1, Capacity: 2, Type: TypeDelivery},
	}
	got := SelectDeliveries(deliveries, 2)
	if len(got) != 1 || got[0].Name != "NEAR" {
		t.Fatalf("equal capacities must prefer the stop nearer the depot, got %v", routeNames(got))
	}
}

func TestSelectDeliveriesEmptyAndZeroBudget(t *testing.T) {
	if got := SelectDeliveries(nil, 10); len(got) != 0 {
		t.Fatalf("empty input must select nothing, got %v", routeNames(got))
	}
	if got := SelectDeliveries(demoDeliveries(), 0); len(got) != 0 {
		t.Fatalf("zero budget must select nothing, got %v", routeNames(got))
	}
	if got := SelectDeliveries(demoDeliveries(), -3); len(got) != 0 {
		t.Fatalf("negative budget must select nothing, got %v", routeNames(got))
	}
}

func TestSelectDeliveriesDoesNotMutateInput(t *testing.T) {
	deliveries := demoDeliveries()
	orig := append([]Stop(nil), deliveries...)
	SelectDeliveries(deliveries, 8)
	for i := range orig {
		if deliveries[i] != orig[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}
