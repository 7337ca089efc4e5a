package solver

import (
	"sync"
	"time"
)

// candidate is one evaluated pickup, tagged with its input index so the
// reduction can break score ties deterministically.
type candidate struct {
	index    int
	sol      Solution
	feasible bool
	skipped  bool
	passes   int
	moves    int
}

// Solve evaluates every pickup candidate in input order and returns the
// best-scoring feasible solution. Score is lexicographic: more deliveries
// served wins, shorter route breaks the tie, and on a fully equal score the
// earlier pickup in the input keeps the win. ok is false when no pickup
// yields a capacity-feasible route, which is a normal outcome rather than
// an error. Input slices are never modified.
func Solve(deliveries, pickups []Stop, vehicleCapacity float64, cfg Config) (Solution, Telemetry, bool) {
	start := time.Now()
	tel := Telemetry{Candidates: len(pickups)}

	results := make([]candidate, len(pickups))
	if cfg.Workers > 1 && len(pickups) > 1 {
		jobs := make(chan int)
		var wg sync.WaitGroup
		workers := cfg.Workers
		if workers > len(pickups) {
			workers = len(pickups)
		}
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = evaluate(i, deliveries, pickups[i], vehicleCapacity, cfg)
				}
			}()
		}
		for i := range pickups {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	} else {
		for i := range pickups {
			results[i] = evaluate(i, deliveries, pickups[i], vehicleCapacity, cfg)
		}
	}

	var best Solution
	found := false
	for _, c := range results {
		tel.TwoOptPasses += c.passes
		tel.TwoOptMoves += c.moves
		if c.skipped {
			tel.Skipped++
			continue
		}
		if !c.feasible {
			tel.Infeasible++
			continue
		}
		if !found || better(c.sol, best) {
			best = c.sol
			found = true
		}
	}
	tel.Elapsed = time.Since(start)
	return best, tel, found
}

// evaluate runs the full pipeline for one pickup: budget the deliveries,
// build and optimize the tour, then validate the load profile.
func evaluate(index int, deliveries []Stop, pickup Stop, vehicleCapacity float64, cfg Config) candidate {
	// The delivery budget is the full vehicle capacity; the pickup's own
	// weight is not reserved up front. CapacityFeasible below is the real
	// gate and discards routes the pickup overloads.
	budget := vehicleCapacity
	if budget < 0 {
		return candidate{index: index, skipped: true}
	}

	selected := SelectDeliveries(deliveries, budget)
	route := BuildRoute(selected, pickup)
	route, passes, moves := twoOpt(route, cfg.TwoOptMaxPasses)

	c := candidate{index: index, passes: passes, moves: moves}
	if !CapacityFeasible(route, vehicleCapacity) {
		return c
	}
	c.feasible = true
	c.sol = Solution{
		Route:      route,
		Pickup:     pickup,
		Deliveries: len(selected),
		Length:     RouteLength(route),
	}
	return c
}

// better reports whether a strictly outscores b: deliveries descending,
// then length ascending. Equality is not better, so earlier candidates win.
func better(a, b Solution) bool {
	if a.Deliveries != b.Deliveries {
		return a.Deliveries > b.Deliveries
	}
	return a.Length < b.Length
}
