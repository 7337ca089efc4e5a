// Package solver plans a single-vehicle tour that serves a capacity-limited
// subset of deliveries and exactly one pickup, starting and ending at the depot.
package solver

import "time"

// StopType tags a stop as depot, delivery or pickup.
type StopType string

const (
	TypeDepot    StopType = "depot"
	TypeDelivery StopType = "delivery"
	TypePickup   StopType = "pickup"
)

// Stop is a located point with a capacity value.
// Deliveries remove their capacity from the vehicle load when visited,
// pickups add theirs.
type Stop struct {
	Name     string
	X, Y     float64
	Capacity float64
	Type     StopType
}

// Depot is the shared start/end stop at the origin. Treated as immutable;
// routes compare depot stops by value, never by identity.
var Depot = Stop{Name: "Depot", Type: TypeDepot}

// Config tunes a solve. The zero value reproduces the sequential,
// uncapped behavior.
type Config struct {
	// Workers > 1 evaluates pickup candidates concurrently. Results are
	// reduced in input order, so the winner is identical to a sequential run.
	Workers int
	// TwoOptMaxPasses caps local-search scan passes per candidate route.
	// 0 means run to convergence.
	TwoOptMaxPasses int
}

// Solution is the terminal result of a solve: the chosen closed route, the
// pickup it serves, the number of deliveries on it and its total length.
type Solution struct {
	Route      []Stop
	Pickup     Stop
	Deliveries int
	Length     float64
}

// Telemetry reports what a solve did across all pickup candidates.
type Telemetry struct {
	Candidates   int
	Infeasible   int
	Skipped      int
	TwoOptPasses int
	TwoOptMoves  int
	Elapsed      time.Duration
}
