package model

// API request/response types for the pickup-dispatch service.

// StopIn is a stop as submitted by callers.
type StopIn struct {
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Capacity float64 `json:"capacity"`
}

// SolveRequest carries one dispatch problem: candidate deliveries, candidate
// pickups and the vehicle capacity. Workers and TwoOptMaxPasses override the
// server's solver defaults when > 0.
type SolveRequest struct {
	TenantID        string   `json:"tenantId,omitempty"`
	Deliveries      []StopIn `json:"deliveries"`
	Pickups         []StopIn `json:"pickups"`
	VehicleCapacity float64  `json:"vehicleCapacity"`
	Workers         int      `json:"workers,omitempty"`
	TwoOptMaxPasses int      `json:"twoOptMaxPasses,omitempty"`
}

// RouteStop is one stop of a solved route in visit order.
type RouteStop struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Capacity float64 `json:"capacity"`
}

// SolutionOut is the solve outcome. Feasible=false marks the normal
// "no pickup worked" result; the remaining fields are then empty.
type SolutionOut struct {
	Feasible    bool        `json:"feasible"`
	Route       []RouteStop `json:"route,omitempty"`
	PickupUsed  string      `json:"pickupUsed,omitempty"`
	Deliveries  int         `json:"deliveries"`
	RouteLength float64     `json:"routeLength"`
}

// SolveStats summarizes solver work for one request.
type SolveStats struct {
	Candidates   int   `json:"candidates"`
	Infeasible   int   `json:"infeasible"`
	Skipped      int   `json:"skipped"`
	TwoOptPasses int   `json:"twoOptPasses"`
	TwoOptMoves  int   `json:"twoOptMoves"`
	ElapsedMs    int64 `json:"elapsedMs"`
}

// SolveRecord is a persisted solve run.
type SolveRecord struct {
	ID        string       `json:"id"`
	TenantID  string       `json:"tenantId"`
	CreatedAt string       `json:"createdAt"`
	Request   SolveRequest `json:"request"`
	Solution  SolutionOut  `json:"solution"`
	Stats     SolveStats   `json:"stats"`
}

// SubscriptionRequest registers a webhook endpoint for solve events.
type SubscriptionRequest struct {
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret"`
}

// Subscription is a stored webhook subscription.
type Subscription struct {
	ID       string   `json:"id"`
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret,omitempty"`
}
