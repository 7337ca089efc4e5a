package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pickupnav/internal/integrations/csvstops"
	"pickupnav/internal/metrics"
	"pickupnav/internal/model"
	"pickupnav/internal/solver"
	"pickupnav/internal/store"
	"pickupnav/internal/webhooks"
)

// SolveHandler handles POST /v1/solve. Accepts application/json bodies or a
// text/csv stop list (kind,name,x,y,capacity; vehicleCapacity from the
// ?vehicleCapacity query parameter).
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.CanSolve() {
		writeProblem(w, 403, "Forbidden", "dispatcher or admin required", r.URL.Path)
		return
	}
	req, err := s.decodeSolveRequest(r)
	if err != nil {
		metrics.Solves.WithLabelValues("rejected").Inc()
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
		return
	}
	if err := validateSolveRequest(&req); err != nil {
		metrics.Solves.WithLabelValues("rejected").Inc()
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
		return
	}
	if req.TenantID == "" {
		_, req.TenantID = s.withTenant(r)
	}

	cfg := solver.Config{Workers: s.Cfg.Solver.Workers, TwoOptMaxPasses: s.Cfg.Solver.TwoOptMaxPasses}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	if req.TwoOptMaxPasses > 0 {
		cfg.TwoOptMaxPasses = req.TwoOptMaxPasses
	}

	sol, tel, ok := solver.Solve(
		toSolverStops(req.Deliveries, solver.TypeDelivery),
		toSolverStops(req.Pickups, solver.TypePickup),
		req.VehicleCapacity, cfg,
	)
	solver.RecordTelemetry(req.TenantID, tel)
	metrics.SolveDuration.Observe(tel.Elapsed.Seconds())
	metrics.PickupCandidates.Observe(float64(tel.Candidates))
	if ok {
		metrics.Solves.WithLabelValues("feasible").Inc()
	} else {
		metrics.Solves.WithLabelValues("infeasible").Inc()
	}

	out := toSolutionOut(sol, ok)
	stats := toSolveStats(tel)
	rec, err := s.Store.CreateSolve(r.Context(), req.TenantID, req, out, stats)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Persist solve failed", err.Error(), r.URL.Path)
		return
	}
	s.Latest.Upsert(rec)

	evtData := map[string]any{
		"solveId":     rec.ID,
		"tenantId":    rec.TenantID,
		"feasible":    out.Feasible,
		"pickupUsed":  out.PickupUsed,
		"deliveries":  out.Deliveries,
		"routeLength": out.RouteLength,
		"ts":          rec.CreatedAt,
	}
	s.Broker.Publish(rec.TenantID, SolveEvent{Type: webhooks.EventSolveCompleted, Data: evtData})
	s.Pub.Emit(r.Context(), rec.TenantID, webhooks.EventSolveCompleted, evtData)

	writeJSON(w, http.StatusCreated, rec)
}

// decodeSolveRequest parses the request body by content type.
func (s *Server) decodeSolveRequest(r *http.Request) (model.SolveRequest, error) {
	var req model.SolveRequest
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "text/csv") {
		deliveries, pickups, err := csvstops.Parse(r.Body)
		if err != nil {
			return req, err
		}
		req.Deliveries = deliveries
		req.Pickups = pickups
		if v := r.URL.Query().Get("vehicleCapacity"); v != "" {
			if _, err := fmt.Sscanf(v, "%g", &req.VehicleCapacity); err != nil {
				return req, fmt.Errorf("vehicleCapacity: %w", err)
			}
		}
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// SolutionsHandler handles GET /v1/solutions
func (s *Server) SolutionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	_, tenant := s.withTenant(r)
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListSolves(r.Context(), tenant, cursor, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List solutions failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// SolutionByIDHandler handles GET /v1/solutions/{id} and /v1/solutions/latest
func (s *Server) SolutionByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/solutions/")
	if id == "" {
		writeProblem(w, http.StatusBadRequest, "Missing id", "", r.URL.Path)
		return
	}
	_, tenant := s.withTenant(r)
	if id == "latest" {
		if rec, ok := s.Latest.Get(tenant); ok {
			writeJSON(w, http.StatusOK, rec)
			return
		}
		// cache misses fall back to the store, newest first
		items, _, err := s.Store.ListSolves(r.Context(), tenant, "", 1)
		if err != nil || len(items) == 0 {
			writeProblem(w, http.StatusNotFound, "No solutions", "", r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, items[0])
		return
	}
	rec, err := s.Store.GetSolve(r.Context(), tenant, id)
	if err != nil {
		if err == store.ErrNotFound {
			writeProblem(w, http.StatusNotFound, "Solution not found", "", r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Get solution failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SubscriptionsHandler handles POST/GET /v1/subscriptions
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req model.SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if req.URL == "" || len(req.Events) == 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid subscription", "url and events are required", r.URL.Path)
			return
		}
		if req.TenantID == "" {
			_, req.TenantID = s.withTenant(r)
		}
		sub, err := s.Store.CreateSubscription(r.Context(), req)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create subscription failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	case http.MethodGet:
		_, tenant := s.withTenant(r)
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		items, next, err := s.Store.ListSubscriptions(r.Context(), tenant, cursor, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List subscriptions failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SubscriptionByIDHandler handles DELETE /v1/subscriptions/{id}
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/")
	if id == "" {
		writeProblem(w, http.StatusBadRequest, "Missing id", "", r.URL.Path)
		return
	}
	_, tenant := s.withTenant(r)
	if err := s.Store.DeleteSubscription(r.Context(), tenant, id); err != nil {
		if err == store.ErrNotFound {
			writeProblem(w, http.StatusNotFound, "Subscription not found", "", r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Delete subscription failed", err.Error(), r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SolveStatsHandler handles GET /v1/admin/solve-stats
func (s *Server) SolveStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, 403, "Forbidden", "admin required", r.URL.Path)
		return
	}
	_, tenant := s.withTenant(r)
	agg, err := s.Store.SolveStats(r.Context(), tenant)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Solve stats failed", err.Error(), r.URL.Path)
		return
	}
	recent := solver.GetTelemetry(tenant)
	var passes, moves, skipped int
	var elapsed time.Duration
	for _, t := range recent {
		passes += t.TwoOptPasses
		moves += t.TwoOptMoves
		skipped += t.Skipped
		elapsed += t.Elapsed
	}
	solverStats := map[string]any{
		"recentSolves": len(recent),
		"twoOptPasses": passes,
		"twoOptMoves":  moves,
		"skipped":      skipped,
	}
	if len(recent) > 0 {
		solverStats["avgElapsedMs"] = elapsed.Milliseconds() / int64(len(recent))
	}
	writeJSON(w, http.StatusOK, map[string]any{"store": agg, "solver": solverStats})
}

// HealthHandler handles GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler handles GET /readyz
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeProblem(w, http.StatusServiceUnavailable, "Not ready", "store not initialized", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func toSolverStops(in []model.StopIn, typ solver.StopType) []solver.Stop {
	out := make([]solver.Stop, 0, len(in))
	for _, s := range in {
		out = append(out, solver.Stop{Name: s.Name, X: s.X, Y: s.Y, Capacity: s.Capacity, Type: typ})
	}
	return out
}

func toSolutionOut(sol solver.Solution, ok bool) model.SolutionOut {
	if !ok {
		return model.SolutionOut{Feasible: false}
	}
	route := make([]model.RouteStop, 0, len(sol.Route))
	for _, st := range sol.Route {
		route = append(route, model.RouteStop{Name: st.Name, Type: string(st.Type), X: st.X, Y: st.Y, Capacity: st.Capacity})
	}
	return model.SolutionOut{
		Feasible:    true,
		Route:       route,
		PickupUsed:  sol.Pickup.Name,
		Deliveries:  sol.Deliveries,
		RouteLength: sol.Length,
	}
}

func toSolveStats(t solver.Telemetry) model.SolveStats {
	return model.SolveStats{
		Candidates:   t.Candidates,
		Infeasible:   t.Infeasible,
		Skipped:      t.Skipped,
		TwoOptPasses: t.TwoOptPasses,
		TwoOptMoves:  t.TwoOptMoves,
		ElapsedMs:    t.Elapsed.Milliseconds(),
	}
}
