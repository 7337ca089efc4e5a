package api

import (
	"fmt"
	"math"

	"pickupnav/internal/model"
)

// validateSolveRequest rejects malformed input before it reaches the solver.
// The solver itself trusts its inputs, so negative capacities, NaN or
// infinite coordinates and unnamed stops must be caught here.
func validateSolveRequest(req *model.SolveRequest) error {
	if !isFinite(req.VehicleCapacity) {
		return fmt.Errorf("vehicleCapacity must be a finite number")
	}
	if req.VehicleCapacity < 0 {
		return fmt.Errorf("vehicleCapacity must be >= 0")
	}
	if len(req.Pickups) == 0 {
		return fmt.Errorf("at least one pickup candidate is required")
	}
	if req.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	if req.TwoOptMaxPasses < 0 {
		return fmt.Errorf("twoOptMaxPasses must be >= 0")
	}
	if err := validateStops("deliveries", req.Deliveries); err != nil {
		return err
	}
	return validateStops("pickups", req.Pickups)
}

func validateStops(field string, stops []model.StopIn) error {
	seen := map[string]struct{}{}
	for i, s := range stops {
		if s.Name == "" {
			return fmt.Errorf("%s[%d]: name must not be empty", field, i)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%s[%d]: duplicate name %q", field, i, s.Name)
		}
		seen[s.Name] = struct{}{}
		if !isFinite(s.X) || !isFinite(s.Y) {
			return fmt.Errorf("%s[%d] %q: coordinates must be finite", field, i, s.Name)
		}
		if !isFinite(s.Capacity) || s.Capacity < 0 {
			return fmt.Errorf("%s[%d] %q: capacity must be a finite number >= 0", field, i, s.Name)
		}
	}
	return nil
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
