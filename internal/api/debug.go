package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"pickupnav/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"PORT":                 s.Cfg.Port,
			"AUTH_MODE":            os.Getenv("AUTH_MODE"),
			"SOLVER_WORKERS":       s.Cfg.Solver.Workers,
			"TWO_OPT_MAX_PASSES":   s.Cfg.Solver.TwoOptMaxPasses,
			"RATE_RPS":             s.Cfg.Rate.RPS,
			"RATE_BURST":           s.Cfg.Rate.Burst,
			"WEBHOOK_MAX_ATTEMPTS": os.Getenv("WEBHOOK_MAX_ATTEMPTS"),
			"HAS_DATABASE_URL":     os.Getenv("DATABASE_URL") != "",
			"HAS_REDIS_URL":        os.Getenv("REDIS_URL") != "",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
