package solver

import "sync"

// Rolling window of telemetry records kept per tenant for the admin
// stats endpoint.
const telemetryWindow = 100

var (
	mu    sync.Mutex
	store = map[string][]Telemetry{}
)

// RecordTelemetry appends a solve's telemetry for the tenant, evicting the
// oldest record once the window is full.
func RecordTelemetry(tenant string, t Telemetry) {
	mu.Lock()
	defer mu.Unlock()
	recs := append(store[tenant], t)
	if len(recs) > telemetryWindow {
		recs = recs[len(recs)-telemetryWindow:]
	}
	store[tenant] = recs
}

// GetTelemetry returns a copy of the tenant's recorded telemetry,
// oldest first.
func GetTelemetry(tenant string) []Telemetry {
	mu.Lock()
	defer mu.Unlock()
	return append([]Telemetry(nil), store[tenant]...)
}
