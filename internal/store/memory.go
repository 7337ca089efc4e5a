package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"pickupnav/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu       sync.Mutex
	solves   map[string]model.SolveRecord // id -> record
	byTen    map[string][]string          // tenant -> solve ids, oldest first
	subs     map[string][]model.Subscription
	// Webhooks queue state
	deliveries map[string]*memDelivery
	order      []string // delivery ids in enqueue order
}

func NewMemory() *Memory {
	return &Memory{
		solves:     map[string]model.SolveRecord{},
		byTen:      map[string][]string{},
		subs:       map[string][]model.Subscription{},
		deliveries: map[string]*memDelivery{},
	}
}

// memDelivery augments WebhookDelivery with scheduling/metrics
type memDelivery struct {
	WebhookDelivery
	NextAttemptAt time.Time
	LastError     string
	ResponseCode  int
	LatencyMs     int
	DeliveredAt   *time.Time
}

func (m *Memory) CreateSolve(_ context.Context, tenantID string, req model.SolveRequest, sol model.SolutionOut, stats model.SolveStats) (model.SolveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := model.SolveRecord{
		ID:        "sol_" + uuid.NewString(),
		TenantID:  tenantID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Request:   req,
		Solution:  sol,
		Stats:     stats,
	}
	m.solves[rec.ID] = rec
	m.byTen[tenantID] = append(m.byTen[tenantID], rec.ID)
	return rec, nil
}

func (m *Memory) GetSolve(_ context.Context, tenantID, id string) (model.SolveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.solves[id]
	if !ok || rec.TenantID != tenantID {
		return model.SolveRecord{}, ErrNotFound
	}
	return rec, nil
}

// ListSolves pages newest first; cursor is the numeric offset of the next page.
func (m *Memory) ListSolves(_ context.Context, tenantID, cursor string, limit int) ([]model.SolveRecord, string, error) {
	if limit <= 0 {
		limit = 100
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.byTen[tenantID]
	start := 0
	if cursor != "" {
		if n, err := strconv.Atoi(cursor); err == nil && n > 0 {
			start = n
		}
	}
	out := []model.SolveRecord{}
	for i := len(ids) - 1 - start; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.solves[ids[i]])
	}
	next := ""
	if start+len(out) < len(ids) {
		next = strconv.Itoa(start + len(out))
	}
	return out, next, nil
}

func (m *Memory) CreateSubscription(_ context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := model.Subscription{
		ID:       "sub_" + uuid.NewString(),
		TenantID: req.TenantID,
		URL:      req.URL,
		Events:   append([]string(nil), req.Events...),
		Secret:   req.Secret,
	}
	m.subs[req.TenantID] = append(m.subs[req.TenantID], sub)
	return sub, nil
}

func (m *Memory) GetSubscriptionsForEvent(_ context.Context, tenantID, eventType string) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Subscription{}
	for _, s := range m.subs[tenantID] {
		for _, e := range s.Events {
			if e == eventType || e == "*" {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) ListSubscriptions(_ context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error) {
	if limit <= 0 {
		limit = 100
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[tenantID]
	start := 0
	if cursor != "" {
		if n, err := strconv.Atoi(cursor); err == nil && n > 0 {
			start = n
		}
	}
	out := []model.Subscription{}
	for i := start; i < len(subs) && len(out) < limit; i++ {
		out = append(out, subs[i])
	}
	next := ""
	if start+len(out) < len(subs) {
		next = strconv.Itoa(start + len(out))
	}
	return out, next, nil
}

func (m *Memory) DeleteSubscription(_ context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[tenantID]
	for i, s := range subs {
		if s.ID == id {
			m.subs[tenantID] = append(subs[:i], subs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) EnqueueWebhook(_ context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := "whd_" + uuid.NewString()
	m.deliveries[id] = &memDelivery{
		WebhookDelivery: WebhookDelivery{
			ID:             id,
			TenantID:       tenantID,
			SubscriptionID: subscriptionID,
			EventType:      eventType,
			URL:            url,
			Secret:         secret,
			Payload:        append([]byte(nil), payload...),
			Status:         "pending",
		},
		NextAttemptAt: time.Now(),
	}
	m.order = append(m.order, id)
	return id, nil
}

func (m *Memory) FetchDueWebhookDeliveries(_ context.Context, limit int) ([]WebhookDelivery, error) {
	if limit <= 0 {
		limit = 50
	}
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []WebhookDelivery{}
	for _, id := range m.order {
		d := m.deliveries[id]
		if d == nil || d.Status != "pending" || d.NextAttemptAt.After(now) {
			continue
		}
		out = append(out, d.WebhookDelivery)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) MarkWebhookDelivery(_ context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return ErrNotFound
	}
	d.Attempts++
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	if success {
		d.Status = "delivered"
		now := time.Now()
		d.DeliveredAt = &now
		return nil
	}
	if nextAttemptAt != nil {
		d.NextAttemptAt = *nextAttemptAt
	}
	return nil
}

func (m *Memory) FailWebhookDelivery(_ context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return ErrNotFound
	}
	d.Attempts++
	d.Status = "failed"
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	return nil
}

func (m *Memory) SolveStats(_ context.Context, tenantID string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	feasible := 0
	deliveries := 0
	length := 0.0
	for _, id := range m.byTen[tenantID] {
		rec := m.solves[id]
		total++
		if rec.Solution.Feasible {
			feasible++
			deliveries += rec.Solution.Deliveries
			length += rec.Solution.RouteLength
		}
	}
	return map[string]any{
		"solves":          total,
		"feasible":        feasible,
		"totalDeliveries": deliveries,
		"totalLength":     length,
	}, nil
}
