package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"pickupnav/internal/model"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// EnsureSchema creates the tables used by the service. Safe to run on every
// startup.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS solves (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			request JSONB NOT NULL,
			solution JSONB NOT NULL,
			stats JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS solves_tenant_created_idx ON solves (tenant_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			url TEXT NOT NULL,
			events JSONB NOT NULL,
			secret TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS webhook_deliveries (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			subscription_id TEXT NOT NULL DEFAULT '',
			event_type TEXT NOT NULL,
			url TEXT NOT NULL,
			secret TEXT NOT NULL DEFAULT '',
			payload BYTEA NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			attempts INT NOT NULL DEFAULT 0,
			next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_error TEXT NOT NULL DEFAULT '',
			response_code INT NOT NULL DEFAULT 0,
			latency_ms INT NOT NULL DEFAULT 0,
			delivered_at TIMESTAMPTZ
		)`,
	}
	for _, s := range stmts {
		if _, err := p.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) CreateSolve(ctx context.Context, tenantID string, req model.SolveRequest, sol model.SolutionOut, stats model.SolveStats) (model.SolveRecord, error) {
	rec := model.SolveRecord{
		ID:        "sol_" + uuid.NewString(),
		TenantID:  tenantID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Request:   req,
		Solution:  sol,
		Stats:     stats,
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO solves (id, tenant_id, created_at, request, solution, stats) VALUES ($1,$2,$3,$4,$5,$6)`,
		rec.ID, tenantID, rec.CreatedAt, toJSON(req), toJSON(sol), toJSON(stats))
	if err != nil {
		return model.SolveRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) GetSolve(ctx context.Context, tenantID, id string) (model.SolveRecord, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, created_at::text, request, solution, stats FROM solves WHERE tenant_id=$1 AND id=$2`,
		tenantID, id)
	return scanSolve(row)
}

func (p *Postgres) ListSolves(ctx context.Context, tenantID, cursor string, limit int) ([]model.SolveRecord, string, error) {
	if limit <= 0 {
		limit = 100
	}
	offset := 0
	if cursor != "" {
		if n, err := strconv.Atoi(cursor); err == nil && n > 0 {
			offset = n
		}
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, tenant_id, created_at::text, request, solution, stats FROM solves
		 WHERE tenant_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit+1, offset)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = rows.Close() }()
	out := []model.SolveRecord{}
	for rows.Next() {
		rec, err := scanSolve(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, rec)
	}
	next := ""
	if len(out) > limit {
		out = out[:limit]
		next = strconv.Itoa(offset + limit)
	}
	return out, next, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolve(row rowScanner) (model.SolveRecord, error) {
	var rec model.SolveRecord
	var reqB, solB, statsB []byte
	if err := row.Scan(&rec.ID, &rec.TenantID, &rec.CreatedAt, &reqB, &solB, &statsB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SolveRecord{}, ErrNotFound
		}
		return model.SolveRecord{}, err
	}
	if err := json.Unmarshal(reqB, &rec.Request); err != nil {
		return model.SolveRecord{}, err
	}
	if err := json.Unmarshal(solB, &rec.Solution); err != nil {
		return model.SolveRecord{}, err
	}
	if err := json.Unmarshal(statsB, &rec.Stats); err != nil {
		return model.SolveRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
	sub := model.Subscription{
		ID:       "sub_" + uuid.NewString(),
		TenantID: req.TenantID,
		URL:      req.URL,
		Events:   append([]string(nil), req.Events...),
		Secret:   req.Secret,
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, tenant_id, url, events, secret) VALUES ($1,$2,$3,$4,$5)`,
		sub.ID, sub.TenantID, sub.URL, toJSON(sub.Events), sub.Secret)
	if err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

func (p *Postgres) GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error) {
	subs, _, err := p.ListSubscriptions(ctx, tenantID, "", 1000)
	if err != nil {
		return nil, err
	}
	out := []model.Subscription{}
	for _, s := range subs {
		for _, e := range s.Events {
			if e == eventType || e == "*" {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (p *Postgres) ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error) {
	if limit <= 0 {
		limit = 100
	}
	offset := 0
	if cursor != "" {
		if n, err := strconv.Atoi(cursor); err == nil && n > 0 {
			offset = n
		}
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, tenant_id, url, events, secret FROM subscriptions WHERE tenant_id=$1 ORDER BY id LIMIT $2 OFFSET $3`,
		tenantID, limit+1, offset)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = rows.Close() }()
	out := []model.Subscription{}
	for rows.Next() {
		var s model.Subscription
		var eventsB []byte
		if err := rows.Scan(&s.ID, &s.TenantID, &s.URL, &eventsB, &s.Secret); err != nil {
			return nil, "", err
		}
		if err := json.Unmarshal(eventsB, &s.Events); err != nil {
			return nil, "", err
		}
		out = append(out, s)
	}
	next := ""
	if len(out) > limit {
		out = out[:limit]
		next = strconv.Itoa(offset + limit)
	}
	return out, next, rows.Err()
}

func (p *Postgres) DeleteSubscription(ctx context.Context, tenantID, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	id := "whd_" + uuid.NewString()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO webhook_deliveries (id, tenant_id, subscription_id, event_type, url, secret, payload) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, tenantID, subscriptionID, eventType, url, secret, payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, tenant_id, subscription_id, event_type, url, secret, payload, status, attempts
		 FROM webhook_deliveries WHERE status='pending' AND next_attempt_at <= now()
		 ORDER BY next_attempt_at LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []WebhookDelivery{}
	for rows.Next() {
		var d WebhookDelivery
		if err := rows.Scan(&d.ID, &d.TenantID, &d.SubscriptionID, &d.EventType, &d.URL, &d.Secret, &d.Payload, &d.Status, &d.Attempts); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	if success {
		_, err := p.db.ExecContext(ctx,
			`UPDATE webhook_deliveries SET status='delivered', attempts=attempts+1, last_error=$2, response_code=$3, latency_ms=$4, delivered_at=now() WHERE id=$1`,
			id, lastError, responseCode, latencyMs)
		return err
	}
	var next any
	if nextAttemptAt != nil {
		next = *nextAttemptAt
	}
	_, err := p.db.ExecContext(ctx,
		`UPDATE webhook_deliveries SET attempts=attempts+1, next_attempt_at=COALESCE($2, next_attempt_at), last_error=$3, response_code=$4, latency_ms=$5 WHERE id=$1`,
		id, next, lastError, responseCode, latencyMs)
	return err
}

func (p *Postgres) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE webhook_deliveries SET status='failed', attempts=attempts+1, last_error=$2, response_code=$3, latency_ms=$4 WHERE id=$1`,
		id, lastError, responseCode, latencyMs)
	return err
}

func (p *Postgres) SolveStats(ctx context.Context, tenantID string) (map[string]any, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE (solution->>'feasible')::bool),
		        COALESCE(sum((solution->>'deliveries')::int) FILTER (WHERE (solution->>'feasible')::bool), 0),
		        COALESCE(sum((solution->>'routeLength')::float8) FILTER (WHERE (solution->>'feasible')::bool), 0)
		 FROM solves WHERE tenant_id=$1`, tenantID)
	var total, feasible, deliveries int
	var length float64
	if err := row.Scan(&total, &feasible, &deliveries, &length); err != nil {
		return nil, err
	}
	return map[string]any{
		"solves":          total,
		"feasible":        feasible,
		"totalDeliveries": deliveries,
		"totalLength":     length,
	}, nil
}

func toJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
