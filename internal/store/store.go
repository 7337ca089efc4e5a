package store

import (
	"context"
	"errors"
	"time"

	"pickupnav/internal/model"
)

// Store is the persistence interface used by the API server.
type Store interface {
	// Solve runs
	CreateSolve(ctx context.Context, tenantID string, req model.SolveRequest, sol model.SolutionOut, stats model.SolveStats) (model.SolveRecord, error)
	GetSolve(ctx context.Context, tenantID, id string) (model.SolveRecord, error)
	ListSolves(ctx context.Context, tenantID, cursor string, limit int) ([]model.SolveRecord, string, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error)
	GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error)
	ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error)
	DeleteSubscription(ctx context.Context, tenantID, id string) error

	// Webhook deliveries
	EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error

	// Aggregates for the admin stats endpoint
	SolveStats(ctx context.Context, tenantID string) (map[string]any, error)
}

var ErrNotFound = errors.New("not found")
