package store

import (
	"context"
	"testing"
	"time"

	"pickupnav/internal/model"
)

func testRecord() (model.SolveRequest, model.SolutionOut, model.SolveStats) {
	req := model.SolveRequest{
		Deliveries:      []model.StopIn{{Name: "D1", X: 2, Y: 3, Capacity: 2}},
		Pickups:         []model.StopIn{{Name: "P1", X: 4, Y: 6, Capacity: 4}},
		VehicleCapacity: 8,
	}
	sol := model.SolutionOut{Feasible: true, PickupUsed: "P1", Deliveries: 1, RouteLength: 12.5}
	stats := model.SolveStats{Candidates: 1}
	return req, sol, stats
}

func TestMemorySolveRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	req, sol, stats := testRecord()

	rec, err := m.CreateSolve(ctx, "t1", req, sol, stats)
	if err != nil {
		t.Fatalf("CreateSolve: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt == "" {
		t.Fatalf("record missing id/timestamp: %+v", rec)
	}

	got, err := m.GetSolve(ctx, "t1", rec.ID)
	if err != nil {
		t.Fatalf("GetSolve: %v", err)
	}
	if got.Solution.PickupUsed != "P1" || got.Request.VehicleCapacity != 8 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := m.GetSolve(ctx, "t2", rec.ID); err != ErrNotFound {
		t.Fatalf("cross-tenant read must be ErrNotFound, got %v", err)
	}
	if _, err := m.GetSolve(ctx, "t1", "sol_missing"); err != ErrNotFound {
		t.Fatalf("missing id must be ErrNotFound, got %v", err)
	}
}

func TestMemoryListSolvesPaging(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	req, sol, stats := testRecord()
	for i := 0; i < 5; i++ {
		if _, err := m.CreateSolve(ctx, "t1", req, sol, stats); err != nil {
			t.Fatalf("CreateSolve: %v", err)
		}
	}
	page1, next, err := m.ListSolves(ctx, "t1", "", 2)
	if err != nil {
		t.Fatalf("ListSolves: %v", err)
	}
	if len(page1) != 2 || next == "" {
		t.Fatalf("page1: len=%d next=%q", len(page1), next)
	}
	page2, next2, err := m.ListSolves(ctx, "t1", next, 2)
	if err != nil {
		t.Fatalf("ListSolves page2: %v", err)
	}
	if len(page2) != 2 || next2 == "" {
		t.Fatalf("page2: len=%d next=%q", len(page2), next2)
	}
	page3, next3, err := m.ListSolves(ctx, "t1", next2, 2)
	if err != nil {
		t.Fatalf("ListSolves page3: %v", err)
	}
	if len(page3) != 1 || next3 != "" {
		t.Fatalf("page3: len=%d next=%q", len(page3), next3)
	}
}

func TestMemorySubscriptionsAndEventMatch(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	sub, err := m.CreateSubscription(ctx, model.SubscriptionRequest{
		TenantID: "t1", URL: "https://example.invalid/hook", Events: []string{"solve.completed"}, Secret: "shh",
	})
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	matched, err := m.GetSubscriptionsForEvent(ctx, "t1", "solve.completed")
	if err != nil || len(matched) != 1 {
		t.Fatalf("expected one match, got %d err=%v", len(matched), err)
	}
	none, err := m.GetSubscriptionsForEvent(ctx, "t1", "other.event")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no match, got %d err=%v", len(none), err)
	}
	if err := m.DeleteSubscription(ctx, "t1", sub.ID); err != nil {
		t.Fatalf("DeleteSubscription: %v", err)
	}
	if err := m.DeleteSubscription(ctx, "t1", sub.ID); err != ErrNotFound {
		t.Fatalf("double delete must be ErrNotFound, got %v", err)
	}
}

func TestMemoryWebhookQueue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	id, err := m.EnqueueWebhook(ctx, "t1", "sub1", "solve.completed", "https://example.invalid", "s", []byte(`{}`))
	if err != nil {
		t.Fatalf("EnqueueWebhook: %v", err)
	}
	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	if err != nil || len(due) != 1 || due[0].ID != id {
		t.Fatalf("due: %v err=%v", due, err)
	}

	// A failed attempt with a future retry leaves the queue empty for now.
	next := time.Now().Add(time.Hour)
	if err := m.MarkWebhookDelivery(ctx, id, false, &next, "boom", 500, 12); err != nil {
		t.Fatalf("MarkWebhookDelivery: %v", err)
	}
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 0 {
		t.Fatalf("delivery with future retry must not be due, got %d", len(due))
	}

	if err := m.FailWebhookDelivery(ctx, id, "gave up", 500, 9); err != nil {
		t.Fatalf("FailWebhookDelivery: %v", err)
	}
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 0 {
		t.Fatalf("failed delivery must not be due, got %d", len(due))
	}
}

func TestMemorySolveStats(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	req, sol, stats := testRecord()
	if _, err := m.CreateSolve(ctx, "t1", req, sol, stats); err != nil {
		t.Fatalf("CreateSolve: %v", err)
	}
	infeasible := model.SolutionOut{Feasible: false}
	if _, err := m.CreateSolve(ctx, "t1", req, infeasible, stats); err != nil {
		t.Fatalf("CreateSolve: %v", err)
	}
	got, err := m.SolveStats(ctx, "t1")
	if err != nil {
		t.Fatalf("SolveStats: %v", err)
	}
	if got["solves"].(int) != 2 || got["feasible"].(int) != 1 {
		t.Fatalf("stats: %+v", got)
	}
}
