package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreReplaysStoredResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, store.prefix+"create-flow-1", `{"id":"rec-1"}`, time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "create-flow-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if !exists {
		t.Fatal("expected key to exist")
	}
	if string(resp) != `{"id":"rec-1"}` {
		t.Fatalf("expected stored response, got %s", resp)
	}
}

func TestIdempotencyStoreClaimsNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "create-flow-2", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if exists || resp != nil {
		t.Fatalf("expected fresh claim, got exists=%v resp=%s", exists, resp)
	}

	val, err := client.Get(ctx, store.prefix+"create-flow-2").Result()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if val != placeholder {
		t.Fatalf("expected placeholder, got %q", val)
	}
}

func TestIdempotencyStoreDuplicateSeesInFlightClaim(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "create-flow-3", nil, time.Minute); err != nil {
		t.Fatalf("first CheckAndSet failed: %v", err)
	}

	// The duplicate arrives before the first request finished: it learns the
	// key is taken but has no response to replay yet.
	exists, resp, err := store.CheckAndSet(ctx, "create-flow-3", nil, time.Minute)
	if err != nil {
		t.Fatalf("second CheckAndSet failed: %v", err)
	}
	if !exists {
		t.Fatal("expected duplicate to see the claim")
	}
	if string(resp) != placeholder {
		t.Fatalf("expected placeholder response, got %s", resp)
	}
}

func TestIdempotencyStoreUpdate(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "create-flow-4", nil, time.Minute); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if err := store.Update(ctx, "create-flow-4", []byte(`{"id":"rec-4"}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "create-flow-4", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if !exists || string(resp) != `{"id":"rec-4"}` {
		t.Fatalf("expected final response replay, got exists=%v resp=%s", exists, resp)
	}
}
