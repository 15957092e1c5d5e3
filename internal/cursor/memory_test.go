package cursor

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if !store.EmptyStartAllowed() {
		t.Errorf("memory store does not allow empty starts")
	}
	ctx := context.Background()
	if _, err := store.Load(ctx, "logid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, wanted not found", err)
	}
	state := testState(1)
	if err := store.Store(ctx, "logid", state); err != nil {
		t.Fatalf("storing state failed: %v", err)
	}
	loaded, err := store.Load(ctx, "logid")
	if err != nil {
		t.Fatalf("loading state failed: %v", err)
	}
	if loaded != state {
		t.Errorf("got state %v, wanted %v", loaded, state)
	}
}
