package anchor

import (
	"bytes"
	"context"
	"sync"

	"github.com/ct-anchor/relay-go/internal/tx"
)

// MemoryClient applies transactions to an in-memory ledger with the
// same contract as the real pipeline: resubmitting the same bytes for
// a known key is a duplicate no-op, different bytes for a known key
// are rejected.
type MemoryClient struct {
	mu      sync.RWMutex
	applied map[tx.Key][]byte
	order   []tx.Key
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{applied: make(map[tx.Key][]byte)}
}

func (c *MemoryClient) Submit(_ context.Context, t *tx.Transaction) (SubmitStatus, error) {
	serialized, err := marshalTransaction(t)
	if err != nil {
		return SubmitStatus{Rejected: true, Reason: err.Error()}, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := t.Key()
	if prev, ok := c.applied[key]; ok {
		if bytes.Equal(prev, serialized) {
			return SubmitStatus{Duplicate: true}, nil
		}
		return SubmitStatus{Rejected: true, Reason: "conflicting transaction for " + key.String()}, nil
	}
	c.applied[key] = serialized
	c.order = append(c.order, key)
	return SubmitStatus{}, nil
}

// Applied returns the keys of applied transactions in apply order.
func (c *MemoryClient) Applied() []tx.Key {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]tx.Key(nil), c.order...)
}

// Get returns the applied leaf bytes for a key.
func (c *MemoryClient) Get(key tx.Key) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.applied[key]
	return b, ok
}
