// Package cursor persists per-log monitoring progress.
package cursor

import (
	"context"
	"errors"

	"sigsum.org/sigsum-go/pkg/crypto"
)

var (
	// ErrNotFound means no cursor exists for the log yet.
	ErrNotFound = errors.New("no cursor for log")
	// ErrCorrupt means stored state exists but cannot be decoded.
	// Monitoring must stop rather than guess a position.
	ErrCorrupt = errors.New("cursor state corrupt")
)

// State is one log's verified position. TreeSize and RootHash are the
// last tree head that passed consistency verification. NextIndex is
// the first entry index not yet acknowledged by the anchor pipeline;
// it trails TreeSize while entries are in flight, and after a restart
// processing resumes from it.
type State struct {
	TreeSize  uint64
	RootHash  crypto.Hash
	NextIndex uint64
}

// Store keeps one State per log id, durable across restarts.
type Store interface {
	// Load returns the stored state for a log, ErrNotFound if the
	// log has none, or ErrCorrupt.
	Load(ctx context.Context, id string) (State, error)
	// Store durably replaces the state for a log.
	Store(ctx context.Context, id string, state State) error
	// EmptyStartAllowed reports whether logs without stored state may
	// start from an empty tree. False means a missing cursor is
	// treated as lost state.
	EmptyStartAllowed() bool
}
