// Package submit orders, retries and deduplicates transaction
// delivery to the anchor pipeline.
package submit

import (
	"context"
	"sync"
	"time"

	"github.com/google/trillian/client/backoff"

	"sigsum.org/sigsum-go/pkg/log"

	"github.com/ct-anchor/relay-go/internal/anchor"
	"github.com/ct-anchor/relay-go/internal/metrics"
	"github.com/ct-anchor/relay-go/internal/tx"
)

type Status int

const (
	StatusPending Status = iota
	StatusInFlight
	StatusAcknowledged
	// StatusSkipped marks entry indices the pipeline decided not to
	// relay; they count as done for the acknowledged frontier.
	StatusSkipped
	// StatusFailed is terminal when the record is no longer queued:
	// rejected by the pipeline, or out of attempts. While queued it is
	// the between-retries state.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInFlight:
		return "in-flight"
	case StatusAcknowledged:
		return "acknowledged"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record tracks one transaction's delivery state.
type Record struct {
	Tx       *tx.Transaction
	Status   Status
	Attempts int
	LastErr  string
}

// Config bounds retry behavior for delivery workers.
type Config struct {
	MaxAttempts   int
	BackoffBase   time.Duration
	BackoffMax    time.Duration
	SubmitTimeout time.Duration
}

type subQueue struct {
	keys    []tx.Key
	notify  chan struct{}
	running bool
}

// Queue delivers signed transactions to the anchor pipeline. One
// delivery worker per log preserves per-log submission order, so
// entry transactions reach the pipeline in non-decreasing index
// order; transactions of different logs interleave freely. Enqueue
// and Skip are safe for concurrent use by all log pipelines.
type Queue struct {
	client anchor.Client
	cfg    Config

	mu      sync.Mutex
	records map[tx.Key]*Record
	logs    map[string]*subQueue
	ctx     context.Context
	wg      sync.WaitGroup
}

func New(client anchor.Client, cfg Config) *Queue {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 10 * time.Minute
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 10 * time.Second
	}
	return &Queue{
		client:  client,
		cfg:     cfg,
		records: make(map[tx.Key]*Record),
		logs:    make(map[string]*subQueue),
	}
}

// Enqueue adds a transaction for delivery, preserving per-log enqueue
// order. Duplicates of queued or acknowledged records are dropped; a
// terminally failed record is revived for a fresh round of attempts.
// Reports whether the transaction was accepted.
func (q *Queue) Enqueue(t *tx.Transaction) bool {
	key := t.Key()
	q.mu.Lock()
	defer q.mu.Unlock()
	if rec, ok := q.records[key]; ok {
		if rec.Status != StatusFailed {
			return false
		}
		rec.Tx = t
		rec.Status = StatusPending
		rec.Attempts = 0
		rec.LastErr = ""
	} else {
		q.records[key] = &Record{Tx: t, Status: StatusPending}
	}
	sub := q.subLocked(key.LogID)
	sub.keys = append(sub.keys, key)
	metrics.SetQueueDepth(key.LogID, len(sub.keys))
	poke(sub.notify)
	return true
}

// Skip records an entry index the pipeline decided not to relay, so
// that the acknowledged frontier can move past it.
func (q *Queue) Skip(logID string, index uint64) {
	key := tx.Key{LogID: logID, Kind: tx.KindEntry, Sequence: index}
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.records[key]; !ok {
		q.records[key] = &Record{Status: StatusSkipped}
	}
}

// Lookup returns a copy of the record for key.
func (q *Queue) Lookup(key tx.Key) (Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	rec, ok := q.records[key]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Depth returns the number of transactions awaiting delivery for a
// log.
func (q *Queue) Depth(logID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if sub, ok := q.logs[logID]; ok {
		return len(sub.keys)
	}
	return 0
}

// AckedFrontier returns the first entry index at or after from that
// is not acknowledged or skipped. Everything below it has been
// applied downstream, so the monitor persists it as the log's
// next_index.
func (q *Queue) AckedFrontier(logID string, from uint64) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		rec, ok := q.records[tx.Key{LogID: logID, Kind: tx.KindEntry, Sequence: from}]
		if !ok || (rec.Status != StatusAcknowledged && rec.Status != StatusSkipped) {
			return from
		}
		from++
	}
}

// Run starts delivery workers for all known and future logs, then
// blocks until ctx is cancelled and in-flight submissions have
// finished. Transactions still queued at shutdown are reprocessed
// after restart from the persisted cursors.
func (q *Queue) Run(ctx context.Context) error {
	q.mu.Lock()
	q.ctx = ctx
	for logID, sub := range q.logs {
		q.startWorkerLocked(logID, sub)
	}
	q.mu.Unlock()
	<-ctx.Done()
	q.wg.Wait()
	return nil
}

func (q *Queue) subLocked(logID string) *subQueue {
	sub, ok := q.logs[logID]
	if !ok {
		sub = &subQueue{notify: make(chan struct{}, 1)}
		q.logs[logID] = sub
		if q.ctx != nil {
			q.startWorkerLocked(logID, sub)
		}
	}
	return sub
}

func (q *Queue) startWorkerLocked(logID string, sub *subQueue) {
	if sub.running {
		return
	}
	sub.running = true
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.runLog(q.ctx, logID, sub)
	}()
}

func poke(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// runLog delivers one log's transactions in fifo order. The head
// stays at the head until acknowledged or terminally failed, so a
// retried transaction cannot be overtaken by a later one.
func (q *Queue) runLog(ctx context.Context, logID string, sub *subQueue) {
	b := &backoff.Backoff{
		Min:    q.cfg.BackoffBase,
		Max:    q.cfg.BackoffMax,
		Factor: 2,
		Jitter: true,
	}
	for {
		t, key, ok := q.takeHead(logID, sub)
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-sub.notify:
				continue
			}
		}
		// Detached context, so that an in-flight submission finishes
		// its attempt during shutdown.
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.cfg.SubmitTimeout)
		st, err := q.client.Submit(sctx, t)
		cancel()
		switch {
		case err != nil:
			attempts, terminal := q.failAttempt(logID, key, err)
			if terminal {
				b.Reset()
				continue
			}
			metrics.Retry(logID)
			log.Warning("submission of %s failed (attempt %d/%d): %v",
				key, attempts, q.cfg.MaxAttempts, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(b.Duration()):
			}
			q.requeue(key)
		case st.Rejected:
			q.reject(logID, key, st.Reason)
			b.Reset()
		default:
			q.ack(logID, key, st.Duplicate)
			b.Reset()
		}
	}
}

// takeHead marks the head of a log's fifo in-flight and returns its
// transaction. Records resolved some other way are dropped from the
// fifo on the way.
func (q *Queue) takeHead(logID string, sub *subQueue) (*tx.Transaction, tx.Key, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(sub.keys) > 0 {
		key := sub.keys[0]
		rec := q.records[key]
		if rec == nil || rec.Status == StatusAcknowledged ||
			rec.Status == StatusSkipped || rec.Status == StatusFailed {
			sub.keys = sub.keys[1:]
			metrics.SetQueueDepth(logID, len(sub.keys))
			continue
		}
		rec.Status = StatusInFlight
		rec.Attempts++
		return rec.Tx, key, true
	}
	return nil, tx.Key{}, false
}

func (q *Queue) failAttempt(logID string, key tx.Key, err error) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	rec := q.records[key]
	if rec == nil {
		return 0, true
	}
	rec.LastErr = err.Error()
	if rec.Attempts >= q.cfg.MaxAttempts {
		rec.Status = StatusFailed
		q.popLocked(logID, key)
		log.Error("giving up on %s after %d attempts: %v", key, rec.Attempts, err)
		metrics.Submission(logID, "failed")
		metrics.Alert(logID, "submission_failed")
		return rec.Attempts, true
	}
	rec.Status = StatusFailed
	return rec.Attempts, false
}

func (q *Queue) requeue(key tx.Key) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if rec := q.records[key]; rec != nil && rec.Status == StatusFailed {
		rec.Status = StatusPending
	}
}

func (q *Queue) ack(logID string, key tx.Key, duplicate bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	rec := q.records[key]
	if rec == nil {
		return
	}
	rec.Status = StatusAcknowledged
	rec.LastErr = ""
	q.popLocked(logID, key)
	if duplicate {
		log.Debug("%s already anchored", key)
		metrics.Submission(logID, "duplicate")
	} else {
		metrics.Submission(logID, "acked")
	}
}

func (q *Queue) reject(logID string, key tx.Key, reason string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	rec := q.records[key]
	if rec == nil {
		return
	}
	rec.Status = StatusFailed
	rec.LastErr = reason
	q.popLocked(logID, key)
	log.Error("anchor pipeline rejected %s: %s", key, reason)
	metrics.Submission(logID, "rejected")
	metrics.Alert(logID, "submission_rejected")
}

func (q *Queue) popLocked(logID string, key tx.Key) {
	sub := q.logs[logID]
	if sub != nil && len(sub.keys) > 0 && sub.keys[0] == key {
		sub.keys = sub.keys[1:]
		metrics.SetQueueDepth(logID, len(sub.keys))
	}
}
