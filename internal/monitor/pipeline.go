// Package monitor drives the per-log verification pipelines and the
// manager supervising them.
package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"

	"sigsum.org/sigsum-go/pkg/log"

	"github.com/ct-anchor/relay-go/internal/ctlog"
	"github.com/ct-anchor/relay-go/internal/cursor"
	"github.com/ct-anchor/relay-go/internal/entry"
	"github.com/ct-anchor/relay-go/internal/metrics"
	"github.com/ct-anchor/relay-go/internal/submit"
	"github.com/ct-anchor/relay-go/internal/tx"
)

// Config bounds one pipeline's polling behavior.
type Config struct {
	// Interval between polling cycles.
	Interval time.Duration
	// MaxRange caps the number of entries requested per get-entries
	// call.
	MaxRange int
	// Checkpoints enables relaying each newly verified tree head as a
	// checkpoint transaction.
	Checkpoints bool
}

// Pipeline monitors one log. Each polling cycle runs the stages
// strictly in order: fetch tree head, verify consistency against the
// stored position, persist the new position, then fetch, verify,
// decode, sign and enqueue the new entries. Cycles never overlap.
type Pipeline struct {
	endpoint    ctlog.Endpoint
	client      ctlog.Client
	cursors     cursor.Store
	signer      *tx.Signer
	queue       *submit.Queue
	interval    time.Duration
	maxRange    uint64
	checkpoints bool

	id    string // hex log id: cursor key, metric label, tx log_id
	short string // id prefix for log lines

	started   bool
	state     cursor.State
	persisted cursor.State
	// First index not yet handed to the queue in this run. Trails
	// state.TreeSize during catch-up; state.NextIndex trails it in
	// turn until the queue acknowledges delivery.
	processed uint64
}

func NewPipeline(endpoint ctlog.Endpoint, client ctlog.Client, cursors cursor.Store,
	signer *tx.Signer, queue *submit.Queue, cfg Config) *Pipeline {
	p := &Pipeline{
		endpoint:    endpoint,
		client:      client,
		cursors:     cursors,
		signer:      signer,
		queue:       queue,
		interval:    cfg.Interval,
		maxRange:    uint64(cfg.MaxRange),
		checkpoints: cfg.Checkpoints,
		id:          endpoint.KeyID(),
	}
	if p.interval <= 0 {
		p.interval = time.Minute
	}
	if cfg.MaxRange <= 0 {
		p.maxRange = 256
	}
	p.short = p.id[:8]
	return p
}

// Run polls the log until ctx is done. Transient failures are retried
// on the next tick. A verification failure halts this pipeline with
// an alert but leaves other pipelines running; only errors that put
// the whole relay in doubt are returned.
func (p *Pipeline) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.cycle(ctx); err != nil && ctx.Err() == nil {
			switch {
			case fatalGlobal(err):
				return fmt.Errorf("log %s: %w", p.short, err)
			case fatalForLog(err):
				log.Error("%s: halting: %v", p.short, err)
				metrics.Alert(p.id, "pipeline_halted")
				return nil
			default:
				log.Warning("%s: cycle failed: %v", p.short, err)
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// fatalForLog reports whether err means this log's published state
// can no longer be trusted, as opposed to a transient fetch problem.
func fatalForLog(err error) bool {
	return errors.Is(err, ctlog.ErrConsistency) ||
		errors.Is(err, ctlog.ErrAuditProof) ||
		errors.Is(err, ctlog.ErrInvalidSignature) ||
		errors.Is(err, entry.ErrMalformed)
}

// fatalGlobal reports whether err puts every log's processing in
// doubt, so the whole relay must stop.
func fatalGlobal(err error) bool {
	return errors.Is(err, tx.ErrKeyRejected) ||
		errors.Is(err, cursor.ErrCorrupt) ||
		errors.Is(err, cursor.ErrNotFound)
}

func (p *Pipeline) cycle(ctx context.Context) error {
	if !p.started {
		if err := p.restore(ctx); err != nil {
			return err
		}
		p.started = true
	}
	start := time.Now()
	defer func() { metrics.ObserveCycle(p.id, time.Since(start)) }()

	sth, err := p.client.GetSTH(ctx)
	if err != nil {
		metrics.STHFetch(p.id, "error")
		return err
	}
	metrics.STHFetch(p.id, "ok")

	if err := p.advance(ctx, sth); err != nil {
		return err
	}
	// The position is durable before any entry under it is processed,
	// so a crash at any later point only causes reprocessing.
	if err := p.persist(ctx); err != nil {
		return err
	}
	if err := p.relayEntries(ctx); err != nil {
		return err
	}
	p.state.NextIndex = p.queue.AckedFrontier(p.id, p.state.NextIndex)
	return p.persist(ctx)
}

// restore loads the log's stored position, or handles the first
// observation of a log: with an explicitly initialized store the log
// starts from an empty tree and is announced downstream with a
// register transaction. A missing cursor without that marker means
// state was lost.
func (p *Pipeline) restore(ctx context.Context) error {
	state, err := p.cursors.Load(ctx, p.id)
	switch {
	case err == nil:
		p.state = state
		p.persisted = state
		p.processed = state.NextIndex
		log.Info("%s: resuming at tree size %d, next index %d",
			p.short, state.TreeSize, state.NextIndex)
		return nil
	case errors.Is(err, cursor.ErrNotFound):
		if !p.cursors.EmptyStartAllowed() {
			return fmt.Errorf("%w: missing state for %s in a store not marked startup=empty", err, p.short)
		}
		u, err := tx.BuildRegister(p.id, p.endpoint.URL, p.endpoint.PublicKeyB64())
		if err != nil {
			return err
		}
		t, err := p.signer.Sign(&u)
		if err != nil {
			return err
		}
		p.queue.Enqueue(t)
		log.Info("%s: first observation of %s, registering log", p.short, p.endpoint.URL)
		return nil
	default:
		return err
	}
}

// advance checks a fetched tree head against the current position and
// adopts it in memory. The position only ever moves forward, and only
// past a verified consistency proof.
func (p *Pipeline) advance(ctx context.Context, sth *ct.SignedTreeHead) error {
	newRoot := sth.SHA256RootHash[:]
	switch {
	case sth.TreeSize < p.state.TreeSize:
		return fmt.Errorf("%w: tree size shrank from %d to %d",
			ctlog.ErrConsistency, p.state.TreeSize, sth.TreeSize)
	case sth.TreeSize == p.state.TreeSize:
		if p.state.TreeSize > 0 && !bytes.Equal(newRoot, p.state.RootHash[:]) {
			return fmt.Errorf("%w: split view at size %d: root %x, previously %x",
				ctlog.ErrConsistency, sth.TreeSize, newRoot, p.state.RootHash[:])
		}
		return nil
	}
	if p.state.TreeSize > 0 {
		proof, err := p.client.GetConsistencyProof(ctx, p.state.TreeSize, sth.TreeSize)
		if err != nil {
			return err
		}
		if err := ctlog.VerifyConsistency(p.state.TreeSize, sth.TreeSize,
			p.state.RootHash[:], newRoot, proof); err != nil {
			return err
		}
	}
	log.Debug("%s: tree head advanced from %d to %d", p.short, p.state.TreeSize, sth.TreeSize)
	p.state.TreeSize = sth.TreeSize
	copy(p.state.RootHash[:], newRoot)
	metrics.SetTreeSize(p.id, sth.TreeSize)
	p.anchorCheckpoint(sth)
	return nil
}

// anchorCheckpoint relays a verified tree head observation. Best
// effort: the next size change brings the next checkpoint, so
// failures here only log.
func (p *Pipeline) anchorCheckpoint(sth *ct.SignedTreeHead) {
	if !p.checkpoints {
		return
	}
	sig, err := tls.Marshal(sth.TreeHeadSignature)
	if err != nil {
		log.Warning("%s: marshaling tree head signature: %v", p.short, err)
		return
	}
	u, err := tx.BuildCheckpoint(p.id, sth.TreeSize, sth.Timestamp, sth.SHA256RootHash[:], sig)
	if err != nil {
		log.Warning("%s: building checkpoint transaction: %v", p.short, err)
		return
	}
	t, err := p.signer.Sign(&u)
	if err != nil {
		log.Warning("%s: signing checkpoint transaction: %v", p.short, err)
		return
	}
	p.queue.Enqueue(t)
}

// relayEntries processes everything between the queue hand-off point
// and the verified tree size, in batches of at most maxRange.
func (p *Pipeline) relayEntries(ctx context.Context) error {
	for p.processed < p.state.TreeSize {
		end := p.state.TreeSize
		if end-p.processed > p.maxRange {
			end = p.processed + p.maxRange
		}
		list, err := p.client.GetEntries(ctx, p.processed, end)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("%w: empty get-entries response for [%d, %d)",
				ctlog.ErrMalformedResponse, p.processed, end)
		}
		for i := range list {
			if p.processed >= end {
				break
			}
			if err := p.relayEntry(ctx, p.processed, list[i].LeafInput); err != nil {
				return err
			}
			p.processed++
		}
		// Keep the durable position current during long catch-ups.
		p.state.NextIndex = p.queue.AckedFrontier(p.id, p.state.NextIndex)
		if err := p.persist(ctx); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// relayEntry verifies that the entry at index is included under the
// current position, decodes it and hands the signed transaction to
// the queue. Entry kinds the decoder does not understand are skipped
// with a warning.
func (p *Pipeline) relayEntry(ctx context.Context, index uint64, leafInput []byte) error {
	leafHash := ctlog.LeafHash(leafInput)
	rsp, err := p.client.GetProofByHash(ctx, leafHash, p.state.TreeSize)
	if err != nil {
		return err
	}
	if got := uint64(rsp.LeafIndex); got != index {
		return fmt.Errorf("%w: log serves proof for index %d, entry fetched at index %d",
			ctlog.ErrAuditProof, got, index)
	}
	if err := ctlog.VerifyInclusion(index, p.state.TreeSize, leafHash,
		p.state.RootHash[:], rsp.AuditPath); err != nil {
		return err
	}
	rec, err := entry.Decode(p.id, index, leafInput)
	if err != nil {
		if errors.Is(err, entry.ErrUnsupportedType) {
			log.Warning("%s: skipping entry %d: %v", p.short, index, err)
			p.queue.Skip(p.id, index)
			metrics.EntryProcessed(p.id, "skipped")
			return nil
		}
		return err
	}
	u, err := tx.BuildEntry(&rec)
	if err != nil {
		return err
	}
	t, err := p.signer.Sign(&u)
	if err != nil {
		return err
	}
	p.queue.Enqueue(t)
	metrics.EntryProcessed(p.id, string(rec.Kind))
	log.Debug("%s: relaying entry %d (%s)", p.short, index, rec.Kind)
	return nil
}

func (p *Pipeline) persist(ctx context.Context) error {
	if p.state == p.persisted {
		return nil
	}
	if err := p.cursors.Store(ctx, p.id, p.state); err != nil {
		return fmt.Errorf("storing cursor: %v", err)
	}
	p.persisted = p.state
	return nil
}
