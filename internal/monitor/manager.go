package monitor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"sigsum.org/sigsum-go/pkg/log"

	"github.com/ct-anchor/relay-go/internal/ctlog"
	"github.com/ct-anchor/relay-go/internal/cursor"
	"github.com/ct-anchor/relay-go/internal/submit"
	"github.com/ct-anchor/relay-go/internal/tx"
)

// Manager runs one pipeline per monitored log plus the shared
// delivery queue. Pipelines are independent: one halting does not
// affect the others. An error that puts the whole relay in doubt
// cancels everything.
type Manager struct {
	Cursors cursor.Store
	Signer  *tx.Signer
	Queue   *submit.Queue
	Config  Config

	// NewClient builds the log client for an endpoint. Tests swap in
	// in-process fakes here.
	NewClient func(ctlog.Endpoint) (ctlog.Client, error)
}

func (m *Manager) Run(ctx context.Context, endpoints []ctlog.Endpoint) error {
	if len(endpoints) == 0 {
		return fmt.Errorf("no logs to monitor")
	}
	pipes := make([]*Pipeline, 0, len(endpoints))
	for _, ep := range endpoints {
		client, err := m.NewClient(ep)
		if err != nil {
			return fmt.Errorf("setting up client for %s: %v", ep.URL, err)
		}
		pipes = append(pipes, NewPipeline(ep, client, m.Cursors, m.Signer, m.Queue, m.Config))
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.Queue.Run(ctx)
	})
	for _, p := range pipes {
		log.Info("monitoring %s (%s)", p.endpoint.URL, p.short)
		g.Go(func() error {
			return p.Run(ctx)
		})
	}
	return g.Wait()
}
