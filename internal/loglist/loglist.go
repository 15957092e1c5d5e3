// Package loglist discovers certificate transparency logs from the
// public log list.
package loglist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/certificate-transparency-go/loglist3"

	"sigsum.org/sigsum-go/pkg/log"

	"github.com/ct-anchor/relay-go/internal/ctlog"
)

// DefaultURL lists all known logs, including ones not qualified for
// browser root programs.
const DefaultURL = loglist3.AllLogListURL

const maxListSize = 10 * 1024 * 1024

// Source fetches the public log list and filters it to usable logs of
// the configured operators. An empty Operators slice selects every
// operator. A Source caches the filtered result for TTL, so the log
// set is stable between refreshes.
type Source struct {
	URL       string
	Operators []string
	TTL       time.Duration
	Client    *http.Client

	mu      sync.Mutex
	cached  []ctlog.Endpoint
	fetched time.Time
}

// Endpoints returns the usable logs of the configured operators,
// refetching the list when the cached copy is older than the TTL. A
// failed refresh falls back on a warm cache.
func (s *Source) Endpoints(ctx context.Context) ([]ctlog.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if s.cached != nil && time.Since(s.fetched) < ttl {
		return s.cached, nil
	}
	eps, err := s.fetch(ctx)
	if err != nil {
		if s.cached != nil {
			log.Warning("log list refresh failed, keeping cached copy: %v", err)
			return s.cached, nil
		}
		return nil, err
	}
	s.cached = eps
	s.fetched = time.Now()
	return eps, nil
}

func (s *Source) fetch(ctx context.Context) ([]ctlog.Endpoint, error) {
	url := s.URL
	if url == "" {
		url = DefaultURL
	}
	hc := s.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	rsp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching log list: %w", err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching log list: status %s", rsp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(rsp.Body, maxListSize))
	if err != nil {
		return nil, fmt.Errorf("reading log list: %w", err)
	}
	list, err := loglist3.NewFromJSON(body)
	if err != nil {
		return nil, fmt.Errorf("parsing log list: %w", err)
	}
	return s.filter(list), nil
}

func (s *Source) filter(list *loglist3.LogList) []ctlog.Endpoint {
	var eps []ctlog.Endpoint
	for _, op := range list.Operators {
		if !s.wantOperator(op.Name) {
			continue
		}
		for _, l := range op.Logs {
			if l.State == nil || l.State.Usable == nil {
				continue
			}
			ep, err := ctlog.NewEndpointFromDER(l.URL, l.Key)
			if err != nil {
				log.Warning("skipping log %q: %v", l.URL, err)
				continue
			}
			eps = append(eps, ep)
		}
	}
	return eps
}

func (s *Source) wantOperator(name string) bool {
	if len(s.Operators) == 0 {
		return true
	}
	for _, want := range s.Operators {
		if strings.EqualFold(want, name) {
			return true
		}
	}
	return false
}
