package loglist

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func testKeyB64(t *testing.T) string {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshaling key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(der)
}

// testList returns a log list with one usable Google log, one retired
// Google log, one Google log with a garbage key, and one usable
// Cloudflare log.
func testList(googleKey, cloudflareKey string) string {
	return fmt.Sprintf(`{
  "version": "1.2",
  "operators": [
    {
      "name": "Google",
      "email": ["google-ct-logs@google.com"],
      "logs": [
        {
          "description": "Google 'Argon2025h2' log",
          "log_id": "dGVzdA==",
          "key": %q,
          "url": "https://ct.googleapis.com/logs/us1/argon2025h2/",
          "mmd": 86400,
          "state": {"usable": {"timestamp": "2023-01-01T00:00:00Z"}}
        },
        {
          "description": "Google 'Aviator' log",
          "log_id": "dGVzdA==",
          "key": %q,
          "url": "https://ct.googleapis.com/aviator/",
          "mmd": 86400,
          "state": {"retired": {"timestamp": "2016-11-30T00:00:00Z"}}
        },
        {
          "description": "Google broken log",
          "log_id": "dGVzdA==",
          "key": "Z2FyYmFnZQ==",
          "url": "https://ct.googleapis.com/logs/broken/",
          "mmd": 86400,
          "state": {"usable": {"timestamp": "2023-01-01T00:00:00Z"}}
        }
      ]
    },
    {
      "name": "Cloudflare",
      "email": ["ct-logs@cloudflare.com"],
      "logs": [
        {
          "description": "Cloudflare 'Nimbus2025' Log",
          "log_id": "dGVzdA==",
          "key": %q,
          "url": "https://ct.cloudflare.com/logs/nimbus2025/",
          "mmd": 86400,
          "state": {"usable": {"timestamp": "2023-01-01T00:00:00Z"}}
        }
      ]
    }
  ]
}`, googleKey, googleKey, cloudflareKey)
}

func TestEndpointsFilter(t *testing.T) {
	googleKey := testKeyB64(t)
	cloudflareKey := testKeyB64(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, testList(googleKey, cloudflareKey))
	}))
	defer srv.Close()

	for _, table := range []struct {
		description string
		operators   []string
		wantURLs    []string
	}{
		{
			description: "all operators",
			wantURLs: []string{
				"https://ct.googleapis.com/logs/us1/argon2025h2/",
				"https://ct.cloudflare.com/logs/nimbus2025/",
			},
		},
		{
			description: "google only, case-insensitive",
			operators:   []string{"google"},
			wantURLs:    []string{"https://ct.googleapis.com/logs/us1/argon2025h2/"},
		},
		{
			description: "unknown operator",
			operators:   []string{"nonexistent"},
		},
	} {
		src := &Source{URL: srv.URL, Operators: table.operators}
		eps, err := src.Endpoints(context.Background())
		if err != nil {
			t.Fatalf("endpoints failed in test %q: %v", table.description, err)
		}
		if got, want := len(eps), len(table.wantURLs); got != want {
			t.Fatalf("got %d endpoints but wanted %d in test %q", got, want, table.description)
		}
		for i, ep := range eps {
			if got, want := ep.URL, table.wantURLs[i]; got != want {
				t.Errorf("got url %q but wanted %q in test %q", got, want, table.description)
			}
			der, err := base64.StdEncoding.DecodeString(ep.PublicKeyB64())
			if err != nil {
				t.Fatalf("decoding endpoint key: %v", err)
			}
			if got, want := ep.ID, sha256.Sum256(der); got != want {
				t.Errorf("log id not derived from key in test %q", table.description)
			}
		}
	}
}

func TestEndpointsCache(t *testing.T) {
	googleKey := testKeyB64(t)
	cloudflareKey := testKeyB64(t)

	var mu sync.Mutex
	fetches := 0
	failing := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		fetches++
		if failing {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, testList(googleKey, cloudflareKey))
	}))
	defer srv.Close()
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return fetches
	}

	src := &Source{URL: srv.URL, TTL: time.Hour}
	eps, err := src.Endpoints(context.Background())
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if _, err := src.Endpoints(context.Background()); err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if got, want := count(), 1; got != want {
		t.Errorf("got %d fetches, wanted %d", got, want)
	}

	// An expired cache is refreshed, and kept if the refresh fails.
	src.TTL = time.Nanosecond
	mu.Lock()
	failing = true
	mu.Unlock()
	cached, err := src.Endpoints(context.Background())
	if err != nil {
		t.Fatalf("refresh did not fall back on cache: %v", err)
	}
	if got, want := len(cached), len(eps); got != want {
		t.Errorf("got %d cached endpoints, wanted %d", got, want)
	}
	if got := count(); got < 2 {
		t.Errorf("got %d fetches, wanted a refresh attempt", got)
	}
}

func TestEndpointsError(t *testing.T) {
	for _, table := range []struct {
		description string
		handler     http.HandlerFunc
	}{
		{
			description: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			},
		},
		{
			description: "not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "<html>not a log list</html>")
			},
		},
	} {
		srv := httptest.NewServer(table.handler)
		src := &Source{URL: srv.URL}
		if _, err := src.Endpoints(context.Background()); err == nil {
			t.Errorf("expected error in test %q", table.description)
		}
		srv.Close()
	}
}
