package ctlog

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/jsonclient"
	"github.com/google/certificate-transparency-go/tls"
)

// serveLog exposes a MemoryLog over the RFC 6962 HTTP interface, with
// knobs for failure injection.
type serveLog struct {
	log *MemoryLog
	// status, when non-zero, makes every response fail with it.
	status int
	// skew is added to the served tree size, invalidating the tree
	// head signature.
	skew uint64
}

func (s *serveLog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.status != 0 {
		http.Error(w, "injected failure", s.status)
		return
	}
	ctx := r.Context()
	switch r.URL.Path {
	case "/ct/v1/get-sth":
		sth, err := s.log.GetSTH(ctx)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sig, err := tls.Marshal(sth.TreeHeadSignature)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(ct.GetSTHResponse{
			TreeSize:          sth.TreeSize + s.skew,
			Timestamp:         sth.Timestamp,
			SHA256RootHash:    sth.SHA256RootHash[:],
			TreeHeadSignature: sig,
		})
	case "/ct/v1/get-sth-consistency":
		var first, second uint64
		fmt.Sscan(r.URL.Query().Get("first"), &first)
		fmt.Sscan(r.URL.Query().Get("second"), &second)
		proof, err := s.log.GetConsistencyProof(ctx, first, second)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(ct.GetSTHConsistencyResponse{Consistency: proof})
	case "/ct/v1/get-proof-by-hash":
		hash, err := base64.StdEncoding.DecodeString(r.URL.Query().Get("hash"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var size uint64
		fmt.Sscan(r.URL.Query().Get("tree_size"), &size)
		rsp, err := s.log.GetProofByHash(ctx, hash, size)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(rsp)
	case "/ct/v1/get-entries":
		var start, end uint64
		fmt.Sscan(r.URL.Query().Get("start"), &start)
		fmt.Sscan(r.URL.Query().Get("end"), &end)
		list, err := s.log.GetEntries(ctx, start, end+1)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(ct.GetEntriesResponse{Entries: list})
	default:
		http.NotFound(w, r)
	}
}

func newServedClient(t *testing.T) (*MemoryLog, *serveLog, *HTTPClient) {
	t.Helper()
	mem, err := NewMemoryLog()
	if err != nil {
		t.Fatalf("creating memory log: %v", err)
	}
	handler := &serveLog{log: mem}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	ep := mem.Endpoint()
	ep.URL = srv.URL
	client, err := NewHTTPClient(ep, srv.Client(), "relay-test")
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return mem, handler, client
}

func TestHTTPClientGetSTH(t *testing.T) {
	mem, handler, client := newServedClient(t)
	mem.Append(testLeaves[:4]...)

	sth, err := client.GetSTH(context.Background())
	if err != nil {
		t.Fatalf("get-sth failed: %v", err)
	}
	if got, want := sth.TreeSize, uint64(4); got != want {
		t.Errorf("got tree size %d, wanted %d", got, want)
	}
	if got, want := sth.SHA256RootHash[:], testRoots[3]; !bytes.Equal(got, want) {
		t.Errorf("got root %x, wanted %x", got, want)
	}

	// A tampered tree head must fail signature verification.
	handler.skew = 1
	if _, err := client.GetSTH(context.Background()); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("tampered sth accepted, err: %v", err)
	}
	handler.skew = 0

	handler.status = http.StatusServiceUnavailable
	if _, err := client.GetSTH(context.Background()); !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected unreachable on 503, got: %v", err)
	}
}

func TestHTTPClientProofs(t *testing.T) {
	mem, _, client := newServedClient(t)
	mem.Append(testLeaves...)
	ctx := context.Background()

	proof, err := client.GetConsistencyProof(ctx, 4, 8)
	if err != nil {
		t.Fatalf("get-sth-consistency failed: %v", err)
	}
	if err := VerifyConsistency(4, 8, testRoots[3], testRoots[7], proof); err != nil {
		t.Errorf("served consistency proof does not verify: %v", err)
	}

	leafHash := LeafHash(testLeaves[5])
	rsp, err := client.GetProofByHash(ctx, leafHash, 8)
	if err != nil {
		t.Fatalf("get-proof-by-hash failed: %v", err)
	}
	if got, want := rsp.LeafIndex, int64(5); got != want {
		t.Errorf("got leaf index %d, wanted %d", got, want)
	}
	if err := VerifyInclusion(5, 8, leafHash, testRoots[7], rsp.AuditPath); err != nil {
		t.Errorf("served audit path does not verify: %v", err)
	}
}

func TestHTTPClientGetEntries(t *testing.T) {
	mem, _, client := newServedClient(t)
	mem.Append(testLeaves...)
	ctx := context.Background()

	list, err := client.GetEntries(ctx, 2, 6)
	if err != nil {
		t.Fatalf("get-entries failed: %v", err)
	}
	if got, want := len(list), 4; got != want {
		t.Fatalf("got %d entries, wanted %d", got, want)
	}
	for i, e := range list {
		if got, want := e.LeafInput, testLeaves[2+i]; !bytes.Equal(got, want) {
			t.Errorf("entry %d: got %x, wanted %x", 2+i, got, want)
		}
	}
	// An empty range is not a request.
	if list, err := client.GetEntries(ctx, 3, 3); err != nil || len(list) != 0 {
		t.Errorf("empty range: got %d entries, err %v", len(list), err)
	}
}

func TestClassify(t *testing.T) {
	for _, table := range []struct {
		description string
		err         error
		want        error
	}{
		{"client error status", jsonclient.RspError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf("bad hash")}, ErrMalformedResponse},
		{"not found status", jsonclient.RspError{StatusCode: http.StatusNotFound, Err: fmt.Errorf("no proof")}, ErrMalformedResponse},
		{"rate limited", jsonclient.RspError{StatusCode: http.StatusTooManyRequests, Err: fmt.Errorf("slow down")}, ErrUnreachable},
		{"server error status", jsonclient.RspError{StatusCode: http.StatusBadGateway, Err: fmt.Errorf("upstream")}, ErrUnreachable},
		{"undecodable body", &json.SyntaxError{}, ErrMalformedResponse},
		{"undecodable base64", base64.CorruptInputError(4), ErrMalformedResponse},
		{"connection refused", fmt.Errorf("dial tcp 127.0.0.1:443: connection refused"), ErrUnreachable},
	} {
		if got := classify(table.err); !errors.Is(got, table.want) {
			t.Errorf("%s: got %v, wanted %v", table.description, got, table.want)
		}
	}
	if got := classify(nil); got != nil {
		t.Errorf("classify(nil) = %v", got)
	}
}
