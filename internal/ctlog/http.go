package ctlog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/client"
	"github.com/google/certificate-transparency-go/jsonclient"
)

// HTTPClient implements Client over a log's public RFC 6962 interface.
type HTTPClient struct {
	endpoint Endpoint
	lc       *client.LogClient
}

// NewHTTPClient sets up a client for one log. The http.Client may be
// shared between logs; per-request deadlines come from the caller's
// context. Tree head signatures are verified here rather than in the
// underlying client, so that failures get classified.
func NewHTTPClient(endpoint Endpoint, hc *http.Client, userAgent string) (*HTTPClient, error) {
	lc, err := client.New(endpoint.URL, hc, jsonclient.Options{UserAgent: userAgent})
	if err != nil {
		return nil, err
	}
	return &HTTPClient{endpoint: endpoint, lc: lc}, nil
}

func (c *HTTPClient) GetSTH(ctx context.Context) (*ct.SignedTreeHead, error) {
	sth, err := c.lc.GetSTH(ctx)
	if err != nil {
		return nil, classify(err)
	}
	if err := VerifySTH(c.endpoint.PublicKey, sth); err != nil {
		return nil, err
	}
	return sth, nil
}

func (c *HTTPClient) GetConsistencyProof(ctx context.Context, first, second uint64) ([][]byte, error) {
	proof, err := c.lc.GetSTHConsistency(ctx, first, second)
	if err != nil {
		return nil, classify(err)
	}
	return proof, nil
}

func (c *HTTPClient) GetProofByHash(ctx context.Context, leafHash []byte, treeSize uint64) (*ct.GetProofByHashResponse, error) {
	rsp, err := c.lc.GetProofByHash(ctx, leafHash, treeSize)
	if err != nil {
		return nil, classify(err)
	}
	return rsp, nil
}

func (c *HTTPClient) GetEntries(ctx context.Context, start, end uint64) ([]ct.LeafEntry, error) {
	if start >= end {
		return nil, nil
	}
	// get-entries takes an inclusive range.
	rsp, err := c.lc.GetRawEntries(ctx, int64(start), int64(end-1))
	if err != nil {
		return nil, classify(err)
	}
	return rsp.Entries, nil
}

// classify sorts fetch errors into the package's taxonomy. HTTP 4xx
// answers and undecodable bodies count as malformed, everything else,
// including 5xx and 429, as the log being unreachable. Both are
// transient from the caller's point of view.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var rsp jsonclient.RspError
	if errors.As(err, &rsp) {
		if rsp.StatusCode == http.StatusTooManyRequests || rsp.StatusCode >= 500 {
			return fmt.Errorf("%w: status %d: %v", ErrUnreachable, rsp.StatusCode, rsp.Err)
		}
		return fmt.Errorf("%w: status %d: %v", ErrMalformedResponse, rsp.StatusCode, rsp.Err)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var b64Err base64.CorruptInputError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &b64Err) {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
