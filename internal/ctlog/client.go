// Package ctlog talks to RFC 6962 certificate transparency logs and
// verifies the cryptographic structures they serve.
package ctlog

import (
	"context"
	"crypto"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	ct "github.com/google/certificate-transparency-go"
)

var (
	// Transient fetch failures, retried by the caller.
	ErrUnreachable       = errors.New("log unreachable")
	ErrMalformedResponse = errors.New("malformed log response")

	// Verification failures. None of these can result from an honest
	// log and a flaky network, so callers halt monitoring of the log.
	ErrInvalidSignature = errors.New("invalid tree head signature")
	ErrConsistency      = errors.New("inconsistent tree heads")
	ErrAuditProof       = errors.New("invalid audit path")
)

// Endpoint identifies a monitored log: where to reach it and which key
// its tree heads must verify under. ID is the RFC 6962 log id, the
// SHA-256 of the log's DER-encoded public key.
type Endpoint struct {
	ID        [sha256.Size]byte
	URL       string
	PublicKey crypto.PublicKey

	der []byte
}

// NewEndpoint derives an endpoint from a base URL and a base64-encoded
// DER public key, the format used in log lists and config files.
func NewEndpoint(url, b64PublicKey string) (Endpoint, error) {
	der, err := base64.StdEncoding.DecodeString(b64PublicKey)
	if err != nil {
		return Endpoint{}, fmt.Errorf("decode log key: %v", err)
	}
	return NewEndpointFromDER(url, der)
}

// NewEndpointFromDER is NewEndpoint for keys already in DER form, as
// served by the public log list.
func NewEndpointFromDER(url string, der []byte) (Endpoint, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse log key: %v", err)
	}
	return Endpoint{
		ID:        sha256.Sum256(der),
		URL:       url,
		PublicKey: pub,
		der:       append([]byte(nil), der...),
	}, nil
}

// KeyID returns the hex form of the log id, used in file names, metric
// labels and log lines.
func (e *Endpoint) KeyID() string {
	return hex.EncodeToString(e.ID[:])
}

// PublicKeyB64 returns the log key in the base64 DER form used by
// config files and log lists.
func (e *Endpoint) PublicKeyB64() string {
	return base64.StdEncoding.EncodeToString(e.der)
}

// Client fetches tree heads, proofs and entries from a single log.
// Implementations classify failures as ErrUnreachable,
// ErrMalformedResponse or ErrInvalidSignature so that callers can
// decide between retry and halt.
type Client interface {
	// GetSTH fetches the log's current signed tree head, verified
	// against the endpoint's public key.
	GetSTH(ctx context.Context) (*ct.SignedTreeHead, error)
	// GetConsistencyProof fetches a consistency proof between two tree
	// sizes, 0 < first <= second.
	GetConsistencyProof(ctx context.Context, first, second uint64) ([][]byte, error)
	// GetProofByHash fetches the audit path for a leaf hash, relative
	// to the root at the given tree size.
	GetProofByHash(ctx context.Context, leafHash []byte, treeSize uint64) (*ct.GetProofByHashResponse, error)
	// GetEntries fetches the raw entries in [start, end). The log may
	// return fewer than requested; the caller asks again for the rest.
	GetEntries(ctx context.Context, start, end uint64) ([]ct.LeafEntry, error)
}
