package ctlog

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"
	"github.com/transparency-dev/merkle/rfc6962"
	"github.com/transparency-dev/merkle/testonly"
)

// MemoryLog is an in-process CT log used in tests and ephemeral runs.
// It signs tree heads with a fresh ECDSA P-256 key, like production
// logs do, and serves proofs and entries from a testonly Merkle tree.
type MemoryLog struct {
	mu        sync.RWMutex
	tree      *testonly.Tree
	leaves    [][]byte
	index     map[string]uint64
	signer    *ecdsa.PrivateKey
	der       []byte
	id        [sha256.Size]byte
	timestamp func() uint64

	// MaxBatch, when non-zero, caps GetEntries responses so that
	// callers' short-read handling gets exercised.
	MaxBatch uint64
}

func NewMemoryLog() (*MemoryLog, error) {
	signer, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	der, err := x509.MarshalPKIXPublicKey(&signer.PublicKey)
	if err != nil {
		return nil, err
	}
	return &MemoryLog{
		tree:      testonly.New(rfc6962.DefaultHasher),
		index:     make(map[string]uint64),
		signer:    signer,
		der:       der,
		id:        sha256.Sum256(der),
		timestamp: func() uint64 { return uint64(time.Now().UnixMilli()) },
	}, nil
}

// Endpoint returns the endpoint under which this log's tree heads
// verify.
func (l *MemoryLog) Endpoint() Endpoint {
	return Endpoint{
		ID:        l.id,
		URL:       "memory://" + l.KeyID(),
		PublicKey: &l.signer.PublicKey,
		der:       l.der,
	}
}

func (l *MemoryLog) KeyID() string {
	e := Endpoint{ID: l.id}
	return e.KeyID()
}

// PublicKeyB64 returns the log key in the base64 DER form used by
// config files.
func (l *MemoryLog) PublicKeyB64() string {
	return base64.StdEncoding.EncodeToString(l.der)
}

// Append adds raw leaf inputs to the tree.
func (l *MemoryLog) Append(leaves ...[]byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, leaf := range leaves {
		l.index[string(rfc6962.DefaultHasher.HashLeaf(leaf))] = l.tree.Size()
		l.tree.AppendData(leaf)
		l.leaves = append(l.leaves, leaf)
	}
}

func (l *MemoryLog) GetSTH(_ context.Context) (*ct.SignedTreeHead, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sth := &ct.SignedTreeHead{
		Version:   ct.V1,
		TreeSize:  l.tree.Size(),
		Timestamp: l.timestamp(),
	}
	copy(sth.SHA256RootHash[:], l.tree.Hash())
	data, err := ct.SerializeSTHSignatureInput(*sth)
	if err != nil {
		return nil, err
	}
	sig, err := tls.CreateSignature(*l.signer, tls.SHA256, data)
	if err != nil {
		return nil, err
	}
	sth.TreeHeadSignature = ct.DigitallySigned(sig)
	return sth, nil
}

func (l *MemoryLog) GetConsistencyProof(_ context.Context, first, second uint64) ([][]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if first == 0 || first > second || second > l.tree.Size() {
		return nil, fmt.Errorf("%w: bad range %d..%d, tree size %d",
			ErrMalformedResponse, first, second, l.tree.Size())
	}
	return l.tree.ConsistencyProof(first, second)
}

func (l *MemoryLog) GetProofByHash(_ context.Context, leafHash []byte, treeSize uint64) (*ct.GetProofByHashResponse, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	index, ok := l.index[string(leafHash)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown leaf hash %x", ErrMalformedResponse, leafHash)
	}
	if treeSize > l.tree.Size() || index >= treeSize {
		return nil, fmt.Errorf("%w: leaf %d not covered by tree size %d",
			ErrMalformedResponse, index, treeSize)
	}
	path, err := l.tree.InclusionProof(index, treeSize)
	if err != nil {
		return nil, err
	}
	return &ct.GetProofByHashResponse{LeafIndex: int64(index), AuditPath: path}, nil
}

func (l *MemoryLog) GetEntries(_ context.Context, start, end uint64) ([]ct.LeafEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	size := l.tree.Size()
	if start >= size || end > size || start >= end {
		return nil, fmt.Errorf("%w: out of range request: start %d, end %d, size %d",
			ErrMalformedResponse, start, end, size)
	}
	if l.MaxBatch > 0 && end-start > l.MaxBatch {
		end = start + l.MaxBatch
	}
	list := make([]ct.LeafEntry, end-start)
	for i := range list {
		list[i] = ct.LeafEntry{LeafInput: l.leaves[start+uint64(i)]}
	}
	return list, nil
}
