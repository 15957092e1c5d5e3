package ctlog

import (
	"crypto"
	"fmt"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"
	"github.com/transparency-dev/merkle/proof"
	"github.com/transparency-dev/merkle/rfc6962"
)

// LeafHash returns the RFC 6962 leaf hash of a raw leaf input, the key
// under which a log serves audit paths for the entry.
func LeafHash(leafInput []byte) []byte {
	return rfc6962.DefaultHasher.HashLeaf(leafInput)
}

// VerifySTH checks the tree head signature against the log's public
// key.
func VerifySTH(pub crypto.PublicKey, sth *ct.SignedTreeHead) error {
	data, err := ct.SerializeSTHSignatureInput(*sth)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := tls.VerifySignature(pub, data, tls.DigitallySigned(sth.TreeHeadSignature)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// VerifyConsistency checks that the tree with newSize leaves and root
// newRoot is an append-only extension of the tree with oldSize leaves
// and root oldRoot. Callers skip the check entirely when oldSize is
// zero; equal sizes verify with an empty proof iff the roots match.
func VerifyConsistency(oldSize, newSize uint64, oldRoot, newRoot []byte, p [][]byte) error {
	if err := proof.VerifyConsistency(rfc6962.DefaultHasher, oldSize, newSize, p, oldRoot, newRoot); err != nil {
		return fmt.Errorf("%w: %d@%x -> %d@%x: %v", ErrConsistency, oldSize, oldRoot, newSize, newRoot, err)
	}
	return nil
}

// VerifyInclusion checks that the leaf hash at index is covered by the
// root of the tree at the given size. A size-1 tree verifies with an
// empty path iff the root equals the leaf hash.
func VerifyInclusion(index, size uint64, leafHash, root []byte, path [][]byte) error {
	if err := proof.VerifyInclusion(rfc6962.DefaultHasher, index, size, leafHash, path, root); err != nil {
		return fmt.Errorf("%w: index %d in tree of size %d: %v", ErrAuditProof, index, size, err)
	}
	return nil
}
