package tx

import (
	"errors"
	"fmt"

	"sigsum.org/sigsum-go/pkg/crypto"
)

var (
	// ErrSigningUnavailable means the keystore did not produce a
	// signature; transient, retried with backoff.
	ErrSigningUnavailable = errors.New("signing unavailable")
	// ErrKeyRejected means the configured key produces signatures that
	// do not verify under its own public key. Operator intervention
	// required; the service stops.
	ErrKeyRejected = errors.New("signing key rejected")
)

// Signer signs unsigned payloads with the relay's key. Signatures are
// checked against the signer's public key before use, separating a
// temporarily unavailable keystore from a broken key.
type Signer struct {
	signer  crypto.Signer
	pub     crypto.PublicKey
	keyHash crypto.Hash
}

func NewSigner(signer crypto.Signer) *Signer {
	pub := signer.Public()
	return &Signer{signer: signer, pub: pub, keyHash: crypto.HashBytes(pub[:])}
}

// KeyHash identifies the relay key in transactions and logs.
func (s *Signer) KeyHash() crypto.Hash {
	return s.keyHash
}

func (s *Signer) Sign(u *Unsigned) (*Transaction, error) {
	sig, err := s.signer.Sign(u.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningUnavailable, err)
	}
	if !crypto.Verify(&s.pub, u.Payload, &sig) {
		return nil, fmt.Errorf("%w: signature fails under key hash %x", ErrKeyRejected, s.keyHash)
	}
	return &Transaction{Unsigned: *u, Signature: sig, KeyHash: s.keyHash}, nil
}
