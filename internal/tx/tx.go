// Package tx builds and signs the transactions relayed into the
// anchor pipeline.
package tx

import (
	"fmt"

	"sigsum.org/sigsum-go/pkg/crypto"
)

type Kind string

const (
	// KindRegister announces a newly monitored log: id, URL and
	// public key. Submitted once, before the log's first entries.
	KindRegister Kind = "register"
	// KindCheckpoint anchors a verified signed tree head.
	KindCheckpoint Kind = "checkpoint"
	// KindEntry relays one decoded issuance record.
	KindEntry Kind = "entry"
)

// Unsigned is a submission payload before signing. Payload is the RFC
// 8785 canonical JSON form of the record, so building the same record
// twice yields byte-identical payloads. Sequence orders transactions
// of one kind within one log: entries use the log index, checkpoints
// the tree size, registrations zero.
type Unsigned struct {
	LogID    string
	Kind     Kind
	Sequence uint64
	Payload  []byte
}

// Transaction is an unsigned payload plus its ed25519 signature.
// Immutable once signed.
type Transaction struct {
	Unsigned
	Signature crypto.Signature
	KeyHash   crypto.Hash
}

// Key is the identity a transaction is deduplicated on, both in the
// submission queue and by the anchor pipeline's idempotent apply.
type Key struct {
	LogID    string
	Kind     Kind
	Sequence uint64
}

func (u *Unsigned) Key() Key {
	return Key{LogID: u.LogID, Kind: u.Kind, Sequence: u.Sequence}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.LogID, k.Kind, k.Sequence)
}

