// Package anchor submits signed transactions to the anchor pipeline.
package anchor

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/ct-anchor/relay-go/internal/tx"
)

// SubmitStatus reports the outcome of a delivered submission.
// Duplicate means the pipeline already holds a transaction with this
// identity, which the idempotent-apply contract makes equivalent to
// success. Rejected means resubmitting the same bytes cannot succeed.
type SubmitStatus struct {
	Duplicate bool
	Rejected  bool
	Reason    string
}

// Client is the submission side of the anchor pipeline. A returned
// error is transient (connectivity, backend overload) and worth
// retrying; permanent refusal comes back as a Rejected status with a
// nil error.
type Client interface {
	Submit(ctx context.Context, t *tx.Transaction) (SubmitStatus, error)
}

// wireTransaction is the leaf format appended to the pipeline. Payload
// is already canonical JSON, so the whole leaf is deterministic for a
// given transaction and server-side dedup on leaf identity works
// across relay restarts.
type wireTransaction struct {
	Payload   json.RawMessage `json:"payload"`
	Signature string          `json:"signature"`
	KeyHash   string          `json:"key_hash"`
}

func marshalTransaction(t *tx.Transaction) ([]byte, error) {
	return json.Marshal(wireTransaction{
		Payload:   json.RawMessage(t.Payload),
		Signature: hex.EncodeToString(t.Signature[:]),
		KeyHash:   hex.EncodeToString(t.KeyHash[:]),
	})
}
