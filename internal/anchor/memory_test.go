package anchor

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"testing"

	"sigsum.org/sigsum-go/pkg/crypto"

	"github.com/ct-anchor/relay-go/internal/tx"
)

func TestMemorySubmit(t *testing.T) {
	client := NewMemoryClient()
	txn := testTransaction(t, `{"k":1}`)

	st, err := client.Submit(context.Background(), txn)
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if st.Duplicate || st.Rejected {
		t.Fatalf("first submit not applied: %+v", st)
	}

	st, err = client.Submit(context.Background(), txn)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if !st.Duplicate {
		t.Errorf("resubmitting the same bytes should be a duplicate, got %+v", st)
	}

	conflicting := testTransaction(t, `{"k":2}`)
	st, err = client.Submit(context.Background(), conflicting)
	if err != nil {
		t.Fatalf("conflicting submit failed: %v", err)
	}
	if !st.Rejected || st.Reason == "" {
		t.Errorf("conflicting bytes for a known key should be rejected, got %+v", st)
	}

	if got, want := len(client.Applied()), 1; got != want {
		t.Errorf("got %d applied transactions, wanted %d", got, want)
	}
}

func TestMemorySubmitOrder(t *testing.T) {
	client := NewMemoryClient()
	signer := tx.NewSigner(crypto.NewEd25519Signer(&crypto.PrivateKey{7}))

	var want []tx.Key
	for i := uint64(0); i < 3; i++ {
		u := tx.Unsigned{LogID: "logid", Kind: tx.KindEntry, Sequence: i, Payload: []byte(`{}`)}
		txn, err := signer.Sign(&u)
		if err != nil {
			t.Fatalf("signing: %v", err)
		}
		if _, err := client.Submit(context.Background(), txn); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
		want = append(want, txn.Key())
	}

	got := client.Applied()
	if len(got) != len(want) {
		t.Fatalf("got %d applied transactions, wanted %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("apply order differs at %d: got %v, wanted %v", i, got[i], want[i])
		}
	}
}

func TestMarshalTransaction(t *testing.T) {
	txn := testTransaction(t, `{"k":1}`)
	serialized, err := marshalTransaction(txn)
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}

	var wire struct {
		Payload   json.RawMessage `json:"payload"`
		Signature string          `json:"signature"`
		KeyHash   string          `json:"key_hash"`
	}
	if err := json.Unmarshal(serialized, &wire); err != nil {
		t.Fatalf("unmarshaling wire leaf: %v", err)
	}
	if got, want := string(wire.Payload), string(txn.Payload); got != want {
		t.Errorf("got payload %s, wanted %s", got, want)
	}
	if got, want := wire.Signature, hex.EncodeToString(txn.Signature[:]); got != want {
		t.Errorf("got signature %s, wanted %s", got, want)
	}
	if got, want := wire.KeyHash, hex.EncodeToString(txn.KeyHash[:]); got != want {
		t.Errorf("got key hash %s, wanted %s", got, want)
	}

	again, err := marshalTransaction(txn)
	if err != nil {
		t.Fatalf("marshaling again: %v", err)
	}
	if string(serialized) != string(again) {
		t.Errorf("leaf serialization not deterministic:\n%s\n%s", serialized, again)
	}
}
