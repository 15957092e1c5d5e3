package tx

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/gowebpki/jcs"

	"sigsum.org/sigsum-go/pkg/crypto"

	"github.com/ct-anchor/relay-go/internal/entry"
)

func testRecord() *entry.Canonical {
	return &entry.Canonical{
		LogID:        "8af6bb5832d0b1f3857e77e052cec8bd90f3755c9ebf0b2212b91252c2c3c337",
		LogIndex:     17,
		Kind:         entry.KindCertificate,
		Timestamp:    1712345678901,
		LeafHash:     crypto.HashBytes([]byte("leaf")),
		Subject:      "CN=relay-test.example.org",
		DNSNames:     []string{"relay-test.example.org"},
		Issuer:       "CN=Test CA",
		SerialNumber: "2a",
		NotBefore:    1700000000,
		NotAfter:     1735689600,
	}
}

func payloadFields(t *testing.T, payload []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	return m
}

func TestBuildEntry(t *testing.T) {
	rec := testRecord()
	u, err := BuildEntry(rec)
	if err != nil {
		t.Fatalf("building entry transaction: %v", err)
	}
	if got, want := u.Key(), (Key{LogID: rec.LogID, Kind: KindEntry, Sequence: 17}); got != want {
		t.Errorf("got key %v, wanted %v", got, want)
	}
	m := payloadFields(t, u.Payload)
	if got, want := m["kind"], "entry"; got != want {
		t.Errorf("got kind %v, wanted %v", got, want)
	}
	if got, want := m["log_index"], float64(17); got != want {
		t.Errorf("got log index %v, wanted %v", got, want)
	}
	if got, want := m["entry_kind"], "certificate"; got != want {
		t.Errorf("got entry kind %v, wanted %v", got, want)
	}
	leafHash := rec.LeafHash
	if got, want := m["leaf_hash"], hex.EncodeToString(leafHash[:]); got != want {
		t.Errorf("got leaf hash %v, wanted %v", got, want)
	}
	if got, want := m["dns_names"], []interface{}{"relay-test.example.org"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got dns names %v, wanted %v", got, want)
	}
	if got, want := m["not_before"], float64(1700000000); got != want {
		t.Errorf("got not before %v, wanted %v", got, want)
	}
	// Precert-only field stays out of certificate payloads.
	if _, ok := m["issuer_key_hash"]; ok {
		t.Errorf("certificate payload carries issuer key hash")
	}
}

func TestBuildEntryDeterministic(t *testing.T) {
	// The payload is the transaction's identity downstream: building
	// twice from the same record must give identical bytes, and the
	// bytes must already be in canonical form.
	a, err := BuildEntry(testRecord())
	if err != nil {
		t.Fatalf("building entry transaction: %v", err)
	}
	b, err := BuildEntry(testRecord())
	if err != nil {
		t.Fatalf("building entry transaction: %v", err)
	}
	if !bytes.Equal(a.Payload, b.Payload) {
		t.Errorf("payloads differ:\n%s\n%s", a.Payload, b.Payload)
	}
	canonical, err := jcs.Transform(a.Payload)
	if err != nil {
		t.Fatalf("canonicalizing payload: %v", err)
	}
	if !bytes.Equal(a.Payload, canonical) {
		t.Errorf("payload not canonical:\n%s\n%s", a.Payload, canonical)
	}
}

func TestBuildCheckpoint(t *testing.T) {
	root := crypto.HashBytes([]byte("root"))
	sig := []byte{4, 7, 1, 1}
	u, err := BuildCheckpoint("logid", 144, 1712345678901, root[:], sig)
	if err != nil {
		t.Fatalf("building checkpoint transaction: %v", err)
	}
	if got, want := u.Key(), (Key{LogID: "logid", Kind: KindCheckpoint, Sequence: 144}); got != want {
		t.Errorf("got key %v, wanted %v", got, want)
	}
	m := payloadFields(t, u.Payload)
	if got, want := m["kind"], "checkpoint"; got != want {
		t.Errorf("got kind %v, wanted %v", got, want)
	}
	if got, want := m["tree_size"], float64(144); got != want {
		t.Errorf("got tree size %v, wanted %v", got, want)
	}
	if got, want := m["root_hash"], hex.EncodeToString(root[:]); got != want {
		t.Errorf("got root hash %v, wanted %v", got, want)
	}
	if got, want := m["tree_head_signature"], hex.EncodeToString(sig); got != want {
		t.Errorf("got tree head signature %v, wanted %v", got, want)
	}
}

func TestBuildRegister(t *testing.T) {
	u, err := BuildRegister("logid", "https://log.example.org/2025/", "dGVzdA==")
	if err != nil {
		t.Fatalf("building register transaction: %v", err)
	}
	if got, want := u.Key(), (Key{LogID: "logid", Kind: KindRegister, Sequence: 0}); got != want {
		t.Errorf("got key %v, wanted %v", got, want)
	}
	m := payloadFields(t, u.Payload)
	if got, want := m["kind"], "register"; got != want {
		t.Errorf("got kind %v, wanted %v", got, want)
	}
	if got, want := m["url"], "https://log.example.org/2025/"; got != want {
		t.Errorf("got url %v, wanted %v", got, want)
	}
	if got, want := m["public_key"], "dGVzdA=="; got != want {
		t.Errorf("got public key %v, wanted %v", got, want)
	}
}
