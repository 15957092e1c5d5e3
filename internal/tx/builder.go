package tx

import (
	"encoding/hex"
	"encoding/json"

	"github.com/gowebpki/jcs"

	"github.com/ct-anchor/relay-go/internal/entry"
)

// Wire forms of the payloads. Field names are part of the anchor
// pipeline's contract; the canonicalization makes key order and number
// formatting irrelevant on our side.

type entryPayload struct {
	Kind          string   `json:"kind"`
	LogID         string   `json:"log_id"`
	LogIndex      uint64   `json:"log_index"`
	EntryKind     string   `json:"entry_kind"`
	Timestamp     uint64   `json:"timestamp"`
	LeafHash      string   `json:"leaf_hash"`
	Subject       string   `json:"subject"`
	DNSNames      []string `json:"dns_names,omitempty"`
	Issuer        string   `json:"issuer"`
	SerialNumber  string   `json:"serial_number"`
	NotBefore     int64    `json:"not_before"`
	NotAfter      int64    `json:"not_after"`
	IssuerKeyHash string   `json:"issuer_key_hash,omitempty"`
}

type checkpointPayload struct {
	Kind      string `json:"kind"`
	LogID     string `json:"log_id"`
	TreeSize  uint64 `json:"tree_size"`
	RootHash  string `json:"root_hash"`
	Timestamp uint64 `json:"timestamp"`
	Signature string `json:"tree_head_signature"`
}

type registerPayload struct {
	Kind      string `json:"kind"`
	LogID     string `json:"log_id"`
	URL       string `json:"url"`
	PublicKey string `json:"public_key"`
}

// BuildEntry maps a decoded issuance record into an unsigned
// transaction. Pure and deterministic.
func BuildEntry(rec *entry.Canonical) (Unsigned, error) {
	payload, err := canonicalJSON(entryPayload{
		Kind:          string(KindEntry),
		LogID:         rec.LogID,
		LogIndex:      rec.LogIndex,
		EntryKind:     string(rec.Kind),
		Timestamp:     rec.Timestamp,
		LeafHash:      hex.EncodeToString(rec.LeafHash[:]),
		Subject:       rec.Subject,
		DNSNames:      rec.DNSNames,
		Issuer:        rec.Issuer,
		SerialNumber:  rec.SerialNumber,
		NotBefore:     rec.NotBefore,
		NotAfter:      rec.NotAfter,
		IssuerKeyHash: hex.EncodeToString(rec.IssuerKeyHash),
	})
	if err != nil {
		return Unsigned{}, err
	}
	return Unsigned{LogID: rec.LogID, Kind: KindEntry, Sequence: rec.LogIndex, Payload: payload}, nil
}

// BuildCheckpoint wraps a verified tree head observation. The log's
// own signature over the tree head is carried along, so the ledger
// records evidence and not just our claim.
func BuildCheckpoint(logID string, treeSize, timestamp uint64, rootHash, sig []byte) (Unsigned, error) {
	payload, err := canonicalJSON(checkpointPayload{
		Kind:      string(KindCheckpoint),
		LogID:     logID,
		TreeSize:  treeSize,
		RootHash:  hex.EncodeToString(rootHash),
		Timestamp: timestamp,
		Signature: hex.EncodeToString(sig),
	})
	if err != nil {
		return Unsigned{}, err
	}
	return Unsigned{LogID: logID, Kind: KindCheckpoint, Sequence: treeSize, Payload: payload}, nil
}

// BuildRegister announces a monitored log to the anchor pipeline.
func BuildRegister(logID, url, publicKeyB64 string) (Unsigned, error) {
	payload, err := canonicalJSON(registerPayload{
		Kind:      string(KindRegister),
		LogID:     logID,
		URL:       url,
		PublicKey: publicKeyB64,
	})
	if err != nil {
		return Unsigned{}, err
	}
	return Unsigned{LogID: logID, Kind: KindRegister, Sequence: 0, Payload: payload}, nil
}

func canonicalJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(b)
}
