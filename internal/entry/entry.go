// Package entry decodes raw CT log entries into canonical issuance
// records.
package entry

import (
	"errors"
	"fmt"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"
	"github.com/google/certificate-transparency-go/x509"
	"github.com/transparency-dev/merkle/rfc6962"

	"sigsum.org/sigsum-go/pkg/crypto"
)

var (
	// ErrUnsupportedType marks leaf encodings the decoder does not
	// understand. Callers skip the entry with a warning.
	ErrUnsupportedType = errors.New("unsupported entry type")
	// ErrMalformed marks structurally invalid entries. Either the log
	// serves garbage or this parser needs updating, so the log's
	// pipeline halts.
	ErrMalformed = errors.New("malformed entry")
)

type Kind string

const (
	KindCertificate    Kind = "certificate"
	KindPrecertificate Kind = "precertificate"
)

// Canonical is the decoded issuance record for one log entry,
// uniquely identified by (LogID, LogIndex). Immutable once produced.
type Canonical struct {
	LogID     string
	LogIndex  uint64
	Kind      Kind
	Timestamp uint64 // ms since epoch, as asserted by the log
	LeafHash  crypto.Hash

	Subject      string
	DNSNames     []string
	Issuer       string
	SerialNumber string
	NotBefore    int64 // unix seconds
	NotAfter     int64

	// Precertificates only: hash of the issuing key, from the
	// precert's timestamped entry.
	IssuerKeyHash []byte
}

// Decode parses a raw leaf input (a TLS-encoded MerkleTreeLeaf) into a
// canonical record. Certificate parse warnings that the ct x509 fork
// considers non-fatal are tolerated; real CT entries frequently carry
// them.
func Decode(logID string, index uint64, leafInput []byte) (Canonical, error) {
	var leaf ct.MerkleTreeLeaf
	rest, err := tls.Unmarshal(leafInput, &leaf)
	if err != nil {
		return Canonical{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(rest) > 0 {
		return Canonical{}, fmt.Errorf("%w: %d trailing bytes after leaf", ErrMalformed, len(rest))
	}
	if leaf.Version != ct.V1 || leaf.LeafType != ct.TimestampedEntryLeafType || leaf.TimestampedEntry == nil {
		return Canonical{}, fmt.Errorf("%w: version %v, leaf type %v",
			ErrUnsupportedType, leaf.Version, leaf.LeafType)
	}

	te := leaf.TimestampedEntry
	rec := Canonical{
		LogID:     logID,
		LogIndex:  index,
		Timestamp: te.Timestamp,
	}
	copy(rec.LeafHash[:], rfc6962.DefaultHasher.HashLeaf(leafInput))

	switch te.EntryType {
	case ct.X509LogEntryType:
		if te.X509Entry == nil {
			return Canonical{}, fmt.Errorf("%w: x509 entry without certificate", ErrMalformed)
		}
		cert, err := x509.ParseCertificate(te.X509Entry.Data)
		if x509.IsFatal(err) || cert == nil {
			return Canonical{}, fmt.Errorf("%w: certificate at index %d: %v", ErrMalformed, index, err)
		}
		rec.Kind = KindCertificate
		fill(&rec, cert)
	case ct.PrecertLogEntryType:
		if te.PrecertEntry == nil {
			return Canonical{}, fmt.Errorf("%w: precert entry without tbs", ErrMalformed)
		}
		tbs, err := x509.ParseTBSCertificate(te.PrecertEntry.TBSCertificate)
		if x509.IsFatal(err) || tbs == nil {
			return Canonical{}, fmt.Errorf("%w: precert tbs at index %d: %v", ErrMalformed, index, err)
		}
		rec.Kind = KindPrecertificate
		rec.IssuerKeyHash = append([]byte(nil), te.PrecertEntry.IssuerKeyHash[:]...)
		fill(&rec, tbs)
	default:
		return Canonical{}, fmt.Errorf("%w: entry type %v", ErrUnsupportedType, te.EntryType)
	}
	return rec, nil
}

func fill(rec *Canonical, cert *x509.Certificate) {
	rec.Subject = cert.Subject.String()
	rec.DNSNames = append([]string(nil), cert.DNSNames...)
	rec.Issuer = cert.Issuer.String()
	if cert.SerialNumber != nil {
		rec.SerialNumber = cert.SerialNumber.Text(16)
	}
	rec.NotBefore = cert.NotBefore.Unix()
	rec.NotAfter = cert.NotAfter.Unix()
}
