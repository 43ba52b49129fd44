package cas

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint identifies a canonical serialization by content. Two documents
// with the same canonical ATF have the same fingerprint, however they were
// written.
type Fingerprint struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// Sum computes both hashes of data.
func Sum(data []byte) Fingerprint {
	s := sha256.Sum256(data)
	b := blake3.Sum256(data)
	return Fingerprint{
		SHA256: hex.EncodeToString(s[:]),
		BLAKE3: hex.EncodeToString(b[:]),
	}
}

// SumString is Sum for text.
func SumString(s string) Fingerprint {
	return Sum([]byte(s))
}

// Short returns the first 12 hex digits of the BLAKE3 hash, for display.
func (f Fingerprint) Short() string {
	if len(f.BLAKE3) < 12 {
		return f.BLAKE3
	}
	return f.BLAKE3[:12]
}

func (f Fingerprint) String() string {
	return "blake3:" + f.BLAKE3
}

// IsZero reports whether f was never computed.
func (f Fingerprint) IsZero() bool {
	return f.SHA256 == "" && f.BLAKE3 == ""
}
