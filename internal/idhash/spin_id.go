// Package idhash derives deterministic spin identifiers. Feeds replay the
// same spin across reconnects; hashing the feed coordinates makes the id
// stable so the storage layer can reject duplicates.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputeSpinID computes a deterministic spin id.
// Formula: base58(SHA256(table|sequence|number|timestamp_ms)).
func ComputeSpinID(table string, sequence int64, number int, timestampMs int64) string {
	data := fmt.Sprintf("%s|%d|%d|%d", table, sequence, number, timestampMs)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
