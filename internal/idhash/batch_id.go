// Package idhash computes deterministic identifiers for processed images.
package idhash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/mr-tron/base58"
)

// ComputeBatchID computes a deterministic batch identifier using SHA256.
// Formula: SHA256(image_bytes || received_at_unix_nano)
// Returns the base58-encoded hash, short enough for log lines and URLs.
func ComputeBatchID(image []byte, receivedAt time.Time) string {
	h := sha256.New()
	h.Write(image)

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(receivedAt.UnixNano()))
	h.Write(ts[:])

	return base58.Encode(h.Sum(nil))
}

// ImageSHA256 returns the hex-encoded SHA256 of the raw image bytes, used to
// correlate audit records for the same screenshot across uploads.
func ImageSHA256(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
