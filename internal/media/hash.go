package media

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashLength is the truncated public identity length. The full digest is
// stored alongside it so truncation collisions stay detectable.
const hashLength = 20

// HashFileContent computes the content-addressed identity of a byte buffer.
// It returns the truncated hex digest used as the public asset hash plus the
// full 64-character SHA-256 digest. Identical bytes always yield identical
// output regardless of filename or upload order.
func HashFileContent(data []byte) (hash string, fullHash string) {
	sum := sha256.Sum256(data)
	fullHash = hex.EncodeToString(sum[:])
	return fullHash[:hashLength], fullHash
}
