package ids

import (
	"crypto/sha256"
	"encoding/base32"
	"time"

	internalstrings "github.com/amonks/taskday/internal/strings"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 8

// maxUniqueAttempts bounds the collision loop in GenerateUnique.
const maxUniqueAttempts = 64

// Generate creates a deterministic, lowercase base32 ID derived from input.
func Generate(input string, length int) string {
	hash := sha256.Sum256([]byte(input))
	encoded := base32.StdEncoding.EncodeToString(hash[:])
	if length <= 0 {
		return ""
	}
	if length > len(encoded) {
		length = len(encoded)
	}
	return internalstrings.NormalizeLower(encoded[:length])
}

// GenerateWithTimestamp appends a timestamp to input before hashing.
func GenerateWithTimestamp(input string, timestamp time.Time, length int) string {
	return Generate(input+timestamp.Format(time.RFC3339Nano), length)
}

// GenerateUnique returns a timestamped ID that taken reports as unused.
// On collision the timestamp is bumped by a nanosecond and hashed again;
// once the attempts run out the ID is widened to the full hash.
func GenerateUnique(input string, timestamp time.Time, length int, taken func(string) bool) string {
	for attempt := 0; attempt < maxUniqueAttempts; attempt++ {
		id := GenerateWithTimestamp(input, timestamp.Add(time.Duration(attempt)), length)
		if taken == nil || !taken(id) {
			return id
		}
	}
	return GenerateWithTimestamp(input, timestamp, sha256.Size*8/5)
}
