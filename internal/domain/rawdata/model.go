package rawdata

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const SourceFPL = "fpl"

// Payload is one raw API response kept as a snapshot.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}

// HashPayload returns the hex SHA-256 of a raw payload.
func HashPayload(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
