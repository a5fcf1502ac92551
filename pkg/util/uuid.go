// Package util holds small helpers shared across the release
// pipeline.
package util

import (
	"crypto/md5"
	"encoding/json"

	"github.com/google/uuid"
)

// HashUUID renders value as JSON and folds the digest into a UUID, so
// any JSON-encodable value (a release request, a selection list) gets
// a stable fingerprint: identical content, identical UUID. Returns ""
// if value cannot be marshaled.
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	sum := md5.Sum(raw)
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		return ""
	}
	return id.String()
}
