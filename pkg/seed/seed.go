// Package seed derives deterministic per-variant seeds so stochastic
// tools (random_zoom's center jitter, crop.mode=random, noise,
// cutout, perspective_warp) reproduce identically across runs: MD5 a stable
// encoding of the key, reduced to a fixed-width uint64 seed rather
// than a UUID string.
package seed

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// ForVariant derives a stable seed from (imageID, variantIndex, label).
// label distinguishes independent stochastic draws within the same
// variant (e.g. "random_zoom" vs "crop" vs "perspective_warp") so they
// don't silently share one draw.
func ForVariant(imageID string, variantIndex int, label string) uint64 {
	key := fmt.Sprintf("%s|%d|%s", imageID, variantIndex, label)
	sum := md5.Sum([]byte(key))
	return binary.BigEndian.Uint64(sum[:8])
}

// RandForVariant returns a *rand.Rand seeded deterministically for
// (imageID, variantIndex, label).
func RandForVariant(imageID string, variantIndex int, label string) *rand.Rand {
	s := ForVariant(imageID, variantIndex, label)
	return rand.New(rand.NewPCG(s, s^0x9E3779B97F4A7C15))
}
