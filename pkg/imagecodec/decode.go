package imagecodec

import (
	"image"
	"io"

	// Blank-imported purely for their format-registration side effect
	// (image.Decode dispatches on the sniffed header, not a name we
	// pass in), matching the registration style image/jpeg and
	// image/png already get for free from their direct Encode imports
	// above.
	_ "golang.org/x/image/webp"
)

// Decode reads a source image in any of this registry's recognized
// container formats and returns the decoded pixel buffer plus the
// sniffed format name. Used by the Release Orchestrator to load the
// original pixels the Pixel Engine renders against (the data store
// carries a file_path, not already-decoded pixels).
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}
