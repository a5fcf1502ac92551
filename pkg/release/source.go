package release

import (
	"context"
	"io"
	"os"
)

// ImageSource resolves a datastore.Image's FilePath to its source
// pixel bytes. Kept as a seam so tests can substitute an in-memory
// source instead of touching the filesystem.
type ImageSource interface {
	Open(ctx context.Context, filePath string) (io.ReadCloser, error)
}

// FSImageSource reads source images directly off the local
// filesystem.
type FSImageSource struct{}

func (FSImageSource) Open(_ context.Context, filePath string) (io.ReadCloser, error) {
	return os.Open(filePath)
}
