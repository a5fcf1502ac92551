package datastore

import "context"

// Store is the external source-of-truth boundary: a
// release never mutates it, only reads. Implementations might wrap a
// SQL database, an object store manifest, or an in-process fixture.
type Store interface {
	// Images returns every image in scope for datasetID, across all
	// splits.
	Images(ctx context.Context, datasetID string) ([]Image, error)
	// Annotations returns the detection and/or segmentation
	// annotations for imageID, in pixel-space coordinates of that
	// image.
	Annotations(ctx context.Context, imageID string) (Annotations, error)
}

// MemStore is an in-memory Store, used by tests and by the build CLI
// command, which loads the config file's inline dataset into it
// (release.DatasetManifest.Store).
type MemStore struct {
	images      map[string][]Image
	annotations map[string]Annotations
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		images:      make(map[string][]Image),
		annotations: make(map[string]Annotations),
	}
}

// AddImage registers img under its DatasetID.
func (m *MemStore) AddImage(img Image) {
	m.images[img.DatasetID] = append(m.images[img.DatasetID], img)
}

// SetAnnotations replaces the annotations recorded for imageID.
func (m *MemStore) SetAnnotations(imageID string, ann Annotations) {
	m.annotations[imageID] = ann
}

func (m *MemStore) Images(_ context.Context, datasetID string) ([]Image, error) {
	return append([]Image(nil), m.images[datasetID]...), nil
}

func (m *MemStore) Annotations(_ context.Context, imageID string) (Annotations, error) {
	return m.annotations[imageID], nil
}
