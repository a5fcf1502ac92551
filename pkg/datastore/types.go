// Package datastore defines the read-only external source-of-truth
// interface: the images and annotations a release walks,
// sourced from a system this module never owns or mutates.
package datastore

// Split is one of the three dataset partitions a release respects.
type Split string

const (
	SplitTrain Split = "train"
	SplitVal   Split = "val"
	SplitTest  Split = "test"
)

// Image is the immutable tuple the data store exposes per source image.
type Image struct {
	ID        string
	FilePath  string
	Width     int
	Height    int
	Split     Split
	DatasetID string
}

// BoundingBoxInput is a detection annotation as read from the store,
// already in pixel-space coordinates of Image.
type BoundingBoxInput struct {
	XMin, YMin, XMax, YMax float64
	ClassID                int
	ClassName              string
	Confidence             float64
}

// PolygonInput is a segmentation annotation as read from the store,
// with its vertices already in the canonical point-list shape
// (NormalizePolygonShape produces that list from any of the three
// accepted input shapes).
type PolygonInput struct {
	Points     []PointInput
	ClassID    int
	ClassName  string
	Confidence float64
}

// PointInput is one vertex of a PolygonInput's canonical form.
type PointInput struct {
	X, Y float64
}

// Annotations bundles the two annotation kinds returned for one image;
// an image carries one or the other population depending on
// task_type, never a meaningful mix in a single release.
type Annotations struct {
	Boxes    []BoundingBoxInput
	Polygons []PolygonInput
}
