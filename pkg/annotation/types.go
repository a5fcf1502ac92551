// Package annotation implements the Annotation Transformer (C4):
// transporting bounding boxes and polygons through the same geometry
// the Pixel Engine rendered, so labels stay aligned with pixels.
package annotation

import "github.com/clearscan/augforge/pkg/geom"

// BoundingBox is an axis-aligned box in pixel coordinates of the image
// it annotates.
type BoundingBox struct {
	XMin, YMin, XMax, YMax float64
	ClassName              string
	ClassID                int
	Confidence             float64
}

// Valid reports whether the box satisfies the data model's invariant.
func (b BoundingBox) Valid() bool {
	return b.XMin < b.XMax && b.YMin < b.YMax
}

// Polygon is an ordered ring of >=3 pixel-space vertices. Self-
// intersection is not modeled.
type Polygon struct {
	Points     []geom.Point
	ClassName  string
	ClassID    int
	Confidence float64
}
