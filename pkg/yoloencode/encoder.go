// Package yoloencode implements the YOLO Encoder (C5): formatting
// transported annotations as normalized detection/segmentation lines
// and resolving the class ID space a release commits to.
package yoloencode

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/clearscan/augforge/pkg/annotation"
	"github.com/clearscan/augforge/pkg/geom"
)

// ErrKind classifies an encoder-stage failure.
type ErrKind string

// EncodeBounds marks a line dropped because its normalized coordinates
// fell outside the format's valid range — an upstream clip
// inconsistency, not a correctable condition.
const EncodeBounds ErrKind = "encode_bounds"

const decimalPlaces = 6

// DetectionLine formats one bounding box as `<class_id> cx cy w h`,
// each coordinate normalized by final. Returns ok=false (and logs a
// diagnostic) if any normalized value falls outside [0,1] for the
// center or (0,1] for width/height.
func DetectionLine(logger *slog.Logger, b annotation.BoundingBox, final geom.CanvasDims) (string, bool) {
	w, h := float64(final.Width), float64(final.Height)
	bw := (b.XMax - b.XMin) / w
	bh := (b.YMax - b.YMin) / h
	cx := (b.XMin + b.XMax) / 2 / w
	cy := (b.YMin + b.YMax) / 2 / h

	if !inRange(cx, 0, 1) || !inRange(cy, 0, 1) || !inRangeExclusiveLow(bw, 0, 1) || !inRangeExclusiveLow(bh, 0, 1) {
		logger.Warn("detection line dropped: out of normalized bounds", "class_name", b.ClassName, "cx", cx, "cy", cy, "w", bw, "h", bh)
		return "", false
	}

	line := strings.Join([]string{
		strconv.Itoa(b.ClassID),
		formatFixed(cx), formatFixed(cy), formatFixed(bw), formatFixed(bh),
	}, " ")
	return line, true
}

// SegmentationLine formats a polygon as `<class_id> x1 y1 x2 y2 ...`,
// each coordinate normalized by final. A ring with any vertex outside
// [0,1]^2 is dropped, but other rings of the same polygon (when the
// caller passes multiple) are formatted independently by repeated
// calls joined by the caller under the "rings concatenated into one
// line" rule — this function formats a single ring.
func SegmentationLine(logger *slog.Logger, p annotation.Polygon, final geom.CanvasDims) (string, bool) {
	w, h := float64(final.Width), float64(final.Height)
	if len(p.Points) < 3 {
		return "", false
	}

	coords := make([]string, 0, len(p.Points)*2)
	for _, pt := range p.Points {
		nx, ny := pt.X/w, pt.Y/h
		if !inRange(nx, 0, 1) || !inRange(ny, 0, 1) {
			logger.Warn("segmentation ring dropped: vertex out of [0,1]^2", "class_name", p.ClassName, "x", nx, "y", ny)
			return "", false
		}
		coords = append(coords, formatFixed(nx), formatFixed(ny))
	}

	line := strconv.Itoa(p.ClassID) + " " + strings.Join(coords, " ")
	return line, true
}

// SegmentationLineMultiRing formats a polygon annotation that may carry
// several independently-clipped rings of the same instance: surviving
// rings are concatenated onto a single line, space separated.
// Returns ok=false only if every ring was dropped.
func SegmentationLineMultiRing(logger *slog.Logger, classID int, rings []annotation.Polygon, final geom.CanvasDims) (string, bool) {
	var parts []string
	for _, ring := range rings {
		line, ok := SegmentationLine(logger, ring, final)
		if !ok {
			continue
		}
		// Drop the per-ring class_id prefix; the multi-ring line
		// carries it once at the front.
		_, coords, found := strings.Cut(line, " ")
		if !found {
			continue
		}
		parts = append(parts, coords)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strconv.Itoa(classID) + " " + strings.Join(parts, " "), true
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', decimalPlaces, 64)
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func inRangeExclusiveLow(v, lo, hi float64) bool {
	return v > lo && v <= hi
}
