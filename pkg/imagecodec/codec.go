// Package imagecodec is the output pixel codec registry: one Codec per
// supported release output_format.
package imagecodec

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Codec encodes a rendered canvas to an output container format.
type Codec interface {
	// Encode writes img to w in this codec's container format.
	Encode(w io.Writer, img image.Image) error
	// Name returns the output_format identifier (e.g. "png").
	Name() string
	// Ext returns the file extension (without the leading dot) used
	// when building `<name><suffix>.<ext>` output paths.
	Ext() string
}

type jpegCodec struct{ quality int }

func (c jpegCodec) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: c.quality})
}
func (c jpegCodec) Name() string { return "jpg" }
func (c jpegCodec) Ext() string  { return "jpg" }

type pngCodec struct{}

func (pngCodec) Encode(w io.Writer, img image.Image) error { return png.Encode(w, img) }
func (pngCodec) Name() string                              { return "png" }
func (pngCodec) Ext() string                               { return "png" }

type bmpCodec struct{}

func (bmpCodec) Encode(w io.Writer, img image.Image) error { return bmp.Encode(w, img) }
func (bmpCodec) Name() string                              { return "bmp" }
func (bmpCodec) Ext() string                               { return "bmp" }

type tiffCodec struct{}

func (tiffCodec) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}
func (tiffCodec) Name() string { return "tiff" }
func (tiffCodec) Ext() string  { return "tiff" }

// webpCodec is registered so ByName()/Names() recognize the name,
// but Encode always fails: golang.org/x/image/webp only decodes, and
// no pack example wires a pure-Go webp encoder. Requests for "webp"
// output are rejected at config_invalid time by pkg/release, not here
// (this registry is not the validation layer).
type webpCodec struct{}

func (webpCodec) Encode(w io.Writer, img image.Image) error {
	return fmt.Errorf("imagecodec: webp encoding is not supported (decode-only dependency)")
}
func (webpCodec) Name() string { return "webp" }
func (webpCodec) Ext() string  { return "webp" }

var byName = map[string]Codec{
	"jpg":  jpegCodec{quality: 95},
	"jpeg": jpegCodec{quality: 95},
	"png":  pngCodec{},
	"bmp":  bmpCodec{},
	"tiff": tiffCodec{},
	"webp": webpCodec{},
}

// ByName returns the codec registered for format, or nil if unknown.
func ByName(format string) Codec {
	return byName[format]
}

// Supported reports whether format names a codec this registry can
// actually encode with (unlike ByName, this is false for "webp").
func Supported(format string) bool {
	c := ByName(format)
	return c != nil && format != "webp"
}

// Names returns every registered output_format name, encodable or not.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	return names
}
