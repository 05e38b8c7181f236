// Package raster renders PDF pages to PNG images for text recognition.
//
// Two rasterizers are provided. Embedded is pure Go: it composites the
// images embedded in each page onto a white canvas, which is what a scanned
// document consists of. Poppler shells out to pdftoppm and renders
// everything, vector text included.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
)

// DefaultDPI is the resolution pages are rendered at unless configured
// otherwise.
const DefaultDPI = 200

// pointsPerInch is the PDF user-space unit.
const pointsPerInch = 72.0

// PageImage is one rendered page.
type PageImage struct {
	Page   int // 1-indexed
	Width  int
	Height int
	PNG    []byte
}

// Rasterizer renders every page of a document.
type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte, dpi int) ([]PageImage, error)
}

// New returns the rasterizer registered under name: "embedded" (the
// default when name is empty) or "poppler".
func New(name string) (Rasterizer, error) {
	switch name {
	case "", "embedded":
		return NewEmbedded(), nil
	case "poppler", "pdftoppm":
		return NewPoppler(), nil
	default:
		return nil, fmt.Errorf("unknown rasterizer %q", name)
	}
}

// pixels converts a length in points to pixels at dpi.
func pixels(points float64, dpi int) int {
	return int(math.Round(points * float64(dpi) / pointsPerInch))
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
