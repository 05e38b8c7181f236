package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/tsawler/layoutlens/model"
	"github.com/tsawler/layoutlens/reader"
)

// Embedded rasterizes pages by drawing their image XObjects at the
// positions the content stream paints them. Text and vector graphics are
// not rendered.
type Embedded struct {
	conf   *pdfmodel.Configuration
	scaler draw.Scaler
}

// NewEmbedded creates an Embedded rasterizer with relaxed validation.
func NewEmbedded() *Embedded {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return &Embedded{conf: conf, scaler: draw.ApproxBiLinear}
}

// Rasterize renders each page at dpi.
func (e *Embedded) Rasterize(ctx context.Context, data []byte, dpi int) ([]PageImage, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	doc, err := reader.Open(data)
	if err != nil {
		return nil, err
	}

	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), e.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnparsablePDF, err)
	}

	out := make([]PageImage, 0, doc.PageCount())
	for n := 1; n <= doc.PageCount(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := doc.Page(n)
		if err != nil {
			return nil, err
		}
		placements, err := page.Placements()
		if err != nil {
			return nil, err
		}
		images, err := pageImages(pctx, n)
		if err != nil {
			return nil, err
		}

		canvas := e.compose(page.Width, page.Height, placements, images, dpi)
		encoded, err := encodePNG(canvas)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		b := canvas.Bounds()
		out = append(out, PageImage{Page: n, Width: b.Dx(), Height: b.Dy(), PNG: encoded})
	}
	return out, nil
}

// pageImages decodes the images used by a page, keyed by resource name.
// Images in formats without a registered decoder are skipped.
func pageImages(pctx *pdfmodel.Context, pageNr int) (map[string]image.Image, error) {
	extracted, err := pdfcpu.ExtractPageImages(pctx, pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("page %d: extracting images: %w", pageNr, err)
	}

	decoded := make(map[string]image.Image, len(extracted))
	for _, img := range extracted {
		if img.Reader == nil {
			continue
		}
		raw, err := io.ReadAll(img)
		if err != nil {
			return nil, fmt.Errorf("page %d: reading image %s: %w", pageNr, img.Name, err)
		}
		m, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			continue
		}
		decoded[img.Name] = m
	}
	return decoded, nil
}

// compose paints each image placement onto a white page-sized canvas.
// Placement boxes are in points with a bottom-left origin.
func (e *Embedded) compose(width, height float64, placements []reader.Placement, images map[string]image.Image, dpi int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, max(pixels(width, dpi), 1), max(pixels(height, dpi), 1)))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, pl := range placements {
		if pl.Kind != reader.XObjectImage {
			continue
		}
		src, ok := images[pl.Name]
		if !ok {
			continue
		}
		dst := image.Rect(
			pixels(pl.BBox.Left(), dpi),
			pixels(height-pl.BBox.Top(), dpi),
			pixels(pl.BBox.Right(), dpi),
			pixels(height-pl.BBox.Bottom(), dpi),
		)
		if dst.Empty() {
			continue
		}
		e.scaler.Scale(canvas, dst, src, src.Bounds(), draw.Over, nil)
	}
	return canvas
}
