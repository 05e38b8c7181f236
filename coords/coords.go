// Package coords converts bounding boxes between a page's native coordinate
// space and the canonical 0..1000 top-left-origin space used by every
// extracted element.
//
// PDF page geometry is bottom-up, so [Normalize] flips the Y axis. Raster
// images (and the word boxes a recognizer reports for them) are already
// top-down, so [NormalizeRaster] scales without flipping.
package coords

import (
	"fmt"
	"image"

	"github.com/tsawler/layoutlens/model"
)

// Normalize converts a native PDF box (bottom-left origin) on a page of the
// given size to the canonical space. Each axis is scaled independently and
// truncated to an integer. A page with zero width or height yields
// model.ErrInvalidGeometry.
func Normalize(box model.BBox, pageWidth, pageHeight float64) (model.NormBox, error) {
	if pageWidth <= 0 || pageHeight <= 0 {
		return model.NormBox{}, fmt.Errorf("page %.2fx%.2f: %w", pageWidth, pageHeight, model.ErrInvalidGeometry)
	}

	xMin := model.NormScale * box.Left() / pageWidth
	xMax := model.NormScale * box.Right() / pageWidth
	yMin := model.NormScale * (1 - box.Top()/pageHeight)
	yMax := model.NormScale * (1 - box.Bottom()/pageHeight)

	return model.NormBox{clamp(xMin), clamp(yMin), clamp(xMax), clamp(yMax)}, nil
}

// NormalizeRaster converts a pixel rectangle on a top-down image of the
// given size to the canonical space. No Y flip is applied.
func NormalizeRaster(r image.Rectangle, imgWidth, imgHeight int) (model.NormBox, error) {
	if imgWidth <= 0 || imgHeight <= 0 {
		return model.NormBox{}, fmt.Errorf("image %dx%d: %w", imgWidth, imgHeight, model.ErrInvalidGeometry)
	}
	r = r.Canon()
	w, h := float64(imgWidth), float64(imgHeight)

	return model.NormBox{
		clamp(model.NormScale * float64(r.Min.X) / w),
		clamp(model.NormScale * float64(r.Min.Y) / h),
		clamp(model.NormScale * float64(r.Max.X) / w),
		clamp(model.NormScale * float64(r.Max.Y) / h),
	}, nil
}

// Scale maps a canonical box onto a canvas of the given pixel size.
func Scale(box model.NormBox, width, height int) image.Rectangle {
	return image.Rect(
		box[0]*width/model.NormScale,
		box[1]*height/model.NormScale,
		box[2]*width/model.NormScale,
		box[3]*height/model.NormScale,
	)
}

// clamp truncates toward zero and keeps the value inside the canonical
// range. Boxes that poke outside the page (bleed, rounding) are pinned to
// the page edge.
func clamp(v float64) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > model.NormScale {
		return model.NormScale
	}
	return n
}
