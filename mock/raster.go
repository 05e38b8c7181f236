package mock

import (
	"context"

	"github.com/tsawler/layoutlens/raster"
)

var _ raster.Rasterizer = (*Rasterizer)(nil)

// Rasterizer is a mock implementation of raster.Rasterizer.
type Rasterizer struct {
	RasterizeFn func(ctx context.Context, data []byte, dpi int) ([]raster.PageImage, error)
}

func (r *Rasterizer) Rasterize(ctx context.Context, data []byte, dpi int) ([]raster.PageImage, error) {
	return r.RasterizeFn(ctx, data, dpi)
}
