package raster

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/layoutlens/model"
)

// Poppler renders pages with pdftoppm (poppler-utils), one process per page.
// The document is passed on stdin, so nothing but the output is written to
// disk.
type Poppler struct {
	// Binary is the pdftoppm executable (default: "pdftoppm" on PATH).
	Binary string
}

// NewPoppler creates a Poppler rasterizer using pdftoppm from PATH.
func NewPoppler() *Poppler {
	return &Poppler{Binary: "pdftoppm"}
}

// Rasterize renders each page at dpi.
func (p *Poppler) Rasterize(ctx context.Context, data []byte, dpi int) ([]PageImage, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnparsablePDF, err)
	}

	tmpDir, err := os.MkdirTemp("", "layoutlens-raster-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	out := make([]PageImage, 0, count)
	for n := 1; n <= count; n++ {
		img, err := p.renderPage(ctx, data, n, dpi, filepath.Join(tmpDir, "page"))
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

func (p *Poppler) renderPage(ctx context.Context, data []byte, pageNum, dpi int, outputPrefix string) (PageImage, error) {
	select {
	case <-ctx.Done():
		return PageImage{}, ctx.Err()
	default:
	}

	bin := p.Binary
	if bin == "" {
		bin = "pdftoppm"
	}

	// -singlefile writes <prefix>.png without a page-number suffix
	pageStr := strconv.Itoa(pageNum)
	cmd := exec.CommandContext(ctx, bin,
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(dpi),
		"-singlefile",
		"-",
		outputPrefix,
	)
	cmd.Stdin = bytes.NewReader(data)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return PageImage{}, fmt.Errorf("pdftoppm failed on page %d: %w (output: %s)", pageNum, err, string(output))
	}

	raw, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return PageImage{}, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return PageImage{}, fmt.Errorf("page %d: reading rendered image: %w", pageNum, err)
	}
	return PageImage{Page: pageNum, Width: cfg.Width, Height: cfg.Height, PNG: raw}, nil
}
