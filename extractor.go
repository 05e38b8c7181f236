package layoutlens

import (
	"context"
	"errors"
	"time"

	"github.com/tsawler/layoutlens/layout"
	"github.com/tsawler/layoutlens/model"
	"github.com/tsawler/layoutlens/ocr"
	"github.com/tsawler/layoutlens/raster"
)

// Extractor turns PDF bytes into elements. Each configuration method
// returns a new Extractor, so a configured Extractor can be shared between
// goroutines and used as the base for further chains.
type Extractor struct {
	options Options
}

// clone returns a copy whose options can be changed independently.
func (e *Extractor) clone() *Extractor {
	return &Extractor{options: e.options}
}

// Options returns the extractor's configuration.
func (e *Extractor) Options() Options {
	return e.options
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// DPI sets the rasterization resolution used by the OCR pass.
//
// Example:
//
//	result, _, err := layoutlens.New().DPI(300).OCR(ctx, data)
func (e *Extractor) DPI(dpi int) *Extractor {
	newExt := e.clone()
	if dpi > 0 {
		newExt.options.DPI = dpi
	}
	return newExt
}

// Language sets the OCR language(s), e.g. "eng" or "eng+fra".
func (e *Extractor) Language(lang string) *Extractor {
	newExt := e.clone()
	newExt.options.Language = lang
	return newExt
}

// PageSegMode sets the recognizer's page segmentation mode.
func (e *Extractor) PageSegMode(mode ocr.PageSegMode) *Extractor {
	newExt := e.clone()
	newExt.options.PageSegMode = mode
	return newExt
}

// Classifier sets the title and header thresholds.
func (e *Extractor) Classifier(config layout.ClassifierConfig) *Extractor {
	newExt := e.clone()
	newExt.options.Classifier = config
	return newExt
}

// Blocks sets how glyphs are grouped into text blocks.
func (e *Extractor) Blocks(config layout.BlockConfig) *Extractor {
	newExt := e.clone()
	newExt.options.Block = config
	return newExt
}

// DigitalConfidence sets the confidence given to text-layer elements.
func (e *Extractor) DigitalConfidence(c float64) *Extractor {
	newExt := e.clone()
	newExt.options.DigitalConfidence = c
	return newExt
}

// OCRDefaultConfidence sets the 0-100 confidence used for OCR paragraphs
// without any word confidence.
func (e *Extractor) OCRDefaultConfidence(c float64) *Extractor {
	newExt := e.clone()
	newExt.options.OCRDefaultConfidence = c
	return newExt
}

// Rasterizer sets how pages are rendered for OCR.
//
// Example:
//
//	result, _, err := layoutlens.New().Rasterizer(raster.NewPoppler()).Extract(ctx, data)
func (e *Extractor) Rasterizer(r raster.Rasterizer) *Extractor {
	newExt := e.clone()
	newExt.options.Rasterizer = r
	return newExt
}

// Recognizer sets the OCR engine factory.
func (e *Extractor) Recognizer(fn RecognizerFunc) *Extractor {
	newExt := e.clone()
	newExt.options.NewRecognizer = fn
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Extract reads the document's text layer and, when it holds no text,
// recognizes the rendered pages instead.
//
// It returns model.ErrUnparsablePDF when the bytes are not a PDF, and
// model.ErrOCRUnavailable when the document needs OCR but no engine is
// available.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*model.ExtractionResult, []Warning, error) {
	result, warnings, err := e.Digital(data)
	if !errors.Is(err, model.ErrNoText) {
		return result, warnings, err
	}

	e.options.Logger.Info("no text layer, falling back to OCR",
		"bytes", len(data),
		"dpi", e.options.DPI,
	)

	result, ocrWarnings, err := e.OCR(ctx, data)
	return result, append(warnings, ocrWarnings...), err
}

func elapsed(start time.Time) float64 {
	return model.Seconds(time.Since(start))
}
