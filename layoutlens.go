// Package layoutlens extracts structured elements (titles, headers,
// paragraphs, tables and figures) with page-relative bounding boxes from PDF
// documents.
//
// Basic usage:
//
//	result, warnings, err := layoutlens.New().Extract(ctx, data)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", layoutlens.FormatWarnings(warnings))
//	}
//
// With options:
//
//	result, _, err := layoutlens.New().
//	    DPI(300).
//	    Language("eng+deu").
//	    Extract(ctx, data)
//
// Extract reads the text layer first and falls back to OCR when the
// document has none. Every bounding box is expressed in a 0-1000 space with
// the origin at the top-left corner of the page, whatever the page size.
//
// The lower-level packages (reader, layout, ocr, raster, markdown, annotate)
// can be used on their own.
package layoutlens

import (
	"github.com/tsawler/layoutlens/model"
)

// New returns an Extractor with default options.
//
// Example:
//
//	result, warnings, err := layoutlens.New().Digital(data)
func New() *Extractor {
	return &Extractor{options: DefaultOptions()}
}

// NewWithOptions returns an Extractor using opts. Zero-valued fields are
// filled from DefaultOptions.
func NewWithOptions(opts Options) *Extractor {
	return &Extractor{options: opts.withDefaults()}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a call to Extract, Digital or OCR and
// panics if the error is non-nil. It discards warnings.
//
// Example:
//
//	result := layoutlens.MustResult(layoutlens.New().Digital(data))
func MustResult(val *model.ExtractionResult, _ []Warning, err error) *model.ExtractionResult {
	if err != nil {
		panic(err)
	}
	return val
}
