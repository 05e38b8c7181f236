package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry is returned when page dimensions have zero area.
	// Callers skip the offending region.
	ErrInvalidGeometry = errors.New("invalid page geometry")

	// ErrUnparsablePDF is returned when a byte stream is not a readable PDF.
	ErrUnparsablePDF = errors.New("unparsable PDF")

	// ErrNoText is returned by the digital extractor when a document parsed
	// fine but produced no text elements, e.g. a scanned document. It is the
	// trigger for the OCR fallback.
	ErrNoText = errors.New("no text found")

	// ErrOCRUnavailable is returned when no recognition backend is present.
	ErrOCRUnavailable = errors.New("OCR backend unavailable")
)

// ElementRenderError records why one element was left out of an annotation
// image.
type ElementRenderError struct {
	Index  int    // position in the input sequence
	Type   string // declared element type, if any
	Reason string
}

func (e *ElementRenderError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("element %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("element %d (%s): %s", e.Index, e.Type, e.Reason)
}
