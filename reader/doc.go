// Package reader provides page-level access to an in-memory PDF document.
//
// It wraps github.com/ledongthuc/pdf and exposes exactly what layout analysis
// needs from each page:
//
//   - page geometry (MediaBox, inherited through the page tree)
//   - positioned glyphs as [text.TextFragment] values
//   - image and form XObject placements found by walking the content stream
//
// # Opening Documents
//
// Documents are always read from a byte slice; the package never touches the
// filesystem:
//
//	r, err := reader.Open(data)
//	if errors.Is(err, model.ErrUnparsablePDF) {
//	    // not a PDF
//	}
//	for i := 1; i <= r.PageCount(); i++ {
//	    page, err := r.Page(i)
//	    ...
//	}
//
// # Coordinates
//
// All boxes are reported relative to the MediaBox origin with the Y axis
// pointing up, so (0, 0) is the bottom-left corner of the visible page.
//
// The underlying parser panics on some malformed input; every entry point
// here recovers and reports an error instead.
package reader
