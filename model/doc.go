// Package model defines the data structures shared by every extraction
// strategy and renderer.
//
// # Elements
//
// An [Element] is one classified region of a page: a title, header,
// paragraph, table or figure. Its [NormBox] lives in the canonical
// coordinate space, a 0..1000 grid with the origin at the top-left corner,
// so boxes from pages of any size can be compared and drawn directly.
//
// An [ExtractionResult] bundles the elements of a document with its Markdown
// rendering and [Metrics].
//
// # Geometry
//
// [BBox] describes a region in a page's native space (bottom-left origin),
// and [Matrix] is the affine transform used while walking content streams.
//
// # Errors
//
// The error taxonomy is a set of sentinels ([ErrInvalidGeometry],
// [ErrUnparsablePDF], [ErrNoText], [ErrOCRUnavailable]) plus
// [ElementRenderError] for annotation failures. Test with errors.Is and
// errors.As.
package model
