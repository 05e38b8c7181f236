// Package layout turns the positioned glyphs and XObject placements of a
// page into a layout tree of text blocks and figure regions, and classifies
// text blocks into element types.
//
// # Blocks
//
// The [BlockDetector] groups fragments into lines by baseline and lines into
// blocks by vertical gap and horizontal overlap:
//
//	detector := layout.NewBlockDetector()
//	blocks := detector.Detect(fragments)
//
// # Layout Tree
//
// [Build] merges blocks and [Figure] regions into a flat list of [Node]
// values in reading order (top to bottom, then left to right).
//
// # Classification
//
// A [Classifier] evaluates an ordered list of [Rule] values against a
// block's text and canonical box. The first matching rule decides the
// element type; when none match the block is a paragraph. All thresholds are
// in [ClassifierConfig].
package layout
