// Package text holds the positioned text primitives produced by the PDF
// reader and consumed by layout analysis.
//
// A [TextFragment] is a run of text (often a single glyph) with its box in
// the page's native coordinate space. [Clean] normalizes extracted strings
// before they are classified or counted.
package text
