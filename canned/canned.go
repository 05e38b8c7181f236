// Package canned holds the fixed results returned by the stand-in model
// strategies. Every call returns a fresh copy, so callers may modify what
// they receive.
package canned

import (
	"fmt"

	"github.com/tsawler/layoutlens/model"
)

// Surya returns the fixed deep-layout result. It is also the fallback when
// the OCR pipeline cannot produce anything.
func Surya() *model.ExtractionResult {
	elements := []model.Element{
		{Type: model.ElementTypeTitle, Text: "Surya Output", Page: 1, BBox: model.NormBox{50, 50, 950, 100}, Confidence: 0.98},
		{Type: model.ElementTypeParagraph, Text: "This is the core content extracted.", Page: 1, BBox: model.NormBox{50, 120, 950, 200}, Confidence: 0.95},
		{Type: model.ElementTypeTable, Text: "| Col A | Col B |\n|---|---|\n| Data 1 | Data 2 |", Page: 1, BBox: model.NormBox{100, 300, 800, 500}, Confidence: 0.90},
	}
	return &model.ExtractionResult{
		MarkdownOutput: "# Extracted by Surya: Advanced Layout\n\n" +
			"This output simulates the highly structured, deep-learning based extraction of Surya, " +
			"which uses layout models to identify complex structures.\n\n" +
			"* Detected List Item 1\n* Detected List Item 2",
		Elements: elements,
		Metrics:  model.Metrics{TimeS: 6.5, ElementsCount: len(elements), WordCount: 450},
	}
}

// Docling returns the fixed structural-extraction result.
func Docling() *model.ExtractionResult {
	elements := []model.Element{
		{Type: model.ElementTypeHeader, Text: "Structural Output", Page: 1, BBox: model.NormBox{100, 150, 900, 180}, Confidence: 0.90},
		{Type: model.ElementTypeParagraph, Text: "Fast extraction result.", Page: 1, BBox: model.NormBox{100, 200, 900, 300}, Confidence: 0.88},
	}
	return &model.ExtractionResult{
		MarkdownOutput: "## Docling Structural Extraction\n\n" +
			"This pipeline uses digital PDF metadata for fast structural extraction. " +
			"It excels at clean, structural Markdown output from born-digital documents.\n\n" +
			"| Feature | Status |\n|---|---|\n| Tables | Clean |\n| Headers | Fast |",
		Elements: elements,
		Metrics:  model.Metrics{TimeS: 2.5, ElementsCount: len(elements), WordCount: 300},
	}
}

// Mock returns the development result, naming the requested model and the
// uploaded file in its Markdown.
func Mock(modelID, filename string) *model.ExtractionResult {
	elements := []model.Element{
		{Type: model.ElementTypeTitle, Text: "Mock Title", Page: 1, BBox: model.NormBox{50, 50, 950, 120}, Confidence: 0.99},
		{Type: model.ElementTypeParagraph, Text: "This is mock paragraph text.", Page: 1, BBox: model.NormBox{50, 130, 950, 300}, Confidence: 0.9},
	}
	return &model.ExtractionResult{
		MarkdownOutput: fmt.Sprintf("# Mock extraction for %s\n\nFile name: %s\n\nThis is a lightweight local extraction result.",
			modelID, filename),
		Elements: elements,
		Metrics:  model.Metrics{TimeS: 0.01, ElementsCount: len(elements), WordCount: 20},
	}
}
