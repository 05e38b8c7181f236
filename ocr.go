package layoutlens

import (
	"context"
	"fmt"
	"time"

	"github.com/tsawler/layoutlens/coords"
	"github.com/tsawler/layoutlens/layout"
	"github.com/tsawler/layoutlens/markdown"
	"github.com/tsawler/layoutlens/model"
	"github.com/tsawler/layoutlens/ocr"
)

// OCR renders every page and recognizes its words, grouping them into
// paragraph elements by the block and paragraph numbers the engine reports.
// All elements are typed as paragraphs; short text near the top of a page is
// only promoted to a heading in the Markdown output.
//
// It returns model.ErrOCRUnavailable when no engine can be created or it
// rejects the configured language, and model.ErrNoText when nothing was
// recognized.
func (e *Extractor) OCR(ctx context.Context, data []byte) (*model.ExtractionResult, []Warning, error) {
	rec, err := e.options.NewRecognizer()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", model.ErrOCRUnavailable, err)
	}
	defer rec.Close()

	if e.options.Language != "" {
		if err := rec.SetLanguage(e.options.Language); err != nil {
			return nil, nil, fmt.Errorf("%w: setting language %q: %v", model.ErrOCRUnavailable, e.options.Language, err)
		}
	}

	if err := rec.SetPageSegMode(e.options.PageSegMode); err != nil {
		return nil, nil, fmt.Errorf("%w: setting page segmentation mode %d: %v", model.ErrOCRUnavailable, e.options.PageSegMode, err)
	}

	start := time.Now()

	pages, err := e.options.Rasterizer.Rasterize(ctx, data, e.options.DPI)
	if err != nil {
		return nil, nil, fmt.Errorf("rasterizing: %w", err)
	}

	classifier := layout.NewClassifierWithConfig(e.options.Classifier)

	var (
		elements []model.Element
		blocks   []markdown.Block
		warnings []Warning
		words    int
	)

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		boxes, err := rec.Words(page.PNG)
		if err != nil {
			warnings = append(warnings, pageWarning(page.Page, "recognition failed: %v", err))
			continue
		}

		for _, para := range ocr.GroupWords(boxes, e.options.OCRDefaultConfidence) {
			box, err := coords.NormalizeRaster(para.Box, page.Width, page.Height)
			if err != nil {
				warnings = append(warnings, pageWarning(page.Page, "paragraph skipped: %v", err))
				continue
			}

			words += model.WordCount(para.Text)
			elements = append(elements, model.Element{
				Type:       model.ElementTypeParagraph,
				Text:       para.Text,
				Page:       page.Page,
				BBox:       box,
				Confidence: para.Confidence,
			})

			kind := markdown.BlockParagraph
			if classifier.IsHeading(para.Text, box) {
				kind = markdown.BlockTitle
			}
			blocks = append(blocks, markdown.Block{Kind: kind, Text: para.Text})
		}
	}

	timeS := elapsed(start)

	for _, w := range warnings {
		e.options.Logger.Warn("ocr extraction", "page", w.Page, "warning", w.Message)
	}

	if len(elements) == 0 {
		return nil, warnings, model.ErrNoText
	}

	return &model.ExtractionResult{
		MarkdownOutput: markdown.Render(blocks, nil),
		Elements:       elements,
		Metrics: model.Metrics{
			TimeS:         timeS,
			ElementsCount: len(elements),
			WordCount:     words,
		},
	}, warnings, nil
}
