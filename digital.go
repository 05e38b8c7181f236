package layoutlens

import (
	"fmt"
	"time"

	"github.com/tsawler/layoutlens/coords"
	"github.com/tsawler/layoutlens/layout"
	"github.com/tsawler/layoutlens/markdown"
	"github.com/tsawler/layoutlens/model"
	"github.com/tsawler/layoutlens/reader"
	"github.com/tsawler/layoutlens/text"
)

// tableTag is the structure tag marking a tabular region.
const tableTag = "Table"

// Digital extracts elements from the document's text layer. Text blocks are
// classified as title, header or paragraph; painted images and forms become
// figure elements, or table elements when tagged as a table.
//
// It returns model.ErrUnparsablePDF when the bytes are not a PDF and
// model.ErrNoText when the document parsed but holds no text, which is the
// signal to try OCR. A scanned document made only of page images falls in
// the second case even though its images would yield figure elements.
func (e *Extractor) Digital(data []byte) (*model.ExtractionResult, []Warning, error) {
	start := time.Now()

	doc, err := reader.Open(data)
	if err != nil {
		return nil, nil, err
	}

	detector := layout.NewBlockDetectorWithConfig(e.options.Block)
	classifier := layout.NewClassifierWithConfig(e.options.Classifier)

	var (
		elements []model.Element
		warnings []Warning
		words    int
		texts    int
	)

	for n := 1; n <= doc.PageCount(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			warnings = append(warnings, pageWarning(n, "skipped: %v", err))
			continue
		}

		nodes, pageWarnings := e.pageLayout(page, detector)
		warnings = append(warnings, pageWarnings...)

		for _, node := range nodes {
			box, err := coords.Normalize(node.BBox, page.Width, page.Height)
			if err != nil {
				warnings = append(warnings, pageWarning(n, "region skipped: %v", err))
				continue
			}

			if node.Kind == layout.NodeFigure {
				typ := model.ElementTypeFigure
				if node.Tabular {
					typ = model.ElementTypeTable
				}
				elements = append(elements, model.Element{
					Type:       typ,
					Text:       fmt.Sprintf("[%s on Page %d]", typ.Label(), n),
					Page:       n,
					BBox:       box,
					Confidence: e.options.DigitalConfidence,
				})
				continue
			}

			s := text.Clean(node.Text)
			if s == "" {
				continue
			}
			words += model.WordCount(s)
			texts++
			elements = append(elements, model.Element{
				Type:       classifier.Classify(s, box),
				Text:       s,
				Page:       n,
				BBox:       box,
				Confidence: e.options.DigitalConfidence,
			})
		}
	}

	for _, w := range warnings {
		e.options.Logger.Warn("digital extraction", "page", w.Page, "warning", w.Message)
	}

	if texts == 0 {
		return nil, warnings, model.ErrNoText
	}

	return &model.ExtractionResult{
		MarkdownOutput: markdown.Render(markdown.BlocksFromElements(elements), nil),
		Elements:       elements,
		Metrics: model.Metrics{
			TimeS:         elapsed(start),
			ElementsCount: len(elements),
			WordCount:     words,
		},
	}, warnings, nil
}

// pageLayout builds the layout tree of one page. A failure to read either
// the text or the image placements is reported and the other half is still
// used.
func (e *Extractor) pageLayout(page *reader.Page, detector *layout.BlockDetector) ([]layout.Node, []Warning) {
	var warnings []Warning

	fragments, err := page.Fragments()
	if err != nil {
		warnings = append(warnings, pageWarning(page.Number, "text skipped: %v", err))
	}

	placements, err := page.Placements()
	if err != nil {
		warnings = append(warnings, pageWarning(page.Number, "images skipped: %v", err))
	}

	figures := make([]layout.Figure, 0, len(placements))
	for _, pl := range placements {
		if pl.BBox.IsEmpty() {
			continue
		}
		figures = append(figures, layout.Figure{BBox: pl.BBox, Tabular: pl.HasTag(tableTag)})
	}

	return layout.Build(detector, fragments, figures), warnings
}
