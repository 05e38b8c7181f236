package ocr

import (
	"errors"
	"image"
	"math"
	"strings"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultConfidence is used for a paragraph when none of its words carries a
// non-negative confidence. Scale is 0-100, as reported by the engine.
const DefaultConfidence = 70.0

// PageSegMode is a Tesseract page segmentation mode. Only the modes that
// analyse a whole page are listed; the values are Tesseract's own.
type PageSegMode int

const (
	PSM_AUTO_OSD        PageSegMode = 1  // layout analysis plus orientation detection
	PSM_AUTO            PageSegMode = 3  // layout analysis, the default
	PSM_SINGLE_COLUMN   PageSegMode = 4  // one column of text of varying sizes
	PSM_SINGLE_BLOCK    PageSegMode = 6  // one uniform block
	PSM_SPARSE_TEXT     PageSegMode = 11 // scattered text in no particular order
	PSM_SPARSE_TEXT_OSD PageSegMode = 12
)

// Recognizer turns a page image into positioned words. *Client implements it.
type Recognizer interface {
	Words(imageData []byte) ([]WordBox, error)
	SetLanguage(lang string) error
	SetPageSegMode(mode PageSegMode) error
	Close() error
}

// WordBox is a single recognized word.
type WordBox struct {
	Text string
	// Box is in image pixels with a top-left origin.
	Box image.Rectangle
	// Confidence is 0-100; negative means the engine did not report one.
	Confidence float64
	Block      int
	Paragraph  int
}

// Paragraph is a run of words that share a block and paragraph number.
type Paragraph struct {
	Text string
	Box  image.Rectangle
	// Confidence is 0-1, rounded to two decimals.
	Confidence float64
}

type paragraphKey struct {
	block, paragraph int
}

// GroupWords collects words into paragraphs keyed by (block, paragraph),
// in the order each key is first seen. Words with blank text are dropped.
// defaultConfidence (0-100) is used when no word in a paragraph has a
// non-negative confidence.
func GroupWords(words []WordBox, defaultConfidence float64) []Paragraph {
	type group struct {
		words []string
		box   image.Rectangle
		sum   float64
		n     int
	}

	var order []paragraphKey
	groups := make(map[paragraphKey]*group)

	for _, w := range words {
		txt := strings.TrimSpace(w.Text)
		if txt == "" {
			continue
		}
		key := paragraphKey{w.Block, w.Paragraph}
		g, ok := groups[key]
		if !ok {
			g = &group{box: w.Box}
			groups[key] = g
			order = append(order, key)
		} else {
			g.box = g.box.Union(w.Box)
		}
		g.words = append(g.words, txt)
		if w.Confidence >= 0 {
			g.sum += w.Confidence
			g.n++
		}
	}

	paragraphs := make([]Paragraph, 0, len(order))
	for _, key := range order {
		g := groups[key]
		conf := defaultConfidence
		if g.n > 0 {
			conf = g.sum / float64(g.n)
		}
		paragraphs = append(paragraphs, Paragraph{
			Text:       strings.Join(g.words, " "),
			Box:        g.box,
			Confidence: math.Round(conf) / 100,
		})
	}
	return paragraphs
}
