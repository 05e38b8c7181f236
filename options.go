package layoutlens

import (
	"io"
	"log/slog"

	"github.com/tsawler/layoutlens/layout"
	"github.com/tsawler/layoutlens/ocr"
	"github.com/tsawler/layoutlens/raster"
)

// Default confidence values. Neither is measured: digital text carries no
// uncertainty signal, and the OCR default stands in for words the engine
// reports no confidence for.
const (
	DefaultDigitalConfidence = 0.85
	DefaultOCRConfidence     = ocr.DefaultConfidence
	DefaultLanguage          = "eng"
)

// RecognizerFunc creates a recognizer for one OCR pass. The extractor
// closes it when the pass ends.
type RecognizerFunc func() (ocr.Recognizer, error)

// Options holds the extraction configuration.
type Options struct {
	// DPI is the rasterization resolution for OCR (default: 200)
	DPI int

	// Language is the recognizer language, "+" separated (default: "eng")
	Language string

	// PageSegMode is the recognizer's page segmentation mode (default:
	// ocr.PSM_AUTO)
	PageSegMode ocr.PageSegMode

	// Block controls how glyphs are grouped into text blocks
	Block layout.BlockConfig

	// Classifier holds the title and header thresholds
	Classifier layout.ClassifierConfig

	// DigitalConfidence is assigned to every element read from the text
	// layer (default: 0.85)
	DigitalConfidence float64

	// OCRDefaultConfidence, on a 0-100 scale, is used for paragraphs none
	// of whose words has a confidence (default: 70)
	OCRDefaultConfidence float64

	// Rasterizer renders pages for OCR (default: raster.Embedded)
	Rasterizer raster.Rasterizer

	// NewRecognizer creates the OCR engine (default: Tesseract, when built
	// with the ocr tag)
	NewRecognizer RecognizerFunc

	// Logger receives extraction events (default: discarded)
	Logger *slog.Logger
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{
		DPI:                  raster.DefaultDPI,
		Language:             DefaultLanguage,
		PageSegMode:          ocr.PSM_AUTO,
		Block:                layout.DefaultBlockConfig(),
		Classifier:           layout.DefaultClassifierConfig(),
		DigitalConfidence:    DefaultDigitalConfidence,
		OCRDefaultConfidence: DefaultOCRConfidence,
		Rasterizer:           raster.NewEmbedded(),
		NewRecognizer:        tesseract,
		Logger:               slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// withDefaults fills zero-valued fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DPI <= 0 {
		o.DPI = def.DPI
	}
	if o.Language == "" {
		o.Language = def.Language
	}
	if o.PageSegMode <= 0 {
		o.PageSegMode = def.PageSegMode
	}
	if o.Block == (layout.BlockConfig{}) {
		o.Block = def.Block
	}
	if o.Classifier == (layout.ClassifierConfig{}) {
		o.Classifier = def.Classifier
	}
	if o.DigitalConfidence <= 0 {
		o.DigitalConfidence = def.DigitalConfidence
	}
	if o.OCRDefaultConfidence <= 0 {
		o.OCRDefaultConfidence = def.OCRDefaultConfidence
	}
	if o.Rasterizer == nil {
		o.Rasterizer = def.Rasterizer
	}
	if o.NewRecognizer == nil {
		o.NewRecognizer = def.NewRecognizer
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	return o
}

func tesseract() (ocr.Recognizer, error) {
	c, err := ocr.New()
	if err != nil {
		return nil, err
	}
	return c, nil
}
