package layoutlens

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsawler/layoutlens/canned"
	"github.com/tsawler/layoutlens/model"
)

// ErrUnknownModel is returned by Registry.Get for an unregistered model ID.
var ErrUnknownModel = errors.New("unknown model")

// Model identifiers of the built-in strategies.
const (
	ModelSurya     = "surya"
	ModelDocling   = "docling"
	ModelCustomOCR = "custom-ocr"
	ModelMock      = "mock"
)

// Document is an uploaded file.
type Document struct {
	Name string
	Data []byte
}

// ModelInfo describes a strategy for model listings.
type ModelInfo struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Strategy is one way of turning a document into an ExtractionResult.
type Strategy interface {
	Info() ModelInfo
	Extract(ctx context.Context, doc Document) (*model.ExtractionResult, error)
}

// Registry maps model IDs to strategies. It is not safe to Register
// concurrently with lookups; build it once at startup.
type Registry struct {
	order []string
	byID  map[string]Strategy
}

// NewRegistry creates a registry holding the given strategies.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{byID: make(map[string]Strategy)}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// DefaultRegistry registers the built-in strategies, with custom-ocr backed
// by ext.
func DefaultRegistry(ext *Extractor) *Registry {
	return NewRegistry(
		NewCanned(ModelInfo{ID: ModelSurya, Name: "Surya", Description: "Advanced layout and OCR using deep learning models."},
			func(Document) *model.ExtractionResult { return canned.Surya() }),
		NewCanned(ModelInfo{ID: ModelDocling, Name: "Docling", Description: "Structural extraction (fast, digital PDF focused)."},
			func(Document) *model.ExtractionResult { return canned.Docling() }),
		NewCustomOCR(ext),
		NewCanned(ModelInfo{ID: ModelMock, Name: "Mock", Description: "Deterministic result for local development."},
			func(doc Document) *model.ExtractionResult { return canned.Mock(ModelMock, doc.Name) }),
	)
}

// Register adds s, replacing any strategy with the same ID.
func (r *Registry) Register(s Strategy) {
	id := s.Info().ID
	if _, exists := r.byID[id]; !exists {
		r.order = append(r.order, id)
	}
	r.byID[id] = s
}

// Get returns the strategy registered under id.
func (r *Registry) Get(id string) (Strategy, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return s, nil
}

// Models lists the registered strategies in registration order.
func (r *Registry) Models() []ModelInfo {
	out := make([]ModelInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Info())
	}
	return out
}

// Canned is a strategy returning a fixed result regardless of input.
type Canned struct {
	info    ModelInfo
	payload func(Document) *model.ExtractionResult
}

// NewCanned creates a fixed-result strategy.
func NewCanned(info ModelInfo, payload func(Document) *model.ExtractionResult) *Canned {
	return &Canned{info: info, payload: payload}
}

// Info implements Strategy.
func (c *Canned) Info() ModelInfo { return c.info }

// Extract implements Strategy.
func (c *Canned) Extract(_ context.Context, doc Document) (*model.ExtractionResult, error) {
	return c.payload(doc), nil
}

// CustomOCR runs the extraction pipeline. When the document yields nothing,
// either because it has no text layer and OCR is unavailable or because
// recognition found no words, it answers with the fallback result instead
// of an error.
type CustomOCR struct {
	extractor *Extractor
	fallback  func() *model.ExtractionResult
}

// NewCustomOCR creates the pipeline strategy, falling back to the Surya
// payload.
func NewCustomOCR(ext *Extractor) *CustomOCR {
	return &CustomOCR{extractor: ext, fallback: canned.Surya}
}

// Info implements Strategy.
func (c *CustomOCR) Info() ModelInfo {
	return ModelInfo{ID: ModelCustomOCR, Name: "Custom OCR", Description: "Text layer extraction with Tesseract OCR fallback."}
}

// Extract implements Strategy.
func (c *CustomOCR) Extract(ctx context.Context, doc Document) (*model.ExtractionResult, error) {
	logger := c.extractor.options.Logger

	result, warnings, err := c.extractor.Extract(ctx, doc.Data)
	if len(warnings) > 0 {
		logger.Warn("extraction warnings", "file", doc.Name, "warnings", FormatWarnings(warnings))
	}
	if errors.Is(err, model.ErrOCRUnavailable) || errors.Is(err, model.ErrNoText) {
		logger.Warn("no content extracted, returning fallback result", "file", doc.Name, "err", err)
		return c.fallback(), nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
