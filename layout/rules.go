package layout

import (
	"unicode/utf8"

	"github.com/tsawler/layoutlens/model"
)

// Features are the inputs the classification rules look at.
type Features struct {
	Text   string
	Length int // in runes
	YMin   int // top edge in the canonical space
}

// NewFeatures computes the features of a text region.
func NewFeatures(s string, box model.NormBox) Features {
	return Features{Text: s, Length: utf8.RuneCountInString(s), YMin: box.YMin()}
}

// Rule assigns Type to any region it matches.
type Rule struct {
	Name  string
	Type  model.ElementType
	Match func(Features) bool
}

// ClassifierConfig holds the positional thresholds used by the default rules.
type ClassifierConfig struct {
	// TitleMaxLength is the exclusive upper bound on title length in runes
	// (default: 60)
	TitleMaxLength int

	// TitleCutoff is the exclusive upper bound on a title's y_min
	// (default: 150)
	TitleCutoff int

	// HeaderCutoff is the exclusive upper bound on a header's y_min
	// (default: 100)
	HeaderCutoff int
}

// DefaultClassifierConfig returns the default thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		TitleMaxLength: 60,
		TitleCutoff:    150,
		HeaderCutoff:   100,
	}
}

// Classifier assigns element types to text regions. Rules are evaluated in
// order and the first match wins.
type Classifier struct {
	config   ClassifierConfig
	rules    []Rule
	fallback model.ElementType
}

// NewClassifier creates a classifier with the default thresholds.
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(DefaultClassifierConfig())
}

// NewClassifierWithConfig creates a classifier with the given thresholds.
//
// The rule list is:
//
//  1. title: short text near the top of the page
//  2. header: any text near the top of the page
//
// and everything else is a paragraph.
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	return &Classifier{
		config: config,
		rules: []Rule{
			{
				Name: "short-near-top",
				Type: model.ElementTypeTitle,
				Match: func(f Features) bool {
					return f.Length < config.TitleMaxLength && f.YMin < config.TitleCutoff
				},
			},
			{
				Name: "near-top",
				Type: model.ElementTypeHeader,
				Match: func(f Features) bool {
					return f.YMin < config.HeaderCutoff
				},
			},
		},
		fallback: model.ElementTypeParagraph,
	}
}

// Config returns the classifier's thresholds.
func (c *Classifier) Config() ClassifierConfig {
	return c.config
}

// Rules returns a copy of the rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify returns the type of the first rule matching the region.
func (c *Classifier) Classify(s string, box model.NormBox) model.ElementType {
	f := NewFeatures(s, box)
	for _, r := range c.rules {
		if r.Match(f) {
			return r.Type
		}
	}
	return c.fallback
}

// IsHeading reports whether a region would be promoted to a title. The OCR
// path uses this for Markdown headings while keeping the element type
// unchanged.
func (c *Classifier) IsHeading(s string, box model.NormBox) bool {
	return c.Classify(s, box) == model.ElementTypeTitle
}
