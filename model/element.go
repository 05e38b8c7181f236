package model

import "strings"

// ElementType is the classification of an extracted region.
type ElementType string

const (
	ElementTypeTitle     ElementType = "title"
	ElementTypeHeader    ElementType = "header"
	ElementTypeParagraph ElementType = "paragraph"
	ElementTypeTable     ElementType = "table"
	ElementTypeFigure    ElementType = "figure"

	// ElementTypeUnknown is what unrecognized type names fall back to.
	ElementTypeUnknown ElementType = "default"
)

// ParseElementType maps a type name onto the known classification set.
// Matching is case-insensitive; anything else becomes ElementTypeUnknown.
func ParseElementType(s string) ElementType {
	switch t := ElementType(strings.ToLower(strings.TrimSpace(s))); t {
	case ElementTypeTitle, ElementTypeHeader, ElementTypeParagraph, ElementTypeTable, ElementTypeFigure:
		return t
	default:
		return ElementTypeUnknown
	}
}

// Label returns the capitalized type name used in placeholders,
// e.g. "Figure".
func (t ElementType) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsHeading reports whether the type renders as a Markdown heading.
func (t ElementType) IsHeading() bool {
	return t == ElementTypeTitle || t == ElementTypeHeader
}

// Element is a classified content region. Elements are built once during an
// extraction pass and never modified afterwards.
type Element struct {
	Type       ElementType `json:"type" yaml:"type"`
	Text       string      `json:"text" yaml:"text"`
	Page       int         `json:"page" yaml:"page"` // 1-indexed
	BBox       NormBox     `json:"bbox" yaml:"bbox"`
	Confidence float64     `json:"confidence" yaml:"confidence"`
}
