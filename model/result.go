package model

import (
	"math"
	"strings"
	"time"
)

// Metrics summarises an extraction run.
type Metrics struct {
	TimeS         float64 `json:"time_s" yaml:"time_s"`
	ElementsCount int     `json:"elements_count" yaml:"elements_count"`
	WordCount     int     `json:"word_count" yaml:"word_count"`
}

// ExtractionResult is the output of one extraction request.
type ExtractionResult struct {
	MarkdownOutput string    `json:"markdown_output" yaml:"markdown_output"`
	Elements       []Element `json:"elements" yaml:"elements"`
	Metrics        Metrics   `json:"metrics" yaml:"metrics"`
}

// Seconds converts a duration to seconds rounded to milliseconds.
func Seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

// WordCount counts whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
