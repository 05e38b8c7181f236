package canned

import (
	"testing"

	"github.com/tsawler/layoutlens/model"
)

func TestPayloads(t *testing.T) {
	tests := []struct {
		name     string
		result   *model.ExtractionResult
		count    int
		words    int
		firstTyp model.ElementType
	}{
		{"surya", Surya(), 3, 450, model.ElementTypeTitle},
		{"docling", Docling(), 2, 300, model.ElementTypeHeader},
		{"mock", Mock("surya", "a.pdf"), 2, 20, model.ElementTypeTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.result.Elements) != tt.count {
				t.Fatalf("got %d elements, want %d", len(tt.result.Elements), tt.count)
			}
			if tt.result.Metrics.ElementsCount != tt.count {
				t.Errorf("ElementsCount = %d, want %d", tt.result.Metrics.ElementsCount, tt.count)
			}
			if tt.result.Metrics.WordCount != tt.words {
				t.Errorf("WordCount = %d, want %d", tt.result.Metrics.WordCount, tt.words)
			}
			if tt.result.Elements[0].Type != tt.firstTyp {
				t.Errorf("first element type = %q, want %q", tt.result.Elements[0].Type, tt.firstTyp)
			}
			for i, el := range tt.result.Elements {
				if el.Text == "" {
					t.Errorf("element %d has empty text", i)
				}
				if !el.BBox.Valid() {
					t.Errorf("element %d has invalid bbox %v", i, el.BBox)
				}
			}
		})
	}
}

func TestFreshCopies(t *testing.T) {
	a := Surya()
	a.Elements[0].Text = "changed"
	if b := Surya(); b.Elements[0].Text != "Surya Output" {
		t.Errorf("payload shared between calls: %q", b.Elements[0].Text)
	}
}

func TestMockMarkdown(t *testing.T) {
	want := "# Mock extraction for docling\n\nFile name: report.pdf\n\nThis is a lightweight local extraction result."
	if got := Mock("docling", "report.pdf").MarkdownOutput; got != want {
		t.Errorf("MarkdownOutput = %q, want %q", got, want)
	}
}
