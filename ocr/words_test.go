package ocr

import (
	"image"
	"reflect"
	"testing"
)

func word(text string, x0, y0, x1, y1 int, conf float64, block, par int) WordBox {
	return WordBox{
		Text:       text,
		Box:        image.Rect(x0, y0, x1, y1),
		Confidence: conf,
		Block:      block,
		Paragraph:  par,
	}
}

func TestGroupWords(t *testing.T) {
	words := []WordBox{
		word("Hello", 10, 20, 60, 40, 90, 1, 1),
		word("world", 70, 22, 130, 42, 80, 1, 1),
		word("Second", 10, 100, 80, 120, 95.5, 2, 1),
		word("again", 140, 20, 190, 38, 70, 1, 1),
	}

	got := GroupWords(words, DefaultConfidence)
	want := []Paragraph{
		{Text: "Hello world again", Box: image.Rect(10, 20, 190, 42), Confidence: 0.8},
		{Text: "Second", Box: image.Rect(10, 100, 80, 120), Confidence: 0.96},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupWords() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestGroupWords_FirstSeenOrder(t *testing.T) {
	words := []WordBox{
		word("b", 0, 0, 1, 1, 50, 2, 1),
		word("a", 0, 0, 1, 1, 50, 1, 1),
		word("b2", 0, 0, 1, 1, 50, 2, 1),
		word("c", 0, 0, 1, 1, 50, 1, 2),
	}
	got := GroupWords(words, DefaultConfidence)
	texts := make([]string, len(got))
	for i, p := range got {
		texts[i] = p.Text
	}
	want := []string{"b b2", "a", "c"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("order = %v, want %v", texts, want)
	}
}

func TestGroupWords_SkipsEmptyWords(t *testing.T) {
	words := []WordBox{
		word("", 0, 0, 500, 500, 99, 1, 1),
		word("  ", 0, 0, 500, 500, 99, 1, 1),
		word("only", 10, 10, 20, 20, 40, 1, 1),
		word("", 0, 0, 5, 5, 99, 3, 1),
	}
	got := GroupWords(words, DefaultConfidence)
	if len(got) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(got))
	}
	if got[0].Box != image.Rect(10, 10, 20, 20) {
		t.Errorf("empty words leaked into box: %v", got[0].Box)
	}
	if got[0].Confidence != 0.4 {
		t.Errorf("Confidence = %v, want 0.4", got[0].Confidence)
	}
}

func TestGroupWords_Confidence(t *testing.T) {
	tests := []struct {
		name  string
		confs []float64
		def   float64
		want  float64
	}{
		{"mean", []float64{90, 80}, DefaultConfidence, 0.85},
		{"negative ignored", []float64{-1, 60}, DefaultConfidence, 0.6},
		{"all negative uses default", []float64{-1, -1}, DefaultConfidence, 0.7},
		{"custom default", []float64{-1}, 55, 0.55},
		{"rounded to two decimals", []float64{91.234}, DefaultConfidence, 0.91},
		{"rounds up", []float64{91.5}, DefaultConfidence, 0.92},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var words []WordBox
			for _, c := range tt.confs {
				words = append(words, word("w", 0, 0, 1, 1, c, 1, 1))
			}
			got := GroupWords(words, tt.def)
			if len(got) != 1 {
				t.Fatalf("expected 1 paragraph, got %d", len(got))
			}
			if got[0].Confidence != tt.want {
				t.Errorf("Confidence = %v, want %v", got[0].Confidence, tt.want)
			}
		})
	}
}

func TestGroupWords_Idempotent(t *testing.T) {
	words := []WordBox{
		word("x", 5, 5, 9, 9, 80, 1, 1),
		word("y", 1, 7, 3, 12, 70, 1, 1),
		word("z", 50, 50, 60, 60, 60, 1, 2),
	}
	first := GroupWords(words, DefaultConfidence)
	second := GroupWords(words, DefaultConfidence)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("grouping not deterministic:\n%+v\n%+v", first, second)
	}
	if first[0].Box != image.Rect(1, 5, 9, 12) {
		t.Errorf("union box = %v", first[0].Box)
	}
}

func TestGroupWords_Empty(t *testing.T) {
	if got := GroupWords(nil, DefaultConfidence); len(got) != 0 {
		t.Errorf("expected no paragraphs, got %d", len(got))
	}
}
