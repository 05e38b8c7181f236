package text

import (
	"strings"

	"github.com/tsawler/layoutlens/model"
)

// TextFragment represents a piece of extracted text with position.
// X, Y is the bottom-left corner relative to the page's MediaBox origin.
type TextFragment struct {
	Text     string
	X, Y     float64
	Width    float64
	Height   float64
	FontName string
	FontSize float64
}

// BBox returns the fragment's bounding box.
func (f TextFragment) BBox() model.BBox {
	return model.NewBBox(f.X, f.Y, f.Width, f.Height)
}

// Right returns the right edge of the fragment.
func (f TextFragment) Right() float64 {
	return f.X + f.Width
}

// Join assembles fragments that sit on one line, inserting a space where
// the horizontal gap between neighbours is wider than gapRatio times the
// fragment height. Fragments must already be sorted left to right.
func Join(fragments []TextFragment, gapRatio float64) string {
	var sb strings.Builder
	for i, frag := range fragments {
		if i > 0 {
			prev := fragments[i-1]
			gap := frag.X - prev.Right()
			if gap > frag.Height*gapRatio && !strings.HasSuffix(prev.Text, " ") && !strings.HasPrefix(frag.Text, " ") {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(frag.Text)
	}
	return sb.String()
}

// Union returns the box enclosing all fragments.
func Union(fragments []TextFragment) model.BBox {
	if len(fragments) == 0 {
		return model.BBox{}
	}
	box := fragments[0].BBox()
	for _, f := range fragments[1:] {
		box = box.Union(f.BBox())
	}
	return box
}
