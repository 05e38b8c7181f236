package reader

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/layoutlens/model"
	"github.com/tsawler/layoutlens/text"
)

// Page is a single page of an opened document.
type Page struct {
	Number   int // 1-indexed
	Width    float64
	Height   float64
	MediaBox model.BBox

	page pdf.Page
}

// Fragments returns the page's glyphs in content-stream order. Each glyph
// box spans from the baseline to one font size above it.
func (p *Page) Fragments() (frags []text.TextFragment, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			frags = nil
			err = fmt.Errorf("page %d: reading text: %v", p.Number, rec)
		}
	}()

	content := p.page.Content()
	frags = make([]text.TextFragment, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		frags = append(frags, text.TextFragment{
			Text:     t.S,
			X:        t.X - p.MediaBox.X,
			Y:        t.Y - p.MediaBox.Y,
			Width:    t.W,
			Height:   t.FontSize,
			FontName: t.Font,
			FontSize: t.FontSize,
		})
	}
	return frags, nil
}

// XObjectKind distinguishes painted images from form XObjects.
type XObjectKind int

const (
	XObjectImage XObjectKind = iota
	XObjectForm
)

func (k XObjectKind) String() string {
	if k == XObjectForm {
		return "Form"
	}
	return "Image"
}

// Placement is an XObject painted on the page.
type Placement struct {
	Name string // resource name, e.g. "Im1"
	Kind XObjectKind
	BBox model.BBox

	// Tags holds the marked-content tags (e.g. "Figure", "Table") that
	// enclose the paint operator, outermost first.
	Tags []string
}

// HasTag reports whether the placement sits inside marked content with the
// given tag.
func (pl Placement) HasTag(tag string) bool {
	for _, t := range pl.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Placements walks the page's content stream and reports every image and
// form XObject painted on it, in paint order.
func (p *Page) Placements() (out []Placement, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("page %d: walking content: %v", p.Number, rec)
		}
	}()

	xobjects := p.page.Resources().Key("XObject")

	ctm := model.Identity()
	var stack []model.Matrix
	var tags []string

	pdf.Interpret(p.page.V.Key("Contents"), func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "q":
			stack = append(stack, ctm)
		case "Q":
			if len(stack) > 0 {
				ctm = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
		case "cm":
			if len(args) != 6 {
				return
			}
			var m model.Matrix
			for i := range m {
				m[i] = args[i].Float64()
			}
			ctm = m.Multiply(ctm)
		case "BMC", "BDC":
			if len(args) > 0 {
				tags = append(tags, args[0].Name())
			}
		case "EMC":
			if len(tags) > 0 {
				tags = tags[:len(tags)-1]
			}
		case "Do":
			if len(args) != 1 {
				return
			}
			name := args[0].Name()
			if pl, ok := p.placement(xobjects.Key(name), name, ctm, tags); ok {
				out = append(out, pl)
			}
		}
	})

	return out, nil
}

func (p *Page) placement(xobj pdf.Value, name string, ctm model.Matrix, tags []string) (Placement, bool) {
	if xobj.IsNull() {
		return Placement{}, false
	}

	pl := Placement{Name: name, Tags: append([]string(nil), tags...)}
	switch xobj.Key("Subtype").Name() {
	case "Image":
		pl.Kind = XObjectImage
		pl.BBox = ctm.UnitSquare()
	case "Form":
		pl.Kind = XObjectForm
		bbox, err := parseRect(xobj.Key("BBox"))
		if err != nil {
			return Placement{}, false
		}
		m := model.Identity()
		if mv := xobj.Key("Matrix"); mv.Kind() == pdf.Array && mv.Len() == 6 {
			for i := range m {
				m[i] = mv.Index(i).Float64()
			}
		}
		// form space -> user space -> page
		full := m.Multiply(ctm)
		corners := model.Matrix{bbox.Width, 0, 0, bbox.Height, bbox.X, bbox.Y}
		pl.BBox = corners.Multiply(full).UnitSquare()
	default:
		return Placement{}, false
	}

	pl.BBox.X -= p.MediaBox.X
	pl.BBox.Y -= p.MediaBox.Y
	return pl, true
}
