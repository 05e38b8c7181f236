// Package annotate draws extracted element boxes onto a blank canvas so a
// result can be checked by eye.
package annotate

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/layoutlens/coords"
	"github.com/tsawler/layoutlens/model"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 1200
	DefaultHeight = 1600
)

// MaxCanvas bounds each canvas side in pixels.
const MaxCanvas = 10000

// ErrCanvasTooLarge is returned by Render when a side exceeds MaxCanvas.
var ErrCanvasTooLarge = errors.New("canvas too large")

// Palette maps element types to outline colours.
type Palette map[model.ElementType]color.RGBA

// DefaultPalette returns the standard colour per element type.
func DefaultPalette() Palette {
	return Palette{
		model.ElementTypeTitle:     {R: 255, G: 0, B: 0, A: 255},
		model.ElementTypeHeader:    {R: 255, G: 128, B: 0, A: 255},
		model.ElementTypeParagraph: {R: 0, G: 128, B: 255, A: 255},
		model.ElementTypeTable:     {R: 0, G: 200, B: 0, A: 255},
		model.ElementTypeFigure:    {R: 128, G: 0, B: 255, A: 255},
		model.ElementTypeUnknown:   {R: 200, G: 200, B: 200, A: 255},
	}
}

// Color returns the colour for t, falling back to the unknown-type colour.
func (p Palette) Color(t model.ElementType) color.RGBA {
	if c, ok := p[t]; ok {
		return c
	}
	if c, ok := p[model.ElementTypeUnknown]; ok {
		return c
	}
	return color.RGBA{R: 200, G: 200, B: 200, A: 255}
}

// Annotation is one element to draw. BBox is expected to hold
// [x_min, y_min, x_max, y_max] in the 0-1000 canonical space; anything else
// is reported and skipped. A zero Page uses the page passed to Render.
type Annotation struct {
	Type string    `json:"type"`
	BBox []float64 `json:"bbox"`
	Page int       `json:"page,omitempty"`

	// invalid is set by Decode for an element that could not be read.
	invalid string
}

// AnnotationFromElement converts an extracted element.
func AnnotationFromElement(el model.Element) Annotation {
	return Annotation{
		Type: string(el.Type),
		BBox: []float64{float64(el.BBox[0]), float64(el.BBox[1]), float64(el.BBox[2]), float64(el.BBox[3])},
		Page: el.Page,
	}
}

// Result is a rendered annotation image.
type Result struct {
	PNG    []byte
	Width  int
	Height int

	// Drawn counts the annotations that made it onto the canvas.
	Drawn int

	// Skipped lists the annotations that could not be drawn.
	Skipped []model.ElementRenderError
}

// Renderer draws annotations. It holds no per-call state and is safe for
// concurrent use.
type Renderer struct {
	palette     Palette
	strokeWidth int
	face        font.Face
}

// NewRenderer creates a renderer using the given palette. A nil palette
// uses DefaultPalette.
func NewRenderer(palette Palette) *Renderer {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Renderer{palette: palette, strokeWidth: 3, face: basicfont.Face7x13}
}

// Render draws every annotation onto a white width x height canvas and
// encodes it as PNG. Non-positive dimensions select the defaults. An
// annotation that cannot be drawn is recorded in Result.Skipped and the
// rest are still drawn. Sides above MaxCanvas fail with ErrCanvasTooLarge.
func (r *Renderer) Render(items []Annotation, page, width, height int) (*Result, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if width > MaxCanvas || height > MaxCanvas {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d px per side", ErrCanvasTooLarge, width, height, MaxCanvas)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	res := &Result{Width: width, Height: height}
	for i, item := range items {
		if err := r.drawOne(canvas, item, page); err != nil {
			res.Skipped = append(res.Skipped, model.ElementRenderError{
				Index:  i,
				Type:   item.Type,
				Reason: err.Error(),
			})
			continue
		}
		res.Drawn++
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	res.PNG = buf.Bytes()
	return res, nil
}

func (r *Renderer) drawOne(canvas *image.RGBA, item Annotation, page int) error {
	if item.invalid != "" {
		return errors.New(item.invalid)
	}
	box, err := normBox(item.BBox)
	if err != nil {
		return err
	}

	size := canvas.Bounds().Size()
	rect := coords.Scale(box, size.X, size.Y)

	typeName := item.Type
	if typeName == "" {
		typeName = string(model.ElementTypeUnknown)
	}
	c := r.palette.Color(model.ParseElementType(typeName))

	r.outline(canvas, rect, c)

	if item.Page > 0 {
		page = item.Page
	}
	r.label(canvas, fmt.Sprintf("%s (p%d)", typeName, page), rect.Min, c)
	return nil
}

// normBox validates a raw bbox and truncates it to integers.
func normBox(raw []float64) (model.NormBox, error) {
	if len(raw) != 4 {
		return model.NormBox{}, fmt.Errorf("bbox has %d values, want 4", len(raw))
	}
	var box model.NormBox
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.NormBox{}, fmt.Errorf("bbox value %d is not finite", i)
		}
		box[i] = int(v)
	}
	if box.XMax() < box.XMin() || box.YMax() < box.YMin() {
		return model.NormBox{}, fmt.Errorf("bbox %v is inverted", box)
	}
	return box, nil
}

// outline strokes rect inwards with the renderer's stroke width. The max
// edges are inclusive.
func (r *Renderer) outline(canvas *image.RGBA, rect image.Rectangle, c color.RGBA) {
	src := image.NewUniform(c)
	for i := 0; i < r.strokeWidth; i++ {
		x0, y0 := rect.Min.X+i, rect.Min.Y+i
		x1, y1 := rect.Max.X-i, rect.Max.Y-i
		if x1 < x0 || y1 < y0 {
			break
		}
		edges := []image.Rectangle{
			image.Rect(x0, y0, x1+1, y0+1), // top
			image.Rect(x0, y1, x1+1, y1+1), // bottom
			image.Rect(x0, y0, x0+1, y1+1), // left
			image.Rect(x1, y0, x1+1, y1+1), // right
		}
		for _, e := range edges {
			draw.Draw(canvas, e.Intersect(canvas.Bounds()), src, image.Point{}, draw.Src)
		}
	}
}

// label writes s on a white patch sitting on top of the box's top-left
// corner. The patch never extends above the canvas.
func (r *Renderer) label(canvas *image.RGBA, s string, at image.Point, c color.RGBA) {
	d := &font.Drawer{Dst: canvas, Src: image.NewUniform(c), Face: r.face}
	textWidth := d.MeasureString(s).Ceil()
	metrics := r.face.Metrics()
	textHeight := metrics.Height.Ceil()

	patch := image.Rect(at.X, max(0, at.Y-textHeight-4), at.X+textWidth+6, at.Y)
	draw.Draw(canvas, patch.Intersect(canvas.Bounds()), image.White, image.Point{}, draw.Src)

	top := max(0, at.Y-textHeight-2)
	d.Dot = fixed.P(at.X+3, top+metrics.Ascent.Ceil())
	d.DrawString(s)
}
