package reader

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/layoutlens/model"
)

// maxTreeDepth bounds the walk up the page tree for inherited attributes.
const maxTreeDepth = 32

// Reader represents an opened PDF document.
type Reader struct {
	pdf  *pdf.Reader
	size int64
}

// Open parses the document header, cross-reference table and trailer.
// Anything that is not a readable PDF yields model.ErrUnparsablePDF.
func Open(data []byte) (r *Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("%w: %v", model.ErrUnparsablePDF, rec)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", model.ErrUnparsablePDF)
	}

	pr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnparsablePDF, err)
	}

	return &Reader{pdf: pr, size: int64(len(data))}, nil
}

// PageCount returns the number of pages in the document.
func (r *Reader) PageCount() (n int) {
	defer func() {
		if rec := recover(); rec != nil {
			n = 0
		}
	}()
	return r.pdf.NumPage()
}

// Page returns the page with the given 1-indexed number.
func (r *Reader) Page(number int) (page *Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			page = nil
			err = fmt.Errorf("page %d: %v", number, rec)
		}
	}()

	if number < 1 || number > r.PageCount() {
		return nil, fmt.Errorf("page %d out of range (1-%d)", number, r.PageCount())
	}

	p := r.pdf.Page(number)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: missing page object", number)
	}

	mediaBox, err := mediaBox(p.V)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", number, err)
	}

	return &Page{
		Number:   number,
		Width:    mediaBox.Width,
		Height:   mediaBox.Height,
		MediaBox: mediaBox,
		page:     p,
	}, nil
}

// mediaBox finds the page's MediaBox, walking up the page tree when the
// page inherits it from an ancestor.
func mediaBox(v pdf.Value) (model.BBox, error) {
	for depth := 0; depth < maxTreeDepth && !v.IsNull(); depth++ {
		if box := v.Key("MediaBox"); !box.IsNull() {
			return parseRect(box)
		}
		v = v.Key("Parent")
	}
	return model.BBox{}, fmt.Errorf("no MediaBox")
}

func parseRect(v pdf.Value) (model.BBox, error) {
	if v.Kind() != pdf.Array || v.Len() != 4 {
		return model.BBox{}, fmt.Errorf("invalid rectangle %v", v)
	}
	var c [4]float64
	for i := range c {
		item := v.Index(i)
		switch item.Kind() {
		case pdf.Integer, pdf.Real:
			c[i] = item.Float64()
		default:
			return model.BBox{}, fmt.Errorf("invalid rectangle coordinate %v", item)
		}
	}
	return model.NewBBoxFromCorners(c[0], c[1], c[2], c[3]), nil
}
