// Package testutil builds small in-memory PDF documents for tests.
package testutil

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// GlyphWidth is the advance width, in thousandths of the font size, given to
// every character of the test font.
const GlyphWidth = 750

// Text is a single line of text drawn at baseline (X, Y) with the given
// font size.
type Text struct {
	X, Y, Size float64
	S          string
}

// Image is a grayscale image XObject painted into the rectangle
// (X, Y, Width, Height). When Tag is set the image is wrapped in a marked
// content sequence with that tag (e.g. "Table").
type Image struct {
	Name                string
	X, Y, Width, Height float64
	Pixels              [][]byte // rows of 8-bit gray values
	Tag                 string
}

// Page describes one page of a test document.
type Page struct {
	Width, Height float64
	Texts         []Text
	Images        []Image
}

// BuildPDF returns a complete PDF with a valid cross-reference table.
func BuildPDF(pages ...Page) []byte {
	b := &builder{}
	b.buf.WriteString("%PDF-1.4\n")

	// 1: catalog, 2: pages, 3: font. Page objects follow.
	nextID := 4
	type pageIDs struct {
		page, content int
		images        []int
	}
	ids := make([]pageIDs, len(pages))
	for i, p := range pages {
		ids[i].page = nextID
		ids[i].content = nextID + 1
		nextID += 2
		for range p.Images {
			ids[i].images = append(ids[i].images, nextID)
			nextID++
		}
	}

	b.object(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", ids[i].page)
	}
	b.object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))

	widths := make([]string, 126-32+1)
	for i := range widths {
		widths[i] = fmt.Sprint(GlyphWidth)
	}
	b.object(3, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.Join(widths, " ")))

	for i, p := range pages {
		var xobjects []string
		for j, img := range p.Images {
			xobjects = append(xobjects, fmt.Sprintf("/%s %d 0 R", img.Name, ids[i].images[j]))
		}
		resources := "<< /Font << /F1 3 0 R >>"
		if len(xobjects) > 0 {
			resources += " /XObject << " + strings.Join(xobjects, " ") + " >>"
		}
		resources += " >>"

		b.object(ids[i].page, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] /Resources %s /Contents %d 0 R >>",
			num(p.Width), num(p.Height), resources, ids[i].content))
		b.stream(ids[i].content, "", []byte(content(p)))

		for j, img := range p.Images {
			var data []byte
			for _, row := range img.Pixels {
				data = append(data, row...)
			}
			w, h := 0, len(img.Pixels)
			if h > 0 {
				w = len(img.Pixels[0])
			}
			dict := fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8", w, h)
			b.stream(ids[i].images[j], dict, data)
		}
	}

	return b.finish(nextID)
}

func content(p Page) string {
	var sb strings.Builder
	for _, t := range p.Texts {
		fmt.Fprintf(&sb, "BT /F1 %s Tf %s %s Td (%s) Tj ET\n", num(t.Size), num(t.X), num(t.Y), escape(t.S))
	}
	for _, img := range p.Images {
		if img.Tag != "" {
			fmt.Fprintf(&sb, "/%s << /MCID 0 >> BDC\n", img.Tag)
		}
		fmt.Fprintf(&sb, "q %s 0 0 %s %s %s cm /%s Do Q\n", num(img.Width), num(img.Height), num(img.X), num(img.Y), img.Name)
		if img.Tag != "" {
			sb.WriteString("EMC\n")
		}
	}
	return sb.String()
}

type builder struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func (b *builder) object(id int, body string) {
	b.mark(id)
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", id, body)
}

func (b *builder) stream(id int, dict string, data []byte) {
	b.mark(id)
	fmt.Fprintf(&b.buf, "%d 0 obj\n<< %s /Length %d >>\nstream\n", id, dict, len(data))
	b.buf.Write(data)
	b.buf.WriteString("\nendstream\nendobj\n")
}

func (b *builder) mark(id int) {
	if b.offsets == nil {
		b.offsets = make(map[int]int)
	}
	b.offsets[id] = b.buf.Len()
}

func (b *builder) finish(size int) []byte {
	xref := b.buf.Len()
	fmt.Fprintf(&b.buf, "xref\n0 %d\n", size)
	b.buf.WriteString("0000000000 65535 f \n")
	for id := 1; id < size; id++ {
		fmt.Fprintf(&b.buf, "%010d 00000 n \n", b.offsets[id])
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xref)
	return b.buf.Bytes()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
