// Package format identifies uploaded files so that anything other than a
// PDF can be rejected with a useful message.
package format

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
)

// Format is a recognised file type.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF is the only format the extractors accept.
	PDF
	// DOCX is a Word document.
	DOCX
	// XLSX is an Excel workbook.
	XLSX
	// PPTX is a PowerPoint deck.
	PPTX
	// ODT is an OpenDocument text file.
	ODT
	// HTML is a web page.
	HTML
	// PNG is a PNG image.
	PNG
	// JPEG is a JPEG image.
	JPEG
	// TIFF is a TIFF image, common for scans.
	TIFF
)

var names = map[Format]string{
	PDF:  "PDF",
	DOCX: "DOCX",
	XLSX: "XLSX",
	PPTX: "PPTX",
	ODT:  "ODT",
	HTML: "HTML",
	PNG:  "PNG",
	JPEG: "JPEG",
	TIFF: "TIFF",
}

var extensions = map[string]Format{
	".pdf":  PDF,
	".docx": DOCX,
	".xlsx": XLSX,
	".pptx": PPTX,
	".odt":  ODT,
	".html": HTML,
	".htm":  HTML,
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".tif":  TIFF,
	".tiff": TIFF,
}

// String returns the format name.
func (f Format) String() string {
	if s, ok := names[f]; ok {
		return s
	}
	return "Unknown"
}

// IsImage reports whether f is a raster image format.
func (f Format) IsImage() bool {
	return f == PNG || f == JPEG || f == TIFF
}

// FromExtension maps a filename extension to a format.
func FromExtension(filename string) Format {
	return extensions[strings.ToLower(filepath.Ext(filename))]
}

var (
	pdfMagic  = []byte("%PDF-")
	zipMagic  = []byte("PK\x03\x04")
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	tiffLE    = []byte("II*\x00")
	tiffBE    = []byte("MM\x00*")
)

// FromContent identifies data by its leading bytes, opening ZIP archives
// to tell the office formats apart.
func FromContent(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return PDF
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	case bytes.HasPrefix(data, jpegMagic):
		return JPEG
	case bytes.HasPrefix(data, tiffLE), bytes.HasPrefix(data, tiffBE):
		return TIFF
	case bytes.HasPrefix(data, zipMagic):
		return fromZIP(data)
	case looksLikeHTML(data):
		return HTML
	}
	return Unknown
}

// Detect identifies an upload. Content wins; the extension is used only
// when the content is not recognised.
func Detect(filename string, data []byte) Format {
	if f := FromContent(data); f != Unknown {
		return f
	}
	return FromExtension(filename)
}

func looksLikeHTML(data []byte) bool {
	head := data[:min(len(data), 512)]
	head = bytes.ToLower(bytes.TrimLeft(head, " \t\r\n"))
	if bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html")) {
		return true
	}
	return bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<html"))
}

func fromZIP(data []byte) Format {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		buf := make([]byte, 128)
		n, _ := rc.Read(buf)
		rc.Close()
		if bytes.Contains(buf[:n], []byte("opendocument.text")) {
			return ODT
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX
		}
	}
	return Unknown
}
