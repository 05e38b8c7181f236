//go:build !ocr

// Package ocr recognizes positioned words in page images.
//
// Without the "ocr" build tag the package compiles without cgo and every
// call fails with ErrOCRNotEnabled. Build with
//
//	go build -tags ocr
//
// to link Tesseract (brew install tesseract, or apt-get install
// tesseract-ocr libtesseract-dev).
package ocr

// Client stands in for the Tesseract client.
type Client struct{}

// New always fails with ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close does nothing; nil clients are fine.
func (c *Client) Close() error {
	return nil
}

func (c *Client) Words(imageData []byte) ([]WordBox, error) {
	return nil, ErrOCRNotEnabled
}

func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}
