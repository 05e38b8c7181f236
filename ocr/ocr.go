//go:build ocr

// Package ocr recognizes positioned words in page images through the
// Tesseract engine (gosseract). The system needs libtesseract and the
// language data for every language requested with SetLanguage.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client owns one Tesseract engine. It is not safe for concurrent use.
type Client struct {
	client *gosseract.Client
}

// New creates a Tesseract client in automatic page segmentation mode,
// which is what produces block and paragraph numbers for a full page.
// Close it to release the engine.
func New() (*Client, error) {
	c := &Client{client: gosseract.NewClient()}
	if err := c.SetPageSegMode(PSM_AUTO); err != nil {
		c.Close()
		return nil, fmt.Errorf("setting page segmentation: %w", err)
	}
	return c, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Words recognizes the image and returns one box per word, in the engine's
// reading order, with block and paragraph numbers attached.
func (c *Client) Words(imageData []byte) ([]WordBox, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]WordBox, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, WordBox{
			Text:       b.Word,
			Box:        b.Box,
			Confidence: b.Confidence,
			Block:      b.BlockNum,
			Paragraph:  b.ParNum,
		})
	}
	return words, nil
}

// SetLanguage takes Tesseract language codes joined with "+", as in "eng+deu".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(strings.Split(lang, "+")...)
}

// SetPageSegMode chooses how the engine splits the page into blocks.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}
