package mock

import (
	"github.com/tsawler/layoutlens/ocr"
)

var _ ocr.Recognizer = (*Recognizer)(nil)

// Recognizer is a mock implementation of ocr.Recognizer. A nil
// SetLanguageFn, SetPageSegModeFn or CloseFn succeeds.
type Recognizer struct {
	WordsFn          func(imageData []byte) ([]ocr.WordBox, error)
	SetLanguageFn    func(lang string) error
	SetPageSegModeFn func(mode ocr.PageSegMode) error
	CloseFn          func() error
}

func (r *Recognizer) Words(imageData []byte) ([]ocr.WordBox, error) {
	return r.WordsFn(imageData)
}

func (r *Recognizer) SetLanguage(lang string) error {
	if r.SetLanguageFn == nil {
		return nil
	}
	return r.SetLanguageFn(lang)
}

func (r *Recognizer) SetPageSegMode(mode ocr.PageSegMode) error {
	if r.SetPageSegModeFn == nil {
		return nil
	}
	return r.SetPageSegModeFn(mode)
}

func (r *Recognizer) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}
