package layoutlens_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/tsawler/layoutlens"
	"github.com/tsawler/layoutlens/canned"
	"github.com/tsawler/layoutlens/mock"
	"github.com/tsawler/layoutlens/model"
	"github.com/tsawler/layoutlens/ocr"
)

func TestDefaultRegistry_Models(t *testing.T) {
	reg := layoutlens.DefaultRegistry(layoutlens.New())

	models := reg.Models()
	want := []string{layoutlens.ModelSurya, layoutlens.ModelDocling, layoutlens.ModelCustomOCR, layoutlens.ModelMock}
	if len(models) != len(want) {
		t.Fatalf("got %d models, want %d", len(models), len(want))
	}
	for i, id := range want {
		if models[i].ID != id {
			t.Errorf("model %d = %q, want %q", i, models[i].ID, id)
		}
		if models[i].Name == "" || models[i].Description == "" {
			t.Errorf("model %q lacks a name or description", id)
		}
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := layoutlens.DefaultRegistry(layoutlens.New())
	_, err := reg.Get("layoutlm")
	if !errors.Is(err, layoutlens.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	info := layoutlens.ModelInfo{ID: "x", Name: "first"}
	reg := layoutlens.NewRegistry(layoutlens.NewCanned(info, func(layoutlens.Document) *model.ExtractionResult { return canned.Surya() }))
	info.Name = "second"
	reg.Register(layoutlens.NewCanned(info, func(layoutlens.Document) *model.ExtractionResult { return canned.Docling() }))

	models := reg.Models()
	if len(models) != 1 || models[0].Name != "second" {
		t.Errorf("models = %+v", models)
	}
}

func TestCannedStrategies(t *testing.T) {
	reg := layoutlens.DefaultRegistry(layoutlens.New())
	doc := layoutlens.Document{Name: "report.pdf", Data: []byte("ignored")}

	tests := []struct {
		id   string
		want *model.ExtractionResult
	}{
		{layoutlens.ModelSurya, canned.Surya()},
		{layoutlens.ModelDocling, canned.Docling()},
		{layoutlens.ModelMock, canned.Mock(layoutlens.ModelMock, "report.pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := reg.Get(tt.id)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			got, err := s.Extract(context.Background(), doc)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got.MarkdownOutput != tt.want.MarkdownOutput || len(got.Elements) != len(tt.want.Elements) {
				t.Errorf("unexpected payload for %s", tt.id)
			}
		})
	}
}

func TestCustomOCR_Pipeline(t *testing.T) {
	s := layoutlens.NewCustomOCR(layoutlens.New())
	result, err := s.Extract(context.Background(), layoutlens.Document{Name: "r.pdf", Data: reportTitlePDF()})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.Elements[0].Text != "Report Title" {
		t.Errorf("Elements = %+v", result.Elements)
	}
}

func TestCustomOCR_FallbackWhenOCRUnavailable(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	ext := layoutlens.NewWithOptions(layoutlens.Options{
		Logger:        logger,
		NewRecognizer: func() (ocr.Recognizer, error) { return nil, ocr.ErrOCRNotEnabled },
	})

	result, err := layoutlens.NewCustomOCR(ext).Extract(context.Background(), layoutlens.Document{Name: "scan.pdf", Data: scannedPDF()})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.MarkdownOutput != canned.Surya().MarkdownOutput {
		t.Errorf("expected the fallback payload, got %q", result.MarkdownOutput)
	}
	if !strings.Contains(logs.String(), "fallback") || !strings.Contains(logs.String(), "file=scan.pdf") {
		t.Errorf("fallback not logged: %s", logs.String())
	}
}

func TestCustomOCR_FallbackWhenLanguageMissing(t *testing.T) {
	rec := &mock.Recognizer{
		WordsFn:       func([]byte) ([]ocr.WordBox, error) { return nil, nil },
		SetLanguageFn: func(string) error { return errors.New("failed loading language") },
	}
	ext := layoutlens.New().
		Language("xyz").
		Recognizer(func() (ocr.Recognizer, error) { return rec, nil })

	result, err := layoutlens.NewCustomOCR(ext).Extract(context.Background(), layoutlens.Document{Name: "scan.pdf", Data: scannedPDF()})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.MarkdownOutput != canned.Surya().MarkdownOutput {
		t.Errorf("expected the fallback payload, got %q", result.MarkdownOutput)
	}
}

func TestCustomOCR_UnparsableIsError(t *testing.T) {
	_, err := layoutlens.NewCustomOCR(layoutlens.New()).Extract(context.Background(), layoutlens.Document{Data: []byte("nope")})
	if !errors.Is(err, model.ErrUnparsablePDF) {
		t.Errorf("expected ErrUnparsablePDF, got %v", err)
	}
}
