package layoutlens_test

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/tsawler/layoutlens"
	"github.com/tsawler/layoutlens/internal/testutil"
	"github.com/tsawler/layoutlens/mock"
	"github.com/tsawler/layoutlens/model"
	"github.com/tsawler/layoutlens/ocr"
	"github.com/tsawler/layoutlens/raster"
)

// reportTitlePDF is a single 612x792 page with "Report Title" spanning
// (50, 700)-(500, 750).
func reportTitlePDF() []byte {
	return testutil.BuildPDF(testutil.Page{
		Width:  612,
		Height: 792,
		Texts:  []testutil.Text{{X: 50, Y: 700, Size: 50, S: "Report Title"}},
	})
}

func grayPixels(w, h int) [][]byte {
	rows := make([][]byte, h)
	for i := range rows {
		rows[i] = make([]byte, w)
	}
	return rows
}

// scannedPDF has a single page holding nothing but an image.
func scannedPDF() []byte {
	return testutil.BuildPDF(testutil.Page{
		Width:  612,
		Height: 792,
		Images: []testutil.Image{{Name: "Im1", X: 0, Y: 0, Width: 612, Height: 792, Pixels: grayPixels(4, 4)}},
	})
}

// fakeOCR returns an extractor whose OCR pass sees one 1000x2000 page with
// the given words.
func fakeOCR(words []ocr.WordBox) *layoutlens.Extractor {
	rast := &mock.Rasterizer{
		RasterizeFn: func(ctx context.Context, data []byte, dpi int) ([]raster.PageImage, error) {
			return []raster.PageImage{{Page: 1, Width: 1000, Height: 2000, PNG: []byte("png")}}, nil
		},
	}
	rec := &mock.Recognizer{
		WordsFn: func(imageData []byte) ([]ocr.WordBox, error) { return words, nil },
	}
	return layoutlens.New().
		Rasterizer(rast).
		Recognizer(func() (ocr.Recognizer, error) { return rec, nil })
}

func unavailableOCR() *layoutlens.Extractor {
	return layoutlens.New().Recognizer(func() (ocr.Recognizer, error) {
		return nil, ocr.ErrOCRNotEnabled
	})
}

func assertNoEmptyText(t *testing.T, result *model.ExtractionResult) {
	t.Helper()
	for i, el := range result.Elements {
		if strings.TrimSpace(el.Text) == "" {
			t.Errorf("element %d has empty text", i)
		}
		if !el.BBox.Valid() {
			t.Errorf("element %d has bbox %v outside the canonical space", i, el.BBox)
		}
	}
}

// ===== Digital Extraction Tests =====

func TestDigital_ReportTitle(t *testing.T) {
	result, warnings, err := layoutlens.New().Digital(reportTitlePDF())
	if err != nil {
		t.Fatalf("Digital: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", layoutlens.FormatWarnings(warnings))
	}
	if len(result.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(result.Elements))
	}

	el := result.Elements[0]
	if el.Type != model.ElementTypeTitle {
		t.Errorf("Type = %q, want title", el.Type)
	}
	if el.Text != "Report Title" {
		t.Errorf("Text = %q", el.Text)
	}
	if el.Page != 1 {
		t.Errorf("Page = %d", el.Page)
	}
	if want := (model.NormBox{81, 53, 816, 116}); el.BBox != want {
		t.Errorf("BBox = %v, want %v", el.BBox, want)
	}
	if el.Confidence != layoutlens.DefaultDigitalConfidence {
		t.Errorf("Confidence = %v", el.Confidence)
	}

	if result.MarkdownOutput != "# Report Title\n" {
		t.Errorf("MarkdownOutput = %q", result.MarkdownOutput)
	}
	if result.Metrics.ElementsCount != 1 || result.Metrics.WordCount != 2 {
		t.Errorf("Metrics = %+v", result.Metrics)
	}
	if result.Metrics.TimeS < 0 {
		t.Errorf("TimeS = %v", result.Metrics.TimeS)
	}
}

func TestDigital_Classification(t *testing.T) {
	long := strings.Repeat("abcdefghi ", 7)
	data := testutil.BuildPDF(testutil.Page{
		Width:  612,
		Height: 792,
		Texts: []testutil.Text{
			{X: 20, Y: 760, Size: 8, S: long},
			{X: 20, Y: 300, Size: 10, S: "Body text in the middle of the page"},
		},
	})

	result, _, err := layoutlens.New().Digital(data)
	if err != nil {
		t.Fatalf("Digital: %v", err)
	}
	if len(result.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(result.Elements))
	}
	if result.Elements[0].Type != model.ElementTypeHeader {
		t.Errorf("long text near top = %q, want header", result.Elements[0].Type)
	}
	if result.Elements[1].Type != model.ElementTypeParagraph {
		t.Errorf("mid-page text = %q, want paragraph", result.Elements[1].Type)
	}
	if !strings.HasPrefix(result.MarkdownOutput, "## abcdefghi") {
		t.Errorf("MarkdownOutput = %q", result.MarkdownOutput)
	}
	assertNoEmptyText(t, result)
}

func TestDigital_FiguresAndTables(t *testing.T) {
	data := testutil.BuildPDF(testutil.Page{
		Width:  612,
		Height: 792,
		Texts:  []testutil.Text{{X: 50, Y: 700, Size: 50, S: "Report Title"}},
		Images: []testutil.Image{
			{Name: "Im1", X: 100, Y: 300, Width: 200, Height: 100, Pixels: grayPixels(2, 2)},
			{Name: "Im2", X: 100, Y: 100, Width: 200, Height: 100, Pixels: grayPixels(2, 2), Tag: "Table"},
		},
	})

	result, _, err := layoutlens.New().Digital(data)
	if err != nil {
		t.Fatalf("Digital: %v", err)
	}

	want := []struct {
		typ  model.ElementType
		text string
	}{
		{model.ElementTypeTitle, "Report Title"},
		{model.ElementTypeFigure, "[Figure on Page 1]"},
		{model.ElementTypeTable, "[Table on Page 1]"},
	}
	if len(result.Elements) != len(want) {
		t.Fatalf("got %d elements, want %d", len(result.Elements), len(want))
	}
	for i, w := range want {
		if result.Elements[i].Type != w.typ || result.Elements[i].Text != w.text {
			t.Errorf("element %d = %q %q, want %q %q", i, result.Elements[i].Type, result.Elements[i].Text, w.typ, w.text)
		}
	}

	if want := "# Report Title\n\n![Figure 1]()\n\n![Table 1]()\n"; result.MarkdownOutput != want {
		t.Errorf("MarkdownOutput = %q, want %q", result.MarkdownOutput, want)
	}
	// figures do not count words
	if result.Metrics.WordCount != 2 || result.Metrics.ElementsCount != 3 {
		t.Errorf("Metrics = %+v", result.Metrics)
	}
}

func TestDigital_MultiplePages(t *testing.T) {
	data := testutil.BuildPDF(
		testutil.Page{Width: 612, Height: 792, Texts: []testutil.Text{{X: 72, Y: 400, Size: 12, S: "first page"}}},
		testutil.Page{Width: 612, Height: 792},
		testutil.Page{Width: 300, Height: 300, Texts: []testutil.Text{{X: 10, Y: 100, Size: 12, S: "third page"}}},
	)

	result, _, err := layoutlens.New().Digital(data)
	if err != nil {
		t.Fatalf("Digital: %v", err)
	}
	if len(result.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(result.Elements))
	}
	if result.Elements[0].Page != 1 || result.Elements[1].Page != 3 {
		t.Errorf("pages = %d, %d", result.Elements[0].Page, result.Elements[1].Page)
	}
}

func TestDigital_NoText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"blank page", testutil.BuildPDF(testutil.Page{Width: 612, Height: 792})},
		{"image only", scannedPDF()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := layoutlens.New().Digital(tt.data)
			if !errors.Is(err, model.ErrNoText) {
				t.Errorf("expected ErrNoText, got %v", err)
			}
			if result != nil {
				t.Error("expected nil result")
			}
		})
	}
}

func TestDigital_Unparsable(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("hello"), []byte("%PDF-1.4\ngarbage")} {
		_, _, err := layoutlens.New().Digital(data)
		if !errors.Is(err, model.ErrUnparsablePDF) {
			t.Errorf("Digital(%q): expected ErrUnparsablePDF, got %v", data, err)
		}
		if errors.Is(err, model.ErrNoText) {
			t.Errorf("Digital(%q): parse failure reported as no text", data)
		}
	}
}

// ===== OCR Tests =====

func word(text string, x0, y0, x1, y1 int, conf float64, block, par int) ocr.WordBox {
	return ocr.WordBox{Text: text, Box: image.Rect(x0, y0, x1, y1), Confidence: conf, Block: block, Paragraph: par}
}

func TestOCR_GroupsParagraphs(t *testing.T) {
	ext := fakeOCR([]ocr.WordBox{
		word("Hello", 100, 100, 200, 140, 90, 1, 1),
		word("world", 210, 100, 300, 140, 80, 1, 1),
		word("", 0, 0, 1000, 2000, 99, 1, 1),
		word("Body", 100, 1000, 180, 1040, -1, 2, 1),
		word("text", 190, 1000, 260, 1040, -1, 2, 1),
	})

	result, warnings, err := ext.OCR(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("OCR: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", layoutlens.FormatWarnings(warnings))
	}
	if len(result.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(result.Elements))
	}

	first := result.Elements[0]
	if first.Text != "Hello world" || first.Type != model.ElementTypeParagraph {
		t.Errorf("first = %q %q", first.Type, first.Text)
	}
	// raster boxes are already top-down: no flip
	if want := (model.NormBox{100, 50, 300, 70}); first.BBox != want {
		t.Errorf("first BBox = %v, want %v", first.BBox, want)
	}
	if first.Confidence != 0.85 {
		t.Errorf("first Confidence = %v, want 0.85", first.Confidence)
	}

	second := result.Elements[1]
	if second.Confidence != 0.7 {
		t.Errorf("default confidence = %v, want 0.7", second.Confidence)
	}
	if want := (model.NormBox{100, 500, 260, 520}); second.BBox != want {
		t.Errorf("second BBox = %v, want %v", second.BBox, want)
	}

	// type stays paragraph but the Markdown promotes the heading
	if want := "# Hello world\n\nBody text\n"; result.MarkdownOutput != want {
		t.Errorf("MarkdownOutput = %q, want %q", result.MarkdownOutput, want)
	}
	if result.Metrics.WordCount != 4 || result.Metrics.ElementsCount != 2 {
		t.Errorf("Metrics = %+v", result.Metrics)
	}
	assertNoEmptyText(t, result)
}

func TestOCR_Configuration(t *testing.T) {
	var gotDPI int
	var gotLang string
	var gotMode ocr.PageSegMode
	closed := false

	rast := &mock.Rasterizer{
		RasterizeFn: func(ctx context.Context, data []byte, dpi int) ([]raster.PageImage, error) {
			gotDPI = dpi
			return []raster.PageImage{{Page: 1, Width: 100, Height: 100}}, nil
		},
	}
	rec := &mock.Recognizer{
		WordsFn: func([]byte) ([]ocr.WordBox, error) {
			return []ocr.WordBox{word("x", 0, 0, 10, 10, -1, 1, 1)}, nil
		},
		SetLanguageFn:    func(lang string) error { gotLang = lang; return nil },
		SetPageSegModeFn: func(mode ocr.PageSegMode) error { gotMode = mode; return nil },
		CloseFn:          func() error { closed = true; return nil },
	}

	result, _, err := layoutlens.New().
		DPI(300).
		Language("eng+fra").
		PageSegMode(ocr.PSM_SINGLE_COLUMN).
		OCRDefaultConfidence(55).
		Rasterizer(rast).
		Recognizer(func() (ocr.Recognizer, error) { return rec, nil }).
		OCR(context.Background(), nil)
	if err != nil {
		t.Fatalf("OCR: %v", err)
	}
	if gotDPI != 300 {
		t.Errorf("dpi = %d, want 300", gotDPI)
	}
	if gotLang != "eng+fra" {
		t.Errorf("language = %q", gotLang)
	}
	if gotMode != ocr.PSM_SINGLE_COLUMN {
		t.Errorf("page segmentation mode = %d, want %d", gotMode, ocr.PSM_SINGLE_COLUMN)
	}
	if !closed {
		t.Error("recognizer not closed")
	}
	if result.Elements[0].Confidence != 0.55 {
		t.Errorf("Confidence = %v, want 0.55", result.Elements[0].Confidence)
	}
}

func TestOCR_PageFailureIsWarning(t *testing.T) {
	rast := &mock.Rasterizer{
		RasterizeFn: func(ctx context.Context, data []byte, dpi int) ([]raster.PageImage, error) {
			return []raster.PageImage{
				{Page: 1, Width: 100, Height: 100, PNG: []byte("bad")},
				{Page: 2, Width: 100, Height: 100, PNG: []byte("good")},
			}, nil
		},
	}
	rec := &mock.Recognizer{
		WordsFn: func(img []byte) ([]ocr.WordBox, error) {
			if string(img) == "bad" {
				return nil, errors.New("decode failed")
			}
			return []ocr.WordBox{word("ok", 10, 10, 20, 20, 50, 1, 1)}, nil
		},
	}

	result, warnings, err := layoutlens.New().
		Rasterizer(rast).
		Recognizer(func() (ocr.Recognizer, error) { return rec, nil }).
		OCR(context.Background(), nil)
	if err != nil {
		t.Fatalf("OCR: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Page != 1 {
		t.Errorf("warnings = %+v", warnings)
	}
	if len(result.Elements) != 1 || result.Elements[0].Page != 2 {
		t.Errorf("elements = %+v", result.Elements)
	}
}

func TestOCR_Unavailable(t *testing.T) {
	_, _, err := unavailableOCR().OCR(context.Background(), scannedPDF())
	if !errors.Is(err, model.ErrOCRUnavailable) {
		t.Errorf("expected ErrOCRUnavailable, got %v", err)
	}
}

func TestOCR_LanguageRejected(t *testing.T) {
	rec := &mock.Recognizer{
		WordsFn:       func([]byte) ([]ocr.WordBox, error) { return nil, nil },
		SetLanguageFn: func(lang string) error { return errors.New("missing klingon.traineddata") },
	}
	_, _, err := layoutlens.New().
		Language("klingon").
		Recognizer(func() (ocr.Recognizer, error) { return rec, nil }).
		OCR(context.Background(), scannedPDF())
	if !errors.Is(err, model.ErrOCRUnavailable) {
		t.Fatalf("expected ErrOCRUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "klingon") {
		t.Errorf("error does not name the language: %v", err)
	}
}

func TestOCR_DefaultPageSegMode(t *testing.T) {
	var gotMode ocr.PageSegMode
	rec := &mock.Recognizer{
		WordsFn:          func([]byte) ([]ocr.WordBox, error) { return nil, nil },
		SetPageSegModeFn: func(mode ocr.PageSegMode) error { gotMode = mode; return nil },
	}
	rast := &mock.Rasterizer{
		RasterizeFn: func(ctx context.Context, data []byte, dpi int) ([]raster.PageImage, error) {
			return []raster.PageImage{{Page: 1, Width: 100, Height: 100}}, nil
		},
	}
	_, _, _ = layoutlens.New().
		Rasterizer(rast).
		Recognizer(func() (ocr.Recognizer, error) { return rec, nil }).
		OCR(context.Background(), nil)
	if gotMode != ocr.PSM_AUTO {
		t.Errorf("page segmentation mode = %d, want PSM_AUTO", gotMode)
	}
}

func TestOCR_PageSegModeRejected(t *testing.T) {
	rec := &mock.Recognizer{
		WordsFn:          func([]byte) ([]ocr.WordBox, error) { return nil, nil },
		SetPageSegModeFn: func(ocr.PageSegMode) error { return errors.New("unsupported mode") },
	}
	_, _, err := layoutlens.New().
		Recognizer(func() (ocr.Recognizer, error) { return rec, nil }).
		OCR(context.Background(), scannedPDF())
	if !errors.Is(err, model.ErrOCRUnavailable) {
		t.Errorf("expected ErrOCRUnavailable, got %v", err)
	}
}

func TestOCR_NothingRecognized(t *testing.T) {
	_, _, err := fakeOCR(nil).OCR(context.Background(), nil)
	if !errors.Is(err, model.ErrNoText) {
		t.Errorf("expected ErrNoText, got %v", err)
	}
}

func TestOCR_RasterizeError(t *testing.T) {
	rast := &mock.Rasterizer{
		RasterizeFn: func(ctx context.Context, data []byte, dpi int) ([]raster.PageImage, error) {
			return nil, model.ErrUnparsablePDF
		},
	}
	rec := &mock.Recognizer{WordsFn: func([]byte) ([]ocr.WordBox, error) { return nil, nil }}
	_, _, err := layoutlens.New().
		Rasterizer(rast).
		Recognizer(func() (ocr.Recognizer, error) { return rec, nil }).
		OCR(context.Background(), nil)
	if !errors.Is(err, model.ErrUnparsablePDF) {
		t.Errorf("expected ErrUnparsablePDF, got %v", err)
	}
}

// ===== Pipeline Tests =====

func TestExtract_DigitalFirst(t *testing.T) {
	ext := fakeOCR([]ocr.WordBox{word("ocr", 0, 0, 10, 10, 90, 1, 1)})
	result, _, err := ext.Extract(context.Background(), reportTitlePDF())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.Elements[0].Text != "Report Title" {
		t.Errorf("expected text layer result, got %q", result.Elements[0].Text)
	}
}

func TestExtract_FallsBackToOCR(t *testing.T) {
	ext := fakeOCR([]ocr.WordBox{word("Scanned", 100, 1000, 300, 1040, 88, 1, 1)})
	result, _, err := ext.Extract(context.Background(), scannedPDF())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Elements) != 1 || result.Elements[0].Text != "Scanned" {
		t.Errorf("expected OCR result, got %+v", result.Elements)
	}
}

func TestExtract_UnparsableIsHardError(t *testing.T) {
	ext := fakeOCR([]ocr.WordBox{word("never", 0, 0, 10, 10, 90, 1, 1)})
	_, _, err := ext.Extract(context.Background(), []byte("not a pdf"))
	if !errors.Is(err, model.ErrUnparsablePDF) {
		t.Errorf("expected ErrUnparsablePDF, got %v", err)
	}
}

func TestExtract_OCRUnavailable(t *testing.T) {
	_, _, err := unavailableOCR().Extract(context.Background(), scannedPDF())
	if !errors.Is(err, model.ErrOCRUnavailable) {
		t.Errorf("expected ErrOCRUnavailable, got %v", err)
	}
}

// ===== Configuration Tests =====

func TestFluentMethodsDoNotMutate(t *testing.T) {
	base := layoutlens.New()
	derived := base.DPI(300).Language("deu").DigitalConfidence(0.9)

	if base.Options().DPI != raster.DefaultDPI || base.Options().Language != layoutlens.DefaultLanguage {
		t.Errorf("base modified: %+v", base.Options())
	}
	if derived.Options().DPI != 300 || derived.Options().Language != "deu" || derived.Options().DigitalConfidence != 0.9 {
		t.Errorf("derived = %+v", derived.Options())
	}
}

func TestNewWithOptionsFillsDefaults(t *testing.T) {
	opts := layoutlens.NewWithOptions(layoutlens.Options{DPI: 150}).Options()
	if opts.DPI != 150 {
		t.Errorf("DPI = %d", opts.DPI)
	}
	if opts.DigitalConfidence != layoutlens.DefaultDigitalConfidence || opts.OCRDefaultConfidence != layoutlens.DefaultOCRConfidence {
		t.Errorf("confidence defaults not applied: %+v", opts)
	}
	if opts.Rasterizer == nil || opts.NewRecognizer == nil || opts.Logger == nil {
		t.Error("expected default collaborators")
	}
	if opts.Classifier.TitleMaxLength != 60 {
		t.Errorf("Classifier = %+v", opts.Classifier)
	}
}

func TestDigitalConfidenceOption(t *testing.T) {
	result, _, err := layoutlens.New().DigitalConfidence(0.9).Digital(reportTitlePDF())
	if err != nil {
		t.Fatalf("Digital: %v", err)
	}
	if result.Elements[0].Confidence != 0.9 {
		t.Errorf("Confidence = %v", result.Elements[0].Confidence)
	}
}

func TestMustResultPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	layoutlens.MustResult(layoutlens.New().Digital([]byte("x")))
}

func TestFormatWarnings(t *testing.T) {
	got := layoutlens.FormatWarnings([]layoutlens.Warning{
		{Page: 2, Message: "region skipped"},
		{Message: "document note"},
	})
	if got != "page 2: region skipped; document note" {
		t.Errorf("FormatWarnings = %q", got)
	}
}
