package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/tsawler/layoutlens"
	"github.com/tsawler/layoutlens/annotate"
	"github.com/tsawler/layoutlens/format"
	"github.com/tsawler/layoutlens/markdown"
	"github.com/tsawler/layoutlens/model"
)

// Endpoint is one HTTP route.
type Endpoint interface {
	Route() (method, path string, handler http.HandlerFunc)
}

type endpointFunc struct {
	method, path string
	handler      http.HandlerFunc
}

func (e endpointFunc) Route() (string, string, http.HandlerFunc) {
	return e.method, e.path, e.handler
}

func (s *Server) endpoints() []Endpoint {
	return []Endpoint{
		endpointFunc{"GET", "/health", s.handleHealth},
		endpointFunc{"GET", "/models", s.handleModels},
		endpointFunc{"POST", "/extract/{model}", s.handleExtract},
		endpointFunc{"POST", "/annotate/{model}", s.handleAnnotate},
	}
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Output formats accepted by POST /extract/{model}.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// multipartOverhead is allowed on top of the upload limit for form framing.
const multipartOverhead = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Models())
}

// handleExtract runs a strategy on the PDF uploaded in the "file" form
// field. The format query parameter selects json (default), markdown or
// html output.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	modelID := r.PathValue("model")
	strategy, err := s.registry.Get(modelID)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Model '%s' not found.", modelID))
		return
	}

	output := strings.ToLower(r.URL.Query().Get("format"))
	switch output {
	case "":
		output = FormatJSON
	case FormatJSON, FormatMarkdown, FormatHTML:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", output))
		return
	}

	limit := s.Limits().MaxUploadBytes
	tooLarge := fmt.Sprintf("File size exceeds limit of %dMB.", limit>>20)

	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}
	if int64(len(data)) > limit {
		writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Empty file uploaded")
		return
	}
	if f := format.Detect(header.Filename, data); f != format.PDF {
		msg := "Only PDF files are supported."
		if f != format.Unknown {
			msg += fmt.Sprintf(" Got %s.", f)
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := strategy.Extract(r.Context(), layoutlens.Document{Name: header.Filename, Data: data})
	if err != nil {
		if errors.Is(err, model.ErrUnparsablePDF) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Extraction failed: %v", err))
		return
	}

	switch output {
	case FormatMarkdown:
		meta := markdown.MetadataFromResult(header.Filename, modelID, result)
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, markdown.WithFrontMatter(result.MarkdownOutput, meta))
	case FormatHTML:
		html, err := markdown.ToHTML(result.MarkdownOutput)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, html)
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

// handleAnnotate draws the posted elements onto a blank canvas. The body
// is either a JSON array of {type, bbox, page} objects or an extraction
// result whose elements are drawn. Query parameters page, width and
// height choose the page and canvas.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	modelID := r.PathValue("model")
	if _, err := s.registry.Get(modelID); err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Model '%s' not found.", modelID))
		return
	}

	limits := s.Limits()
	q := r.URL.Query()
	page, err1 := intParam(q.Get("page"), 1)
	width, err2 := intParam(q.Get("width"), limits.CanvasWidth)
	height, err3 := intParam(q.Get("height"), limits.CanvasHeight)
	if err := errors.Join(err1, err2, err3); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if width > limits.MaxCanvas || height > limits.MaxCanvas {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Canvas %dx%d exceeds limit of %d px per side.", width, height, limits.MaxCanvas))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limits.MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("failed to read body: %v", err))
		return
	}
	items, err := annotate.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.renderer.Render(items, page, width, height)
	if err != nil {
		if errors.Is(err, annotate.ErrCanvasTooLarge) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, skip := range res.Skipped {
		s.logger.Warn("annotation skipped", "index", skip.Index, "type", skip.Type, "reason", skip.Reason)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Annotations-Drawn", strconv.Itoa(res.Drawn))
	w.Header().Set("X-Annotations-Skipped", strconv.Itoa(len(res.Skipped)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.PNG)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return n, nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
