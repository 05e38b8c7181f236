// Package slog provides logging decorators for the layoutlens interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/tsawler/layoutlens"
	"github.com/tsawler/layoutlens/model"
)

// Ensure LoggingStrategy implements layoutlens.Strategy.
var _ layoutlens.Strategy = (*LoggingStrategy)(nil)

// LoggingStrategy wraps a Strategy with logging of every extraction.
type LoggingStrategy struct {
	next   layoutlens.Strategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next layoutlens.Strategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// Info delegates to the wrapped strategy.
func (s *LoggingStrategy) Info() layoutlens.ModelInfo {
	return s.next.Info()
}

// Extract delegates to the wrapped strategy and logs the outcome.
func (s *LoggingStrategy) Extract(ctx context.Context, doc layoutlens.Document) (result *model.ExtractionResult, err error) {
	defer func(begin time.Time) {
		elements := 0
		if result != nil {
			elements = len(result.Elements)
		}
		s.logger.Info("extract",
			"model", s.next.Info().ID,
			"file", doc.Name,
			"bytes", len(doc.Data),
			"elements", elements,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Extract(ctx, doc)
}

// WrapRegistry returns a registry whose strategies are all wrapped with
// logging.
func WrapRegistry(r *layoutlens.Registry, logger *slog.Logger) *layoutlens.Registry {
	wrapped := layoutlens.NewRegistry()
	for _, info := range r.Models() {
		s, err := r.Get(info.ID)
		if err != nil {
			continue
		}
		wrapped.Register(NewLoggingStrategy(s, logger))
	}
	return wrapped
}
