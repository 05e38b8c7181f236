// Package mock provides function-field implementations of the layoutlens
// interfaces for tests.
package mock

import (
	"context"

	"github.com/tsawler/layoutlens"
	"github.com/tsawler/layoutlens/model"
)

var _ layoutlens.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of layoutlens.Strategy.
type Strategy struct {
	InfoFn    func() layoutlens.ModelInfo
	ExtractFn func(ctx context.Context, doc layoutlens.Document) (*model.ExtractionResult, error)
}

func (s *Strategy) Info() layoutlens.ModelInfo {
	return s.InfoFn()
}

func (s *Strategy) Extract(ctx context.Context, doc layoutlens.Document) (*model.ExtractionResult, error) {
	return s.ExtractFn(ctx, doc)
}
