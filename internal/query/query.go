// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query is the client side of the document query service: given a
// prompt, file identifiers and a store identifier it returns generated text
// with citations.
package query

import (
	"context"
	"errors"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// Service failures. Configuration errors are fatal to the attempted action;
// transient errors may succeed when the caller re-invokes.
var (
	ErrNotConfigured = errors.New("query service not configured")
	ErrStoreNotFound = errors.New("document store not found")
	ErrNetwork       = errors.New("query service network error")
	ErrRateLimited   = errors.New("query service rate limited")
)

// Answer is the generated text and the passages it cites.
type Answer struct {
	Text      string           `json:"answer"`
	Citations []types.Citation `json:"citations"`
}

// Service answers prompts against indexed documents.
type Service interface {
	Query(ctx context.Context, prompt string, fileIDs []string, storeID string) (Answer, error)
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx context.Context, prompt string, fileIDs []string, storeID string) (Answer, error)

func (f ServiceFunc) Query(ctx context.Context, prompt string, fileIDs []string, storeID string) (Answer, error) {
	return f(ctx, prompt, fileIDs, storeID)
}

// IsTransient reports whether err may clear on a later attempt.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrRateLimited)
}

// IsConfiguration reports whether err stems from missing setup.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrStoreNotFound)
}
