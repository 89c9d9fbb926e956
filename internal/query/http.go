// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/transform-engine/internal/httputil"
	"github.com/pdiddy/transform-engine/pkg/types"
)

const queryPath = "/v1/query"

// HTTPService calls the query service over HTTP. Rate limiting is absorbed
// by a bounded number of 429 retries; anything left over surfaces as
// ErrRateLimited.
type HTTPService struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
}

// NewHTTPService builds a service from configuration.
func NewHTTPService(cfg types.QueryConfig) *HTTPService {
	return &HTTPService{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Client:     &http.Client{Timeout: cfg.Timeout},
	}
}

type queryRequest struct {
	Prompt  string   `json:"prompt"`
	FileIDs []string `json:"file_ids"`
	StoreID string   `json:"store_id"`
}

// Query sends one prompt to the service.
func (s *HTTPService) Query(ctx context.Context, prompt string, fileIDs []string, storeID string) (Answer, error) {
	if s.APIKey == "" || s.BaseURL == "" {
		return Answer{}, fmt.Errorf("%w: missing API key or base URL", ErrNotConfigured)
	}
	if storeID == "" {
		return Answer{}, fmt.Errorf("%w: no store identifier", ErrStoreNotFound)
	}

	body, err := json.Marshal(queryRequest{Prompt: prompt, FileIDs: fileIDs, StoreID: storeID})
	if err != nil {
		return Answer{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(s.BaseURL, "/") + queryPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Answer{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.APIKey)
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, s.MaxRetries)
	if err != nil {
		if ctx.Err() != nil {
			return Answer{}, ctx.Err()
		}
		return Answer{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Answer{}, statusError(resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var ans Answer
	if err := json.NewDecoder(resp.Body).Decode(&ans); err != nil {
		return Answer{}, fmt.Errorf("%w: decoding response: %w", ErrNetwork, err)
	}
	return ans, nil
}

func statusError(code int, msg string) error {
	var kind error
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = ErrNotConfigured
	case code == http.StatusNotFound:
		kind = ErrStoreNotFound
	case code == http.StatusTooManyRequests:
		kind = ErrRateLimited
	default:
		kind = ErrNetwork
	}
	if msg == "" {
		return fmt.Errorf("%w: status %d", kind, code)
	}
	return fmt.Errorf("%w: status %d: %s", kind, code, msg)
}
