// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transform-engine/internal/httputil"
	"github.com/pdiddy/transform-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const sampleAnswerJSON = `{
  "answer": "The policy caps household water use.",
  "citations": [
    {"source": "policy.pdf", "page_number": 3, "excerpt": "Household use is capped at 150 litres."},
    {"source": "policy.pdf", "excerpt": "Enforcement begins in 2027."}
  ]
}`

func newService(url string) *HTTPService {
	return &HTTPService{BaseURL: url, APIKey: "test-key", MaxRetries: 1}
}

func TestHTTPServiceQuery(t *testing.T) {
	var got queryRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, queryPath, r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleAnswerJSON)
	}))
	defer ts.Close()

	ans, err := newService(ts.URL).Query(context.Background(), "summarize", []string{"file-1"}, "store-1")
	require.NoError(t, err)

	assert.Equal(t, "summarize", got.Prompt)
	assert.Equal(t, []string{"file-1"}, got.FileIDs)
	assert.Equal(t, "store-1", got.StoreID)

	assert.Equal(t, "The policy caps household water use.", ans.Text)
	require.Len(t, ans.Citations, 2)
	assert.Equal(t, types.Citation{Source: "policy.pdf", PageNumber: 3, Excerpt: "Household use is capped at 150 litres."}, ans.Citations[0])
	assert.Zero(t, ans.Citations[1].PageNumber)
}

func TestHTTPServiceStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrNotConfigured},
		{http.StatusForbidden, ErrNotConfigured},
		{http.StatusNotFound, ErrStoreNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrNetwork},
		{http.StatusBadGateway, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, "nope")
			}))
			defer ts.Close()

			_, err := newService(ts.URL).Query(context.Background(), "p", []string{"f"}, "s")
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestHTTPServiceConfigurationErrors(t *testing.T) {
	_, err := (&HTTPService{BaseURL: "http://localhost"}).Query(context.Background(), "p", nil, "s")
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.True(t, IsConfiguration(err))
	assert.False(t, IsTransient(err))

	_, err = newService("http://localhost").Query(context.Background(), "p", nil, "")
	require.ErrorIs(t, err, ErrStoreNotFound)
}

func TestHTTPServiceNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := newService(url).Query(context.Background(), "p", []string{"f"}, "s")
	require.ErrorIs(t, err, ErrNetwork)
	assert.True(t, IsTransient(err))
}

func TestHTTPServiceMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "{not json")
	}))
	defer ts.Close()

	_, err := newService(ts.URL).Query(context.Background(), "p", []string{"f"}, "s")
	require.ErrorIs(t, err, ErrNetwork)
}

func TestServiceFunc(t *testing.T) {
	var svc Service = ServiceFunc(func(_ context.Context, prompt string, _ []string, _ string) (Answer, error) {
		return Answer{Text: "echo: " + prompt}, nil
	})
	ans, err := svc.Query(context.Background(), "hi", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", ans.Text)
}
