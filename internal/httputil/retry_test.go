// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

// scriptedServer answers with statuses in order, repeating the last one, and
// records every request body it sees.
type scriptedServer struct {
	*httptest.Server
	mu       sync.Mutex
	statuses []int
	bodies   []string
}

func newScriptedServer(t *testing.T, statuses ...int) *scriptedServer {
	t.Helper()
	s := &scriptedServer{statuses: statuses}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		n := len(s.bodies)
		s.bodies = append(s.bodies, string(b))
		s.mu.Unlock()

		status := s.statuses[min(n, len(s.statuses)-1)]
		if status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "0")
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *scriptedServer) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

func TestDoWithRetry(t *testing.T) {
	const body = `{"prompt":"Summarize the water policy","file_ids":["file-1"],"store_id":"store-1"}`

	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int
	}{
		{"answered first time", []int{http.StatusOK}, 5, http.StatusOK, 1},
		{"rate limited then answered", []int{429, 429, http.StatusOK}, 5, http.StatusOK, 3},
		{"retries exhausted", []int{429}, 3, 429, 4},
		{"default retry budget", []int{429}, 0, 429, 3},
		{"server error is not retried", []int{http.StatusInternalServerError}, 5, http.StatusInternalServerError, 1},
		{"store missing is not retried", []int{http.StatusNotFound}, 5, http.StatusNotFound, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newScriptedServer(t, tt.statuses...)

			req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/query", strings.NewReader(body))
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), srv.Client(), req, tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			calls := srv.calls()
			require.Len(t, calls, tt.wantCalls)
			for _, got := range calls {
				assert.Equal(t, body, got, "every attempt sends the full query")
			}
		})
	}
}

func TestDoWithRetryCancelledWhileWaiting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	old := RetryBaseDelay
	RetryBaseDelay = time.Hour
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{}`))
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, srv.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBackoff(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	tests := []struct {
		attempt    int
		retryAfter string
		want       time.Duration
	}{
		{0, "", 500 * time.Millisecond},
		{1, "", time.Second},
		{3, "", 4 * time.Second},
		{0, "7", 7 * time.Second},
		{0, "0", 0},
		{2, "86400", MaxRetryAfter},
		{1, "Wed, 21 Oct 2026 07:28:00 GMT", time.Second},
		{1, "-5", time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, backoff(tt.attempt, tt.retryAfter), "attempt %d retry-after %q", tt.attempt, tt.retryAfter)
	}
}
