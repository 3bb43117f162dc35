package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("id,title\n"))
	}))
	defer srv.Close()

	body, err := Get(context.Background(), srv.Client(), srv.URL, fastRetry(3))
	require.NoError(t, err)
	assert.Equal(t, "id,title\n", string(body))
}

func TestGetRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte("ok"))
		}
	}))
	defer srv.Close()

	body, err := Get(context.Background(), srv.Client(), srv.URL, fastRetry(5))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetNonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	defer srv.Close()

	_, err := Get(context.Background(), srv.Client(), srv.URL, fastRetry(5))
	require.Error(t, err)

	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusNotFound, herr.StatusCode)
	assert.Equal(t, "missing", string(herr.Body))
	assert.Contains(t, herr.Error(), "status=404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), srv.Client(), srv.URL, fastRetry(3))

	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusBadGateway, herr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoWithRetryBuildReqError(t *testing.T) {
	buildReq := func(ctx context.Context) (*http.Request, error) {
		return nil, errors.New("request build error")
	}

	_, _, err := DoWithRetry(context.Background(), http.DefaultClient, buildReq, fastRetry(3))
	assert.EqualError(t, err, "request build error")
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"missing", "", 0},
		{"seconds", "3", 3 * time.Second},
		{"garbage", "soon", 0},
		{"past date", "Mon, 02 Jan 2006 15:04:05 GMT", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.header != "" {
				resp.Header.Set("Retry-After", tt.header)
			}
			assert.Equal(t, tt.want, ParseRetryAfter(resp))
		})
	}
}

func TestIsRetryableStatus(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.True(t, isRetryableStatus(500, cfg))
	assert.True(t, isRetryableStatus(429, cfg))
	assert.False(t, isRetryableStatus(400, cfg))

	cfg.Retry5xx = false
	assert.False(t, isRetryableStatus(500, cfg))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", snippet([]byte("  abc \n"), 10))
	assert.Equal(t, "ab...", snippet([]byte("abcdef"), 2))
}
