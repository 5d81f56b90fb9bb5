package botapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastPolicy keeps the retry schedule but drops the delays so tests run hot.
func fastPolicy() RetryPolicy {
	return RetryPolicy{
		Delays:      []time.Duration{time.Millisecond, time.Millisecond},
		IsRetryable: isTransient,
	}
}

func TestSendMessageSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "show tvs", req.Message)
		assert.Equal(t, "sess-1", req.SessionID)

		w.Write([]byte(`{"answer":"here"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-key", 0, fastPolicy())
	res, err := client.SendMessage(context.Background(), "sess-1", "show tvs")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
	assert.JSONEq(t, `{"answer":"here"}`, string(res.Body))
}

func TestSendMessageRetriesTransient(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"answer":"recovered"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0, fastPolicy())
	res, err := client.SendMessage(context.Background(), "sess-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendMessageExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0, fastPolicy())
	_, err := client.SendMessage(context.Background(), "sess-1", "hi")
	require.Error(t, err)

	// initial attempt + two scheduled retries
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestSendMessageDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail":"slow down"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0, fastPolicy())
	_, err := client.SendMessage(context.Background(), "sess-1", "hi")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "slow down", apiErr.Detail)
}

func TestWaitHonorsContextCancel(t *testing.T) {
	policy := RetryPolicy{Delays: []time.Duration{time.Minute}, IsRetryable: isTransient}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := policy.Wait(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"500", &APIError{StatusCode: 500}, true},
		{"502", &APIError{StatusCode: 502}, true},
		{"503", &APIError{StatusCode: 503}, true},
		{"504", &APIError{StatusCode: 504}, true},
		{"429", &APIError{StatusCode: 429}, false},
		{"400", &APIError{StatusCode: 400}, false},
		{"network", errors.New("connection refused"), true},
		{"canceled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(&APIError{StatusCode: 500}), "high traffic")
	assert.Contains(t, UserMessage(&APIError{StatusCode: 503}), "temporarily unavailable")
	assert.Contains(t, UserMessage(&APIError{StatusCode: 504}), "timed out")
	assert.Contains(t, UserMessage(&APIError{StatusCode: 422}), "having trouble")
	assert.Contains(t, UserMessage(errors.New("dial tcp: refused")), "Network connection issue")
}
