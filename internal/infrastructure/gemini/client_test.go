package gemini

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylesphere/backend/internal/domain"
)

func newTestClient(serverURL string) *Client {
	c := NewClient(Options{
		APIKey:            "test-api-key",
		BaseURL:           serverURL,
		Model:             "gemini-test",
		RequestsPerMinute: 6000,
	})
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c
}

func answer(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{map[string]interface{}{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{APIKey: "k", BaseURL: "https://example.com/"})

	assert.Equal(t, "k", c.apiKey)
	assert.Equal(t, "https://example.com", c.baseURL)
	assert.Equal(t, "gemini-1.5-pro", c.model)
	assert.Equal(t, 3, c.maxRetries)
	assert.Equal(t, 60*time.Second, c.httpClient.Timeout)
	assert.NotNil(t, c.rateLimiter)

	c = NewClient(Options{})
	assert.Equal(t, "https://generativelanguage.googleapis.com", c.baseURL)
}

func TestExponentialBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, exponentialBackoff(1))
	assert.Equal(t, time.Second, exponentialBackoff(2))
	assert.Equal(t, 2*time.Second, exponentialBackoff(3))
}

func TestGenerate_Success(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		var req generateRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) && assert.Len(t, req.Contents, 1) {
			parts := req.Contents[0].Parts
			if assert.Len(t, parts, 2) && assert.NotNil(t, parts[1].InlineData) {
				assert.Equal(t, "describe", parts[0].Text)
				assert.Equal(t, "image/jpeg", parts[1].InlineData.MimeType)
				assert.Equal(t, base64.StdEncoding.EncodeToString(image), parts[1].InlineData.Data)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(answer(`{"season":"Winter"}`))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Generate(context.Background(), "describe",
		[]domain.Image{{MimeType: "image/jpeg", Data: image}})
	require.NoError(t, err)
	assert.Equal(t, `{"season":"Winter"}`, text)
}

func TestGenerate_RetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(answer("ok"))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Generate(context.Background(), "p", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGenerate_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "p", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelFailure)
	assert.Contains(t, err.Error(), "status 429")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGenerate_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "p", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelFailure)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerate_BlockedPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "p", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelFailure)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGenerate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "p", nil)
	assert.ErrorIs(t, err, domain.ErrModelFailure)
}

func TestGenerate_ConcatenatesParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"a\":"},{"text":"1}"}]}}]}`))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Generate(context.Background(), "p", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestGenerate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Generate(ctx, "p", nil)
	assert.ErrorIs(t, err, domain.ErrModelFailure)
	assert.ErrorIs(t, err, context.Canceled)
}
