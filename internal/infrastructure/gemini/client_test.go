package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchlens/scraper/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gemini-2.0-flash",
		Generation: GenerationConfig{
			MaxOutputTokens: 60,
			Temperature:     0.7,
			TopP:            0.9,
			TopK:            40,
		},
		Timeout: 5 * time.Second,
	})
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req generateRequest
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Equal(t, "price this watch", req.Contents[0].Parts[0].Text)
		assert.Equal(t, 60, req.GenerationConfig.MaxOutputTokens)
		assert.Equal(t, 0.7, req.GenerationConfig.Temperature)
		assert.Equal(t, 0.9, req.GenerationConfig.TopP)
		assert.Equal(t, 40, req.GenerationConfig.TopK)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[
			{"text":"  Estimated market price: 1500 EUR. Valuation: undervalued.\n"},
			{"text":"ignored"}
		]}}]}`)
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Generate(context.Background(), "price this watch")

	require.NoError(t, err)
	assert.Equal(t, "Estimated market price: 1500 EUR. Valuation: undervalued.", text)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":429}}`, domain.ErrValuationFailure},
		{"bad api key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid"}}`, domain.ErrValuationFailure},
		{"server error", http.StatusInternalServerError, "", domain.ErrValuationFailure},
		{"invalid json", http.StatusOK, "not json", domain.ErrUnexpectedShape},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, domain.ErrUnexpectedShape},
		{"blocked prompt", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, domain.ErrUnexpectedShape},
		{"candidate without parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`, domain.ErrUnexpectedShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			text, err := newTestClient(server.URL).Generate(context.Background(), "prompt")

			assert.Empty(t, text)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerate_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Generate(context.Background(), "prompt")

	assert.ErrorIs(t, err, domain.ErrValuationFailure)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
