package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/watchlens/scraper/internal/domain"
)

// GenerationConfig holds the sampling parameters sent with every request
type GenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

// ClientConfig configures the generative API client
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Generation GenerationConfig
	Timeout    time.Duration
}

// Client calls the generateContent endpoint of the generative language API
type Client struct {
	http       *resty.Client
	apiKey     string
	model      string
	generation GenerationConfig
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// NewClient creates a new generative API client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		generation: cfg.Generation,
	}
}

// Generate sends a single user prompt and returns the first candidate's text,
// trimmed. Pacing is the caller's job.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: c.generation,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		log.Printf("[GEMINI] Request error: %v", err)
		return "", fmt.Errorf("%w: %v", domain.ErrValuationFailure, err)
	}
	if resp.StatusCode() != http.StatusOK {
		log.Printf("[GEMINI] API error - Status: %d, Body: %s", resp.StatusCode(), truncate(resp.String(), 200))
		return "", fmt.Errorf("%w: status %d", domain.ErrValuationFailure, resp.StatusCode())
	}

	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("%w: decode reply: %v", domain.ErrUnexpectedShape, err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: reply has no candidate text", domain.ErrUnexpectedShape)
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
