package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stylesphere/backend/internal/domain"
	"github.com/stylesphere/backend/internal/logging"
	"github.com/stylesphere/backend/internal/metrics"
	"golang.org/x/time/rate"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxRetries        int
}

// Client calls the Gemini generateContent REST endpoint
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxRetries  int
	rateLimiter *rate.Limiter
	log         zerolog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new Gemini API client
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 60
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.Model == "" {
		opts.Model = "gemini-1.5-pro"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://generativelanguage.googleapis.com"
	}

	// rate.Limit is per second
	limiter := rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 5)

	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		model:       opts.Model,
		maxRetries:  opts.MaxRetries,
		rateLimiter: limiter,
		log:         logging.Component("gemini"),
		sleep:       sleepContext,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Generate sends the prompt followed by the images and returns the model's text answer.
func (c *Client) Generate(ctx context.Context, prompt string, images []domain.Image) (string, error) {
	body, err := json.Marshal(buildRequest(prompt, images))
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s",
		c.baseURL, url.PathEscape(c.model), url.Values{"key": {c.apiKey}}.Encode())

	start := time.Now()
	defer func() { metrics.ModelRequestDuration.Observe(time.Since(start).Seconds()) }()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %w", domain.ErrModelFailure, err)
		}

		text, retry, err := c.do(ctx, endpoint, body)
		if err == nil {
			metrics.ModelRequestsTotal.WithLabelValues("success").Inc()
			return text, nil
		}
		lastErr = err
		if !retry || attempt == c.maxRetries {
			break
		}

		metrics.ModelRequestsTotal.WithLabelValues("retry").Inc()
		c.log.Warn().Err(err).Int("attempt", attempt).Msg("Generate failed, retrying")
		if err := c.sleep(ctx, exponentialBackoff(attempt)); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrModelFailure, err)
		}
	}

	metrics.ModelRequestsTotal.WithLabelValues("failure").Inc()
	c.log.Error().Err(lastErr).Str("model", c.model).Msg("Generate failed")
	return "", lastErr
}

// do performs one request. retry reports whether the failure is transient.
func (c *Client) do(ctx context.Context, endpoint string, body []byte) (text string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "StyleSphere/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, fmt.Errorf("%w: %w", domain.ErrModelFailure, ctx.Err())
		}
		return "", true, fmt.Errorf("%w: %v", domain.ErrModelFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: reading body: %v", domain.ErrModelFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, fmt.Errorf("%w: status %d: %s", domain.ErrModelFailure, resp.StatusCode, truncate(string(raw), 256))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false, fmt.Errorf("%w: decoding response: %v", domain.ErrModelFailure, err)
	}

	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", false, fmt.Errorf("%w: prompt blocked: %s", domain.ErrModelFailure, parsed.PromptFeedback.BlockReason)
	}
	if len(parsed.Candidates) == 0 {
		return "", false, fmt.Errorf("%w: no candidates returned", domain.ErrModelFailure)
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", false, fmt.Errorf("%w: empty answer (finish reason %q)", domain.ErrModelFailure, parsed.Candidates[0].FinishReason)
	}
	return sb.String(), false, nil
}

func buildRequest(prompt string, images []domain.Image) generateRequest {
	parts := make([]part, 0, len(images)+1)
	parts = append(parts, part{Text: prompt})
	for _, img := range images {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: img.MimeType,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}})
	}
	return generateRequest{Contents: []content{{Role: "user", Parts: parts}}}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
