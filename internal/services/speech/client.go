// Package speech wraps the external transcription service. The service
// receives a media reference and returns word-level timestamps; recut never
// runs speech models itself.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 120 * time.Second

// Config captures the runtime settings for the transcription service.
type Config struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// Word is one transcribed word with source timestamps in seconds.
type Word struct {
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker,omitempty"`
}

// Result is a completed transcription.
type Result struct {
	Words           []Word  `json:"words"`
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"durationSeconds"`
	Language        string  `json:"language,omitempty"`
}

// Client talks to the transcription HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a transcription client from configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type transcribeRequest struct {
	MediaURL   string `json:"mediaUrl"`
	Timestamps string `json:"timestamps"`
}

// Transcribe submits a media reference and blocks until the service returns
// the word-level transcription or the request times out.
func (c *Client) Transcribe(ctx context.Context, mediaURL string) (*Result, error) {
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		return nil, errors.New("speech transcribe: media url required")
	}
	if c.cfg.BaseURL == "" {
		return nil, errors.New("speech transcribe: base url required")
	}

	body, err := json.Marshal(transcribeRequest{MediaURL: mediaURL, Timestamps: "word"})
	if err != nil {
		return nil, fmt.Errorf("speech transcribe: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/transcriptions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("speech transcribe: new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech transcribe: http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech transcribe: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Status code only; the provider body stays out of the error chain.
		reason := http.StatusText(resp.StatusCode)
		if reason == "" {
			reason = "unexpected status"
		}
		return nil, fmt.Errorf("speech transcribe: provider returned http %d %s", resp.StatusCode, reason)
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("speech transcribe: decode response: %w", err)
	}
	if len(result.Words) == 0 {
		return nil, errors.New("speech transcribe: response contained no words")
	}
	return &result, nil
}

// Health pings the service; a nil error means the service is reachable and
// willing to accept work.
func (c *Client) Health(ctx context.Context) error {
	if c.cfg.BaseURL == "" {
		return errors.New("speech health: base url required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("speech health: new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("speech health: http error: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speech health: http %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}
