// Package renderfarm wraps the external render service that turns an executed
// timeline into a finished video asset. Rendering is asynchronous: a submit
// returns a provider job id, and progress is observed by polling.
package renderfarm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultSubmitTimeout = 30 * time.Second
	defaultPollTimeout   = 10 * time.Second
)

// Provider job states as reported by the farm.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Config captures the runtime settings for the render service.
type Config struct {
	BaseURL              string
	APIKey               string
	SubmitTimeoutSeconds int
	PollTimeoutSeconds   int
}

// SubmitRequest is a render job submission. Exactly one of Timeline or
// Script is set: Timeline carries executed segment data, Script carries a
// provider-native edit script for final renders.
type SubmitRequest struct {
	Timeline json.RawMessage `json:"timeline,omitempty"`
	Script   string          `json:"script,omitempty"`
	Kind     string          `json:"kind"`
	SourceID string          `json:"sourceId,omitempty"`
}

// JobStatus is a point-in-time view of a render job.
type JobStatus struct {
	JobID    string `json:"jobId"`
	State    string `json:"state"`
	AssetRef string `json:"assetRef,omitempty"`
	Error    string `json:"error,omitempty"`
	Metrics  struct {
		RenderSeconds float64 `json:"renderSeconds,omitempty"`
		OutputBytes   int64   `json:"outputBytes,omitempty"`
	} `json:"metrics,omitempty"`
}

// Client talks to the render farm HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	pollClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides both the submit and poll HTTP clients.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
			c.pollClient = client
		}
	}
}

// NewClient constructs a render farm client from configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	submitTimeout := defaultSubmitTimeout
	if cfg.SubmitTimeoutSeconds > 0 {
		submitTimeout = time.Duration(cfg.SubmitTimeoutSeconds) * time.Second
	}
	pollTimeout := defaultPollTimeout
	if cfg.PollTimeoutSeconds > 0 {
		pollTimeout = time.Duration(cfg.PollTimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:              strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIKey:               strings.TrimSpace(cfg.APIKey),
			SubmitTimeoutSeconds: cfg.SubmitTimeoutSeconds,
			PollTimeoutSeconds:   cfg.PollTimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: submitTimeout},
		pollClient: &http.Client{Timeout: pollTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Submit queues a render job and returns the provider's job id. The id is
// only returned once the provider has accepted the job.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if c.cfg.BaseURL == "" {
		return "", errors.New("render submit: base url required")
	}
	if len(req.Timeline) == 0 && strings.TrimSpace(req.Script) == "" {
		return "", errors.New("render submit: timeline or script required")
	}
	if req.Kind == "" {
		return "", errors.New("render submit: kind required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("render submit: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("render submit: new request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("render submit: http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("render submit: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return "", statusError("render submit", resp.StatusCode)
	}

	var accepted struct {
		JobID string `json:"jobId"`
	}
	if err := json.Unmarshal(payload, &accepted); err != nil {
		return "", fmt.Errorf("render submit: decode response: %w", err)
	}
	if strings.TrimSpace(accepted.JobID) == "" {
		return "", errors.New("render submit: provider returned no job id")
	}
	return accepted.JobID, nil
}

// Poll fetches the current status of a previously submitted job.
func (c *Client) Poll(ctx context.Context, jobID string) (*JobStatus, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, errors.New("render poll: job id required")
	}
	if c.cfg.BaseURL == "" {
		return nil, errors.New("render poll: base url required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("render poll: new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.pollClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render poll: http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("render poll: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("render poll", resp.StatusCode)
	}

	var status JobStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("render poll: decode response: %w", err)
	}
	if status.JobID == "" {
		status.JobID = jobID
	}
	return &status, nil
}

// Health pings the farm; a nil error means it is reachable.
func (c *Client) Health(ctx context.Context) error {
	if c.cfg.BaseURL == "" {
		return errors.New("render health: base url required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("render health: new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.pollClient.Do(req)
	if err != nil {
		return fmt.Errorf("render health: http error: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("render health: http %d", resp.StatusCode)
	}
	return nil
}

// statusError summarizes a provider failure as status code plus status text.
// Provider response bodies never cross the pipeline boundary; callers that
// need them for diagnosis log on their side of the call.
func statusError(op string, code int) error {
	reason := http.StatusText(code)
	if reason == "" {
		reason = "unexpected status"
	}
	return fmt.Errorf("%s: provider returned http %d %s", op, code, reason)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}
