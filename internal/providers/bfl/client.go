// Package bfl submits image generation jobs to the Black Forest Labs Flux API
// and polls them until a result is available.
package bfl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"productshot/internal/domain"
	"productshot/internal/infra"
)

const (
	DefaultBaseURL      = "https://api.us2.bfl.ai"
	DefaultModelPath    = "/v1/flux-2-pro"
	DefaultPollInterval = 1200 * time.Millisecond
	DefaultPollTimeout  = 120 * time.Second

	statusReady        = "Ready"
	statusTaskNotFound = "Task not found"
)

// Options configures the Flux client.
type Options struct {
	APIKey       string
	BaseURL      string
	ModelPath    string
	PollInterval time.Duration
	PollTimeout  time.Duration
	HTTPClient   *http.Client
	Logger       *infra.Logger
}

// Client talks to the Flux job API.
type Client struct {
	apiKey       string
	baseURL      string
	modelPath    string
	pollInterval time.Duration
	pollTimeout  time.Duration
	httpClient   *http.Client
	logger       *infra.Logger

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewClient constructs a client with defaults for every unset option.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	modelPath := strings.TrimSpace(opts.ModelPath)
	if modelPath == "" {
		modelPath = DefaultModelPath
	}
	if !strings.HasPrefix(modelPath, "/") {
		modelPath = "/" + modelPath
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := opts.PollTimeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		baseURL:      baseURL,
		modelPath:    modelPath,
		pollInterval: interval,
		pollTimeout:  timeout,
		httpClient:   httpClient,
		logger:       logger,
		now:          time.Now,
		sleep:        sleepContext,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Endpoint returns the job submission URL.
func (c *Client) Endpoint() string {
	return c.baseURL + c.modelPath
}

// SubmitAndWait submits req and blocks until the job is ready, expires, fails
// or exceeds the poll timeout. The returned job is non-nil whenever the
// submission succeeded, including on poll failures.
func (c *Client) SubmitAndWait(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationJob, error) {
	job, err := c.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Wait(ctx, job)
}

// Submit sends the generation request and returns a pending job.
func (c *Client) Submit(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationJob, error) {
	if !c.HasCredentials() {
		return nil, &domain.ConfigurationError{Missing: "BFL_API_KEY"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slots := AssignSlots(req.Base, req.Reference, req.Logo)
	body, err := json.Marshal(submitPayload{
		Prompt: req.Prompt,
		Width:  req.Width,
		Height: req.Height,
		Slots:  slots,
	})
	if err != nil {
		return nil, fmt.Errorf("bfl: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bfl: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.UpstreamError{Op: domain.OpSubmit, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Op: domain.OpSubmit, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{Op: domain.OpSubmit, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	created := gjson.ParseBytes(raw)
	pollingURL := strings.TrimSpace(created.Get("polling_url").String())
	if pollingURL == "" {
		return nil, &domain.UpstreamError{
			Op:         domain.OpSubmit,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			Err:        domain.ErrMissingPollingHandle,
		}
	}

	job := &domain.GenerationJob{
		ID:         created.Get("id").String(),
		PollingURL: pollingURL,
		Status:     domain.JobStatusPending,
	}
	c.logger.Debug().
		Str("job_id", job.ID).
		Int("images", len(slots)).
		Msg("bfl: job submitted")
	return job, nil
}

// Wait polls job.PollingURL at a fixed interval. The first attempt is
// immediate and the deadline is checked before every attempt, so no request
// is issued once the timeout has elapsed.
func (c *Client) Wait(ctx context.Context, job *domain.GenerationJob) (*domain.GenerationJob, error) {
	if !c.HasCredentials() {
		return job, &domain.ConfigurationError{Missing: "BFL_API_KEY"}
	}
	start := c.now()
	for attempt := 1; ; attempt++ {
		elapsed := c.now().Sub(start)
		if elapsed > c.pollTimeout {
			job.Status = domain.JobStatusTimedOut
			c.logger.Warn().
				Str("job_id", job.ID).
				Int("attempts", attempt-1).
				Dur("elapsed", elapsed).
				Msg("bfl: poll timed out")
			return job, fmt.Errorf("bfl: %w after %s", domain.ErrTimeout, c.pollTimeout)
		}

		result, err := c.poll(ctx, job.PollingURL)
		if err != nil {
			job.Status = domain.JobStatusFailed
			return job, err
		}
		c.logger.Debug().
			Str("job_id", job.ID).
			Int("attempt", attempt).
			Str("status", result.status).
			Msg("bfl: poll")

		switch {
		case result.status == statusReady && result.sample != "":
			job.Status = domain.JobStatusReady
			job.SampleURL = result.sample
			return job, nil
		case result.status == statusTaskNotFound:
			job.Status = domain.JobStatusNotFound
			return job, fmt.Errorf("bfl: %w", domain.ErrTaskExpired)
		}

		if err := c.sleep(ctx, c.pollInterval); err != nil {
			job.Status = domain.JobStatusFailed
			return job, err
		}
	}
}

type pollResult struct {
	status string
	sample string
}

func (c *Client) poll(ctx context.Context, pollingURL string) (pollResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollingURL, nil)
	if err != nil {
		return pollResult{}, fmt.Errorf("bfl: build poll request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-key", c.apiKey)
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pollResult{}, &domain.UpstreamError{Op: domain.OpPoll, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pollResult{}, &domain.UpstreamError{Op: domain.OpPoll, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pollResult{}, &domain.UpstreamError{Op: domain.OpPoll, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	data := gjson.ParseBytes(raw)
	return pollResult{
		status: data.Get("status").String(),
		sample: strings.TrimSpace(data.Get("result.sample").String()),
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
