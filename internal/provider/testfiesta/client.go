// Package testfiesta is a minimal Testfiesta API client covering run
// submission. Authentication is a bearer token carried by an oauth2 static
// token transport; the client knows nothing about run configuration or
// parsed results.
package testfiesta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

type Client struct {
	domain string
	handle string
	http   *http.Client
	logger zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the transport, primarily for tests. It replaces
// the token transport entirely, so test servers see no auth header.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// loggingRoundTripper emits one debug line per request and response,
// including latency. The Authorization header is never logged.
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger zerolog.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	evt := t.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dur("elapsed", time.Since(start).Truncate(time.Millisecond))
	if err != nil {
		evt.Err(err).Msg("testfiesta api call failed")
		return resp, err
	}
	evt.Int("status", resp.StatusCode).Msg("testfiesta api call")
	return resp, err
}

// NewClient builds a client for the given API domain, authenticating every
// request with the api key as a bearer token, scoped to one organization
// handle.
func NewClient(domain, apiKey, handle string, opts ...Option) *Client {
	c := &Client{
		domain: strings.TrimRight(domain, "/"),
		handle: handle,
		logger: zerolog.Nop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	if c.http == nil {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
		c.http = &http.Client{
			Transport: &oauth2.Transport{
				Source: ts,
				Base:   &loggingRoundTripper{base: http.DefaultTransport, logger: c.logger},
			},
			Timeout: 30 * time.Second,
		}
	}
	return c
}

// CreateRunRequest is the body for run submission.
type CreateRunRequest struct {
	Name        string       `json:"name"`
	Source      string       `json:"source"`
	Environment string       `json:"environment,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Branch      string       `json:"branch,omitempty"`
	Metadata    RunMetadata  `json:"metadata,omitzero"`
	Cases       []CaseResult `json:"cases,omitempty"`
	Totals      Totals       `json:"totals"`
}

// RunMetadata carries CI trigger context attached to a run for traceability.
type RunMetadata struct {
	Repository string `json:"repository,omitempty"`
	CommitSHA  string `json:"commitSha,omitempty"`
	Ref        string `json:"ref,omitempty"`
	Workflow   string `json:"workflow,omitempty"`
	RunID      string `json:"runId,omitempty"`
	Actor      string `json:"actor,omitempty"`
}

// CaseResult is one executed test case within a run.
type CaseResult struct {
	Name       string `json:"name"`
	Suite      string `json:"suite,omitempty"`
	Status     string `json:"status"`
	DurationMS int64  `json:"durationMs"`
	Message    string `json:"message,omitempty"`
}

// Totals summarizes the run.
type Totals struct {
	Tests   int `json:"tests"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Run is the subset of the submission response the adapter consumes.
type Run struct {
	Key string `json:"key"`
}

// CreateRun submits a run to the given project under the client's handle.
func (c *Client) CreateRun(ctx context.Context, projectKey string, req CreateRunRequest) (*Run, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/%s/projects/%s/runs", c.domain, c.handle, projectKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(data))
		if len(detail) > 200 {
			detail = detail[:200]
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}

	var run Run
	if len(data) > 0 {
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return &run, nil
}
