// Package testrail is a minimal TestRail API v2 client covering the calls the
// submission adapter needs. It knows nothing about run configuration or
// parsed results; it speaks raw TestRail payloads only.
package testrail

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
)

type Client struct {
	baseURL  string
	username string
	apiKey   string
	http     *http.Client
	logger   zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the transport, primarily for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient builds a client authenticating with HTTP Basic auth as
// username:apikey against the given TestRail instance URL.
func NewClient(baseURL, username, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   zerolog.Nop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

// AddRunRequest is the body for add_run. Zero-valued optional ids are omitted.
type AddRunRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	SuiteID      int64   `json:"suite_id,omitempty"`
	MilestoneID  int64   `json:"milestone_id,omitempty"`
	AssignedToID int64   `json:"assignedto_id,omitempty"`
	IncludeAll   bool    `json:"include_all"`
	CaseIDs      []int64 `json:"case_ids,omitempty"`
}

// Run is the subset of the add_run response the adapter consumes.
type Run struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CaseResult is one entry of an add_results_for_cases call.
type CaseResult struct {
	CaseID   int64  `json:"case_id"`
	StatusID int    `json:"status_id"`
	Comment  string `json:"comment,omitempty"`
	Elapsed  string `json:"elapsed,omitempty"`
}

// AddRun creates a test run in the given project.
func (c *Client) AddRun(ctx context.Context, projectID int64, req AddRunRequest) (*Run, error) {
	var run Run
	endpoint := fmt.Sprintf("add_run/%d", projectID)
	if err := c.post(ctx, endpoint, req, &run); err != nil {
		return nil, fmt.Errorf("add_run: %w", err)
	}
	return &run, nil
}

// AddResultsForCases attaches per-case results to an existing run.
func (c *Client) AddResultsForCases(ctx context.Context, runID int64, caseResults []CaseResult) error {
	endpoint := fmt.Sprintf("add_results_for_cases/%d", runID)
	body := map[string]any{"results": caseResults}
	if err := c.post(ctx, endpoint, body, nil); err != nil {
		return fmt.Errorf("add_results_for_cases: %w", err)
	}
	return nil
}

// CloseRun closes a run so its results become immutable.
func (c *Client) CloseRun(ctx context.Context, runID int64) error {
	endpoint := fmt.Sprintf("close_run/%d", runID)
	if err := c.post(ctx, endpoint, struct{}{}, nil); err != nil {
		return fmt.Errorf("close_run: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/index.php?/api/v2/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Str("endpoint", endpoint).Err(err).Msg("testrail api call failed")
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start).Truncate(time.Millisecond)).
		Msg("testrail api call")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, apiErrorDetail(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiErrorDetail pulls TestRail's {"error": "..."} message out of a failure
// body, falling back to a bounded raw dump.
func apiErrorDetail(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
