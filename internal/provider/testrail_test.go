package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resultpipe/internal/config"
	"resultpipe/internal/metadata"
	"resultpipe/internal/results"
)

const junitWithCaseIDs = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="auth" tests="3" failures="1" skipped="1">
  <testcase classname="auth" name="C101_login" time="2.5"/>
  <testcase classname="auth" name="C102_logout" time="0.2">
    <failure message="session not cleared">stack</failure>
  </testcase>
  <testcase classname="auth" name="unmapped_case" time="0.1">
    <skipped/>
  </testcase>
</testsuite>`

func parseJUnit(t *testing.T, content string) *results.TestResult {
	t.Helper()
	parsed, err := results.Parse([]results.RawResult{{
		Format:  results.FormatJUnit,
		Path:    "run.xml",
		Content: []byte(content),
	}})
	require.NoError(t, err)
	return parsed
}

func testRailConfig(baseURL string) *config.ProviderConfig {
	return &config.ProviderConfig{
		Provider:    config.ProviderTestRail,
		Handle:      "acme",
		Project:     "42",
		ResultsPath: "./run.xml",
		Credentials: "bot:tok",
		BaseURL:     baseURL,
		RunName:     "CI Run 7",
		SubmitEmpty: true,
		TestRail:    &config.TestRailOptions{Username: "bot", APIKey: "tok", SuiteID: 5},
	}
}

func TestTestRailAdapter_Submit(t *testing.T) {
	var addRunBody map[string]any
	var caseResultsBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "testrail calls use basic auth")
		assert.Equal(t, "bot", user)
		assert.Equal(t, "tok", pass)

		switch {
		case strings.HasPrefix(r.URL.RawQuery, "/api/v2/add_run/42"):
			require.NoError(t, json.NewDecoder(r.Body).Decode(&addRunBody))
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "CI Run 7"})
		case strings.HasPrefix(r.URL.RawQuery, "/api/v2/add_results_for_cases/1"):
			require.NoError(t, json.NewDecoder(r.Body).Decode(&caseResultsBody))
			_, _ = w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	adapter := &TestRailAdapter{Logger: zerolog.Nop()}
	md := metadata.RunMetadata{Repository: "acme/web", SHA: "1a2b3c4d5e6f", Workflow: "CI"}

	outcome, err := adapter.Submit(context.Background(), testRailConfig(srv.URL), parseJUnit(t, junitWithCaseIDs), md)
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/index.php?/runs/view/1", outcome.ResultsURL)
	assert.Equal(t, "1", outcome.SubmissionID)

	assert.Equal(t, "CI Run 7", addRunBody["name"])
	assert.Equal(t, float64(5), addRunBody["suite_id"])
	assert.Equal(t, true, addRunBody["include_all"])
	desc, _ := addRunBody["description"].(string)
	assert.Contains(t, desc, "acme/web @ 1a2b3c4", "description embeds the commit SHA")
	assert.Contains(t, desc, "workflow CI", "description embeds the workflow name")
	assert.Contains(t, desc, "3 tests")

	caseResults, _ := caseResultsBody["results"].([]any)
	require.Len(t, caseResults, 2, "only tests with a C<id> prefix map to cases")
	first, _ := caseResults[0].(map[string]any)
	assert.Equal(t, float64(101), first["case_id"])
	assert.Equal(t, float64(testRailStatusPassed), first["status_id"])
	assert.Equal(t, "2s", first["elapsed"])
	second, _ := caseResults[1].(map[string]any)
	assert.Equal(t, float64(102), second["case_id"])
	assert.Equal(t, float64(testRailStatusFailed), second["status_id"])
}

func TestTestRailAdapter_ClosesRunWhenConfigured(t *testing.T) {
	closed := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.RawQuery, "/api/v2/add_run/42"):
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "CI Run 7"})
		case strings.HasPrefix(r.URL.RawQuery, "/api/v2/add_results_for_cases/1"):
			_, _ = w.Write([]byte(`[]`))
		case strings.HasPrefix(r.URL.RawQuery, "/api/v2/close_run/1"):
			closed = true
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := testRailConfig(srv.URL)
	cfg.TestRail.CloseRun = true

	adapter := &TestRailAdapter{Logger: zerolog.Nop()}
	outcome, err := adapter.Submit(context.Background(), cfg, parseJUnit(t, junitWithCaseIDs), metadata.RunMetadata{})
	require.NoError(t, err)
	assert.True(t, closed, "close_run is issued after results are attached")
	assert.Equal(t, "1", outcome.SubmissionID)
}

func TestTestRailAdapter_RejectsNonNumericProject(t *testing.T) {
	cfg := testRailConfig("https://acme.testrail.io")
	cfg.Project = "web-app"

	adapter := &TestRailAdapter{Logger: zerolog.Nop()}
	_, err := adapter.Submit(context.Background(), cfg, nil, metadata.RunMetadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeric project id")
}

func TestTestRailAdapter_APIFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Authentication failed"}`))
	}))
	defer srv.Close()

	adapter := &TestRailAdapter{Logger: zerolog.Nop()}
	_, err := adapter.Submit(context.Background(), testRailConfig(srv.URL), nil, metadata.RunMetadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestTestRailCaseID(t *testing.T) {
	cases := []struct {
		name string
		id   int64
		ok   bool
	}{
		{"C101_login", 101, true},
		{"c7 space separated", 7, true},
		{"C33", 33, true},
		{"login", 0, false},
		{"Case101", 0, false},
		{"C", 0, false},
	}
	for _, tc := range cases {
		id, ok := testRailCaseID(tc.name)
		assert.Equal(t, tc.ok, ok, "name %q", tc.name)
		assert.Equal(t, tc.id, id, "name %q", tc.name)
	}
}

func TestTestRailDescription_EmptyResult(t *testing.T) {
	desc := testRailDescription(nil, metadata.RunMetadata{})
	assert.Contains(t, desc, "No test results")
}
