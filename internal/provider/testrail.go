package provider

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joshdk/go-junit"
	"github.com/rs/zerolog"

	"resultpipe/internal/config"
	"resultpipe/internal/metadata"
	"resultpipe/internal/provider/testrail"
	"resultpipe/internal/results"
)

// TestRail built-in result status ids.
const (
	testRailStatusPassed  = 1
	testRailStatusBlocked = 2
	testRailStatusFailed  = 5
)

// caseIDPattern matches test names that carry a TestRail case id prefix, the
// common "C123_login" / "C123 login" naming convention.
var caseIDPattern = regexp.MustCompile(`^[Cc](\d+)(?:$|[^0-9])`)

// TestRailAdapter submits a normalized result as a TestRail run: one add_run
// call, then add_results_for_cases for every test whose name maps to a case
// id. Unmapped tests are only reflected in the run description totals. When
// closeRun is configured the run is closed afterwards, freezing its results.
type TestRailAdapter struct {
	Logger zerolog.Logger
}

func (a *TestRailAdapter) Submit(ctx context.Context, cfg *config.ProviderConfig, result *results.TestResult, md metadata.RunMetadata) (*SubmissionOutcome, error) {
	a.Logger.Debug().Fields(cfg.Redacted()).Msg("submitting run to testrail")

	projectID, err := strconv.ParseInt(cfg.Project, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("testrail project must be a numeric project id, got %q", cfg.Project)
	}

	client := testrail.NewClient(cfg.BaseURL, cfg.TestRail.Username, cfg.TestRail.APIKey,
		testrail.WithLogger(a.Logger))

	run, err := client.AddRun(ctx, projectID, testrail.AddRunRequest{
		Name:         cfg.RunName,
		Description:  testRailDescription(result, md),
		SuiteID:      cfg.TestRail.SuiteID,
		MilestoneID:  cfg.TestRail.MilestoneID,
		AssignedToID: cfg.TestRail.AssignedTo,
		IncludeAll:   true,
	})
	if err != nil {
		return nil, err
	}

	if caseResults := testRailCaseResults(result); len(caseResults) > 0 {
		if err := client.AddResultsForCases(ctx, run.ID, caseResults); err != nil {
			return nil, err
		}
	}

	if cfg.TestRail.CloseRun {
		if err := client.CloseRun(ctx, run.ID); err != nil {
			return nil, err
		}
	}

	return &SubmissionOutcome{
		ResultsURL:   fmt.Sprintf("%s/index.php?/runs/view/%d", cfg.BaseURL, run.ID),
		SubmissionID: strconv.FormatInt(run.ID, 10),
	}, nil
}

// testRailDescription renders the run description, embedding the CI trigger
// context and the aggregate totals.
func testRailDescription(result *results.TestResult, md metadata.RunMetadata) string {
	var lines []string
	if trigger := md.Describe(); trigger != "" {
		lines = append(lines, "Triggered by: "+trigger)
	}
	if !result.Empty() {
		t := result.Totals()
		lines = append(lines, fmt.Sprintf("Results: %d tests, %d passed, %d failed, %d errored, %d skipped",
			t.Tests, t.Passed, t.Failed, t.Error, t.Skipped))
	} else {
		lines = append(lines, "No test results were found for this run.")
	}
	return strings.Join(lines, "\n")
}

// testRailCaseResults maps every test with a recognizable case id prefix onto
// an add_results_for_cases entry.
func testRailCaseResults(result *results.TestResult) []testrail.CaseResult {
	if result == nil {
		return nil
	}
	var out []testrail.CaseResult
	for _, suite := range result.Suites {
		for _, test := range suite.Tests {
			caseID, ok := testRailCaseID(test.Name)
			if !ok {
				continue
			}
			cr := testrail.CaseResult{
				CaseID:   caseID,
				StatusID: testRailStatusID(test.Status),
			}
			if test.Error != nil {
				cr.Comment = test.Error.Error()
			} else if test.Status == junit.StatusSkipped {
				cr.Comment = "skipped"
			}
			if secs := int64(test.Duration.Seconds()); secs >= 1 {
				cr.Elapsed = fmt.Sprintf("%ds", secs)
			}
			out = append(out, cr)
		}
	}
	return out
}

func testRailCaseID(name string) (int64, bool) {
	m := caseIDPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func testRailStatusID(status junit.Status) int {
	switch status {
	case junit.StatusPassed:
		return testRailStatusPassed
	case junit.StatusSkipped:
		return testRailStatusBlocked
	default:
		return testRailStatusFailed
	}
}
