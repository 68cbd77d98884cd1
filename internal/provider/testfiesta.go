package provider

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"resultpipe/internal/config"
	"resultpipe/internal/metadata"
	"resultpipe/internal/provider/testfiesta"
	"resultpipe/internal/results"
)

// TestfiestaAdapter submits a normalized result as one Testfiesta run
// creation call carrying every parsed case.
type TestfiestaAdapter struct {
	Logger zerolog.Logger
}

func (a *TestfiestaAdapter) Submit(ctx context.Context, cfg *config.ProviderConfig, result *results.TestResult, md metadata.RunMetadata) (*SubmissionOutcome, error) {
	a.Logger.Debug().Fields(cfg.Redacted()).Msg("submitting run to testfiesta")

	client := testfiesta.NewClient(cfg.BaseURL, cfg.Credentials, cfg.Handle,
		testfiesta.WithLogger(a.Logger))

	opts := cfg.Testfiesta
	branch := opts.Branch
	if branch == "" {
		branch = md.Branch
	}

	totals := result.Totals()
	run, err := client.CreateRun(ctx, cfg.Project, testfiesta.CreateRunRequest{
		Name:        cfg.RunName,
		Source:      string(results.FormatJUnit),
		Environment: opts.Environment,
		Tags:        opts.Tags,
		Branch:      branch,
		Metadata: testfiesta.RunMetadata{
			Repository: md.Repository,
			CommitSHA:  md.SHA,
			Ref:        md.Ref,
			Workflow:   md.Workflow,
			RunID:      md.RunID,
			Actor:      md.Actor,
		},
		Cases: testfiestaCases(result),
		Totals: testfiesta.Totals{
			Tests:   totals.Tests,
			Passed:  totals.Passed,
			Failed:  totals.Failed,
			Skipped: totals.Skipped,
			Errors:  totals.Error,
		},
	})
	if err != nil {
		return nil, err
	}

	return &SubmissionOutcome{
		ResultsURL:   fmt.Sprintf("%s/%s/%s/runs", cfg.BaseURL, cfg.Handle, cfg.Project),
		SubmissionID: run.Key,
	}, nil
}

func testfiestaCases(result *results.TestResult) []testfiesta.CaseResult {
	if result == nil {
		return nil
	}
	var out []testfiesta.CaseResult
	for _, suite := range result.Suites {
		for _, test := range suite.Tests {
			cr := testfiesta.CaseResult{
				Name:       test.Name,
				Suite:      suite.Name,
				Status:     string(test.Status),
				DurationMS: test.Duration.Milliseconds(),
			}
			if test.Error != nil {
				cr.Message = test.Error.Error()
			}
			out = append(out, cr)
		}
	}
	return out
}
