package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"resultpipe/internal/config"
	"resultpipe/internal/metadata"
	"resultpipe/internal/results"
)

// ErrSubmission wraps every adapter-level failure so the orchestrator can
// classify the stage that failed without inspecting provider specifics.
var ErrSubmission = errors.New("submission failed")

// SubmissionOutcome is the terminal record of a successful submission. It is
// the only state that survives the run, exposed through named outputs.
type SubmissionOutcome struct {
	ResultsURL   string
	SubmissionID string
}

// Submitter is the capability contract every provider adapter implements:
// adapt a validated config plus a normalized result into one provider
// submission. A nil result means no test results were found; adapters decide
// what an empty submission means for their provider.
type Submitter interface {
	Submit(ctx context.Context, cfg *config.ProviderConfig, result *results.TestResult, md metadata.RunMetadata) (*SubmissionOutcome, error)
}

// Dispatcher routes a submission to the adapter selected by the config's
// provider discriminant.
type Dispatcher struct {
	logger zerolog.Logger

	// submitterFor is a test seam. If nil, Dispatcher uses the real adapters.
	submitterFor func(p config.Provider) Submitter
}

func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Submit dispatches on cfg.Provider. An unrecognized discriminant here is an
// internal invariant violation: validation already narrowed the config, so
// this fails fast rather than warning.
func (d *Dispatcher) Submit(ctx context.Context, cfg *config.ProviderConfig, result *results.TestResult, md metadata.RunMetadata) (*SubmissionOutcome, error) {
	var sub Submitter
	if d.submitterFor != nil {
		sub = d.submitterFor(cfg.Provider)
	} else {
		switch cfg.Provider {
		case config.ProviderTestRail:
			sub = &TestRailAdapter{Logger: d.logger}
		case config.ProviderTestfiesta:
			sub = &TestfiestaAdapter{Logger: d.logger}
		}
	}
	if sub == nil {
		return nil, fmt.Errorf("no adapter registered for provider %q", cfg.Provider)
	}

	outcome, err := sub.Submit(ctx, cfg, result, md)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	return outcome, nil
}
