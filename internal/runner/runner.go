package runner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"resultpipe/internal/config"
	"resultpipe/internal/flags"
	"resultpipe/internal/inputs"
	"resultpipe/internal/metadata"
	"resultpipe/internal/provider"
	"resultpipe/internal/report"
	"resultpipe/internal/results"
)

// State tracks where the run is in its lifecycle. Transitions are strictly
// forward: init → configuring → validating → submitting → succeeded/failed.
type State string

const (
	StateInit        State = "init"
	StateConfiguring State = "configuring"
	StateValidating  State = "validating"
	StateSubmitting  State = "submitting"
	StateSucceeded   State = "succeeded"
	StateFailed      State = "failed"
)

// Runner sequences one submission run: merge config, validate, check the
// results path, read and parse results, dispatch to the provider adapter,
// publish outputs. Every stage error is caught once at the top and converted
// into a single user-facing message; the fail-on-error input decides whether
// that message is a hard failure or a warning.
type Runner struct {
	Source   inputs.Source
	Reporter report.Reporter
	Logger   zerolog.Logger
	Metadata metadata.RunMetadata

	state State

	// cfgFailOnError carries the failOnError value out of the validated
	// config so JSON sources can opt into hard failure too. It is set the
	// moment validation succeeds, before any stage that can still fail.
	cfgFailOnError bool

	// dispatch is a test seam. If nil, Runner uses the real Dispatcher.
	dispatch func(ctx context.Context, cfg *config.ProviderConfig, result *results.TestResult, md metadata.RunMetadata) (*provider.SubmissionOutcome, error)
}

func New(src inputs.Source, rep report.Reporter, logger zerolog.Logger, md metadata.RunMetadata) *Runner {
	return &Runner{
		Source:   src,
		Reporter: rep,
		Logger:   logger,
		Metadata: md,
		state:    StateInit,
	}
}

// Run executes the pipeline. The returned error is non-nil only when the
// failure must propagate to the host as a job failure.
//
// fail-on-error is read here, straight from the parameter source, so the
// policy holds even when configuration parsing itself is what failed; once
// validation succeeds, a failOnError set through the JSON sources is honored
// as well (either source saying fail means fail). Default false: failures
// warn unless the pipeline opts into hard failure.
func (r *Runner) Run(ctx context.Context) error {
	failOnError := inputs.Bool(r.Source, flags.FailOnError, false)

	outcome, err := r.run(ctx)
	if err != nil {
		r.setState(StateFailed)
		if failOnError || r.cfgFailOnError {
			r.Reporter.Errorf("run failed: %v", err)
			return err
		}
		r.Reporter.Warningf("run failed: %v (fail-on-error is false, not failing the job)", err)
		return nil
	}

	r.setState(StateSucceeded)
	if outcome != nil {
		r.Reporter.SetOutput(flags.OutputResultsURL, outcome.ResultsURL)
		if outcome.SubmissionID != "" {
			r.Reporter.SetOutput(flags.OutputSubmissionID, outcome.SubmissionID)
		}
		r.Reporter.Noticef("test results submitted: %s", outcome.ResultsURL)
	}
	return nil
}

// run walks the stages. A nil outcome with a nil error means the run
// completed without submitting (short-circuit policy); no outputs are set.
func (r *Runner) run(ctx context.Context) (*provider.SubmissionOutcome, error) {
	r.setState(StateConfiguring)

	// Mask the credential value before anything can log it.
	if creds, ok := r.Source.Lookup(flags.Credentials); ok {
		r.Reporter.AddMask(creds)
	}

	merged, err := config.Merge(
		inputs.String(r.Source, flags.Config),
		inputs.String(r.Source, flags.ConfigFile),
		r.directInputs(),
	)
	if err != nil {
		return nil, err
	}
	for _, w := range merged.Warnings {
		r.Reporter.Warningf("%s", w)
	}

	r.setState(StateValidating)
	r.seedRunName(merged.Raw)
	cfg, err := config.Validate(merged.Raw)
	if err != nil {
		return nil, err
	}
	r.cfgFailOnError = cfg.FailOnError
	r.Logger.Debug().Fields(cfg.Redacted()).Msg("configuration validated")

	if err := results.ValidatePath(cfg.ResultsPath); err != nil {
		return nil, err
	}

	raws, err := results.Read(ctx, cfg.ResultsPath)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		r.Reporter.Warningf("no test results found at %s", cfg.ResultsPath)
	}

	parsed, err := results.Parse(raws)
	if err != nil {
		return nil, err
	}
	if parsed.Empty() && !cfg.SubmitEmpty {
		r.Reporter.Noticef("skipping submission: no test results and submit-empty is false")
		return nil, nil
	}

	r.setState(StateSubmitting)
	dispatch := r.dispatch
	if dispatch == nil {
		dispatch = provider.NewDispatcher(r.Logger).Submit
	}
	return dispatch(ctx, cfg, parsed, r.Metadata)
}

// directInputs collects the named parameters that override both JSON config
// sources.
func (r *Runner) directInputs() map[string]string {
	direct := make(map[string]string)
	for _, name := range []string{
		flags.Provider, flags.Handle, flags.Project, flags.ResultsPath,
		flags.Credentials, flags.BaseURL, flags.RunName,
		flags.FailOnError, flags.SubmitEmpty,
	} {
		if v, ok := r.Source.Lookup(name); ok {
			direct[name] = v
		}
	}
	return direct
}

// seedRunName defaults the run name to "CI Run <id>" from the trigger context
// when no source configured one. Validation falls back to a generated label
// if no run id is known either.
func (r *Runner) seedRunName(raw map[string]any) {
	if v, ok := raw["runName"].(string); ok && v != "" {
		return
	}
	if r.Metadata.RunID != "" {
		raw["runName"] = fmt.Sprintf("CI Run %s", r.Metadata.RunID)
	}
}

func (r *Runner) setState(s State) {
	r.Logger.Debug().Str("from", string(r.state)).Str("to", string(s)).Msg("state transition")
	r.state = s
}
