package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resultpipe/internal/config"
	"resultpipe/internal/metadata"
	"resultpipe/internal/results"
)

type fakeSubmitter struct {
	outcome *SubmissionOutcome
	err     error
	calls   int
}

func (f *fakeSubmitter) Submit(context.Context, *config.ProviderConfig, *results.TestResult, metadata.RunMetadata) (*SubmissionOutcome, error) {
	f.calls++
	return f.outcome, f.err
}

func TestDispatcher_RoutesByDiscriminant(t *testing.T) {
	testrailFake := &fakeSubmitter{outcome: &SubmissionOutcome{ResultsURL: "https://tr"}}
	testfiestaFake := &fakeSubmitter{outcome: &SubmissionOutcome{ResultsURL: "https://tf"}}

	d := NewDispatcher(zerolog.Nop())
	d.submitterFor = func(p config.Provider) Submitter {
		switch p {
		case config.ProviderTestRail:
			return testrailFake
		case config.ProviderTestfiesta:
			return testfiestaFake
		}
		return nil
	}

	out, err := d.Submit(context.Background(), &config.ProviderConfig{Provider: config.ProviderTestRail}, nil, metadata.RunMetadata{})
	require.NoError(t, err)
	assert.Equal(t, "https://tr", out.ResultsURL)

	out, err = d.Submit(context.Background(), &config.ProviderConfig{Provider: config.ProviderTestfiesta}, nil, metadata.RunMetadata{})
	require.NoError(t, err)
	assert.Equal(t, "https://tf", out.ResultsURL)

	assert.Equal(t, 1, testrailFake.calls)
	assert.Equal(t, 1, testfiestaFake.calls)
}

func TestDispatcher_UnknownDiscriminantFailsFast(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	_, err := d.Submit(context.Background(), &config.ProviderConfig{Provider: "jira"}, nil, metadata.RunMetadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no adapter registered")
}

func TestDispatcher_WrapsAdapterFailures(t *testing.T) {
	cause := errors.New("boom")
	d := NewDispatcher(zerolog.Nop())
	d.submitterFor = func(config.Provider) Submitter { return &fakeSubmitter{err: cause} }

	_, err := d.Submit(context.Background(), &config.ProviderConfig{Provider: config.ProviderTestRail}, nil, metadata.RunMetadata{})
	require.ErrorIs(t, err, ErrSubmission)
	require.ErrorIs(t, err, cause)
}
