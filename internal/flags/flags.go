package flags

// Package flags defines the canonical parameter names shared across the CLI
// flags, the GitHub-Actions-style input source, and the config merger.
// Keeping these as constants avoids drift between Cobra flag wiring and the
// input names documented in the action metadata.
// IMPORTANT: These are parameter *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&provider, flags.Provider, "", "...")
//	src.Lookup(flags.Provider)
const (
	Provider    = "provider"
	Handle      = "handle"
	Project     = "project"
	ResultsPath = "results-path"
	Credentials = "credentials"
	BaseURL     = "base-url"
	RunName     = "run-name"
	Config      = "config"
	ConfigFile  = "config-file"
	FailOnError = "fail-on-error"
	SubmitEmpty = "submit-empty"
)

// Output names set on a successful submission.
const (
	OutputResultsURL   = "results-url"
	OutputSubmissionID = "submission-id"
)
