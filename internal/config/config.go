package config

import (
	"fmt"

	"github.com/google/uuid"
)

// Provider identifies which test-management service a run submits to. It is
// the discriminant of ProviderConfig: every consumer (dispatcher, adapters)
// switches on it exhaustively, so adding a provider is a localized change.
type Provider string

const (
	ProviderTestRail   Provider = "testrail"
	ProviderTestfiesta Provider = "testfiesta"
)

// KnownProviders lists the accepted provider discriminants, in the order they
// appear in error messages and help text.
func KnownProviders() []string {
	return []string{string(ProviderTestRail), string(ProviderTestfiesta)}
}

// ProviderConfig is the validated, canonical run configuration. Exactly one
// of the variant option structs is non-nil, and it always matches Provider.
// The struct is built once by Validate and never mutated afterward.
type ProviderConfig struct {
	Provider    Provider
	Handle      string
	Project     string
	ResultsPath string
	Credentials string
	BaseURL     string
	RunName     string
	FailOnError bool
	SubmitEmpty bool

	TestRail   *TestRailOptions
	Testfiesta *TestfiestaOptions
}

// TestRailOptions carries the TestRail-specific configuration. Username and
// APIKey are derived from the opaque credentials string after schema
// validation accepts the record (credentials must be "username:apikey").
type TestRailOptions struct {
	SuiteID     int64 `mapstructure:"suiteId"`
	MilestoneID int64 `mapstructure:"milestoneId"`
	AssignedTo  int64 `mapstructure:"assignedTo"`
	CloseRun    bool  `mapstructure:"closeRun"`

	Username string `mapstructure:"-"`
	APIKey   string `mapstructure:"-"`
}

// TestfiestaOptions carries the Testfiesta-specific configuration. All fields
// are optional; credentials are used as a bearer token verbatim.
type TestfiestaOptions struct {
	Environment string   `mapstructure:"environment"`
	Tags        []string `mapstructure:"tags"`
	Branch      string   `mapstructure:"branch"`
}

// GenerateRunName produces the fallback run label used when no run-name was
// configured and the CI context supplies no run id.
func GenerateRunName() string {
	return fmt.Sprintf("CI Run %s", uuid.NewString()[:8])
}

// Redacted returns a loggable view of the config with the credentials value
// replaced. Every debug-level config or payload dump must go through this;
// nothing else in the config is secret.
func (c *ProviderConfig) Redacted() map[string]any {
	m := map[string]any{
		"provider":    c.Provider,
		"handle":      c.Handle,
		"project":     c.Project,
		"resultsPath": c.ResultsPath,
		"credentials": "[redacted]",
		"baseUrl":     c.BaseURL,
		"runName":     c.RunName,
		"failOnError": c.FailOnError,
		"submitEmpty": c.SubmitEmpty,
	}
	switch {
	case c.TestRail != nil:
		m["suiteId"] = c.TestRail.SuiteID
		m["milestoneId"] = c.TestRail.MilestoneID
		m["assignedTo"] = c.TestRail.AssignedTo
		m["closeRun"] = c.TestRail.CloseRun
	case c.Testfiesta != nil:
		m["environment"] = c.Testfiesta.Environment
		m["tags"] = c.Testfiesta.Tags
		m["branch"] = c.Testfiesta.Branch
	}
	return m
}
