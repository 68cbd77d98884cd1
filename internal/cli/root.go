package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "resultpipe",
	Short: "Submit CI test results to a test-management service",
	Long: `Resultpipe reads locally produced test-result artifacts (JUnit XML) and
forwards them to an external test-management service, producing a canonical
run record and a browsable results URL.

It is built to run once per CI job. Inside a GitHub-Actions-like host it
reads its parameters from the action inputs and publishes named outputs;
on a terminal the same parameters are passed as flags and outputs are
printed as name=value lines.

Examples:
	# Show available commands and global flags
	resultpipe --help

	# Submit a JUnit report to TestRail
	resultpipe submit --provider testrail --handle acme --project 42 \
	  --results-path ./junit.xml --credentials "bot:apikey" \
	  --base-url https://acme.testrail.io

	# Print build info
	resultpipe version`,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging (prints every provider API call and state transition)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
