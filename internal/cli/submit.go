package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"resultpipe/internal/flags"
	"resultpipe/internal/inputs"
	"resultpipe/internal/logging"
	"resultpipe/internal/metadata"
	"resultpipe/internal/report"
	"resultpipe/internal/runner"
)

// ErrRunFailed is returned when the run failed and fail-on-error is set; the
// CLI edge maps it to a non-zero exit without reprinting the message the
// reporter already emitted.
var ErrRunFailed = errors.New("run failed")

// submitFlags holds raw flag values; empty strings mean "not provided" so
// kebab-case flags and action inputs share the same absence semantics.
var submitFlags = map[string]*string{}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Read local test results and submit them to the configured provider",
	Long: `Read locally produced test results and submit them as one run to the
configured test-management provider.

Configuration is merged from three layers, lowest to highest precedence:
  1. --config-file: path to a JSON file with provider-specific options
  2. --config:      inline JSON with the same shape
  3. direct flags (provider, handle, project, results-path, ...)

A malformed --config value aborts the run; a malformed or missing config
file is ignored with a warning.

Providers:
  testrail     credentials are "username:apikey", project is the numeric
               project id; optional config keys: suite_id, milestone_id,
               assigned_to, close_run
  testfiesta   credentials are a bare API token; optional config keys:
               environment, tags, branch

Results:
  --results-path may point at a single JUnit XML file or at a directory,
  in which case every *.xml file directly inside it is aggregated. Missing
  results are a warning, not a failure.

Failure policy:
  By default a failed run is reported as a warning and the job continues.
  Set --fail-on-error to make any failure fail the job.

Outputs:
  results-url    browsable URL of the submitted run
  submission-id  provider-side run identifier, when one is returned

Examples:
  resultpipe submit --provider testrail --handle acme --project 42 \
    --results-path ./junit.xml --credentials "bot:apikey" \
    --base-url https://acme.testrail.io

  resultpipe submit --provider testfiesta --handle acme-org --project web-app \
    --results-path ./reports --credentials "$TF_TOKEN" \
    --base-url https://api.testfiesta.com --config '{"environment":"staging"}'
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(cmd.ErrOrStderr(), verbose)

		action := githubactions.New()
		var src inputs.Source
		var rep report.Reporter
		if inputs.InActionsEnv() {
			src = inputs.NewActionsSource(action)
			rep = report.NewActionsReporter(action)
		} else {
			src = flagSource()
			rep = report.NewConsoleReporter()
		}

		r := runner.New(src, rep, logger, metadata.Capture(action))
		if err := r.Run(context.Background()); err != nil {
			return ErrRunFailed
		}
		return nil
	},
}

// flagSource exposes the submit flags as an input source for terminal runs.
func flagSource() inputs.MapSource {
	m := make(inputs.MapSource, len(submitFlags))
	for name, v := range submitFlags {
		if strings.TrimSpace(*v) != "" {
			m[name] = *v
		}
	}
	return m
}

func init() {
	rootCmd.AddCommand(submitCmd)

	stringFlag := func(name, usage string) {
		v := submitCmd.Flags().String(name, "", usage)
		submitFlags[name] = v
	}
	stringFlag(flags.Provider, "Target provider (testrail or testfiesta)")
	stringFlag(flags.Handle, "Account or organization handle with the provider")
	stringFlag(flags.Project, "Target project identifier or key")
	stringFlag(flags.ResultsPath, "Path to a JUnit XML file or a directory of them")
	stringFlag(flags.Credentials, "Provider credentials (testrail: username:apikey, testfiesta: API token)")
	stringFlag(flags.BaseURL, "Provider base URL")
	stringFlag(flags.RunName, "Run name (default: \"CI Run <run id>\")")
	stringFlag(flags.Config, "Inline JSON with provider-specific options")
	stringFlag(flags.ConfigFile, "Path to a JSON file with provider-specific options")
	stringFlag(flags.FailOnError, "Fail the job when the run fails (true/false, default false)")
	stringFlag(flags.SubmitEmpty, "Submit a run even when no test results were found (true/false, default true)")
}
