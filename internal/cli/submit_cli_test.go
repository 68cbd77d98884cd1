package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resultpipe/internal/flags"
)

func TestFlagSource_OnlyExposesSetFlags(t *testing.T) {
	require.NoError(t, submitCmd.Flags().Set(flags.Provider, "testrail"))
	t.Cleanup(func() { _ = submitCmd.Flags().Set(flags.Provider, "") })

	src := flagSource()

	v, ok := src.Lookup(flags.Provider)
	assert.True(t, ok)
	assert.Equal(t, "testrail", v)

	_, ok = src.Lookup(flags.Handle)
	assert.False(t, ok, "unset flags must read as absent, not empty")
}

func TestSubmitCommand_DeclaresEveryParameter(t *testing.T) {
	for _, name := range []string{
		flags.Provider, flags.Handle, flags.Project, flags.ResultsPath,
		flags.Credentials, flags.BaseURL, flags.RunName,
		flags.Config, flags.ConfigFile, flags.FailOnError, flags.SubmitEmpty,
	} {
		assert.NotNil(t, submitCmd.Flags().Lookup(name), "missing flag --%s", name)
	}
}

func TestVersionCommand(t *testing.T) {
	SetBuildInfo("1.2.3", "abc1234", "2026-08-29")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "resultpipe 1.2.3")
	assert.Contains(t, buf.String(), "abc1234")
}
