package inputs

import (
	"testing"

	"github.com/sethvargo/go-githubactions"
	"github.com/stretchr/testify/assert"
)

func TestMapSource_EmptyValuesAreAbsent(t *testing.T) {
	src := MapSource{"provider": "testrail", "handle": "   "}

	v, ok := src.Lookup("provider")
	assert.True(t, ok)
	assert.Equal(t, "testrail", v)

	_, ok = src.Lookup("handle")
	assert.False(t, ok, "whitespace-only values count as absent")

	_, ok = src.Lookup("project")
	assert.False(t, ok)
}

func TestActionsSource_ReadsActionInputs(t *testing.T) {
	env := map[string]string{
		"INPUT_PROVIDER":     "testfiesta",
		"INPUT_RESULTS-PATH": "./reports",
	}
	action := githubactions.New(githubactions.WithGetenv(func(k string) string { return env[k] }))
	src := NewActionsSource(action)

	v, ok := src.Lookup("provider")
	assert.True(t, ok)
	assert.Equal(t, "testfiesta", v)

	v, ok = src.Lookup("results-path")
	assert.True(t, ok)
	assert.Equal(t, "./reports", v)

	_, ok = src.Lookup("run-name")
	assert.False(t, ok)
}

func TestBool(t *testing.T) {
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"", true, true},
		{"", false, false},
		{"yes please", false, false}, // unparseable keeps the default
		{"yes please", true, true},
	}
	for _, tc := range cases {
		src := MapSource{}
		if tc.raw != "" {
			src["flag"] = tc.raw
		}
		assert.Equal(t, tc.want, Bool(src, "flag", tc.def), "raw=%q def=%v", tc.raw, tc.def)
	}
}

func TestInActionsEnv(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	assert.True(t, InActionsEnv())

	t.Setenv("GITHUB_ACTIONS", "")
	assert.False(t, InActionsEnv())
}
