package inputs

import (
	"os"
	"strconv"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// Source supplies raw named parameters by their canonical kebab-case name
// (see internal/flags). A missing or empty parameter reports ok=false so
// callers can distinguish "not provided" from a provided empty string being
// meaningless for every parameter this tool accepts.
type Source interface {
	Lookup(name string) (value string, ok bool)
}

// MapSource is a Source backed by a plain map. The CLI fills one from Cobra
// flag values; tests use it directly.
type MapSource map[string]string

func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// ActionsSource reads parameters from a GitHub-Actions-style environment
// (INPUT_* variables) via go-githubactions.
type ActionsSource struct {
	action *githubactions.Action
}

func NewActionsSource(action *githubactions.Action) *ActionsSource {
	return &ActionsSource{action: action}
}

func (s *ActionsSource) Lookup(name string) (string, bool) {
	v := s.action.GetInput(name)
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// String returns the named parameter or "" when absent.
func String(src Source, name string) string {
	v, _ := src.Lookup(name)
	return v
}

// Bool parses the named parameter as a boolean. Absent or unparseable values
// fall back to def; this keeps a typo in fail-on-error from silently flipping
// the failure policy to an error of its own.
func Bool(src Source, name string, def bool) bool {
	raw, ok := src.Lookup(name)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return def
	}
	return v
}

// InActionsEnv reports whether the process appears to run inside a
// GitHub-Actions-like host, which decides where inputs and outputs live.
func InActionsEnv() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}
