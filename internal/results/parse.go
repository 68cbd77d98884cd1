package results

import (
	"fmt"

	"github.com/joshdk/go-junit"
)

// TestResult is the normalized, provider-agnostic view of the parsed results.
// Suites come straight from the external parser; the core only ever inspects
// emptiness and totals, adapters consume the rest.
type TestResult struct {
	Suites []junit.Suite
}

// Parse ingests raw results through the external JUnit parser. Parse failures
// propagate as regular errors; a nil result means there was nothing to parse.
func Parse(raws []RawResult) (*TestResult, error) {
	if len(raws) == 0 {
		return nil, nil
	}

	var suites []junit.Suite
	for _, raw := range raws {
		parsed, err := junit.Ingest(raw.Content)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", raw.Path, err)
		}
		suites = append(suites, parsed...)
	}
	return &TestResult{Suites: suites}, nil
}

// Empty reports whether the result carries no test cases at all. A nil
// receiver counts as empty so an absent parse can flow through unchecked.
func (r *TestResult) Empty() bool {
	if r == nil {
		return true
	}
	for _, s := range r.Suites {
		if len(s.Tests) > 0 {
			return false
		}
	}
	return true
}

// Totals aggregates per-suite counters across the whole result set.
func (r *TestResult) Totals() junit.Totals {
	var t junit.Totals
	if r == nil {
		return t
	}
	for _, s := range r.Suites {
		t.Tests += s.Totals.Tests
		t.Passed += s.Totals.Passed
		t.Skipped += s.Totals.Skipped
		t.Failed += s.Totals.Failed
		t.Error += s.Totals.Error
		t.Duration += s.Totals.Duration
	}
	return t
}
