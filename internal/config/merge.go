package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"resultpipe/internal/flags"
)

// directKeys maps the canonical parameter names (see internal/flags) to the
// raw-config keys they override. Direct inputs are the final authoritative
// layer for these keys and always win over both JSON sources.
var directKeys = map[string]string{
	flags.Provider:    "provider",
	flags.Handle:      "handle",
	flags.Project:     "project",
	flags.ResultsPath: "resultsPath",
	flags.Credentials: "credentials",
	flags.BaseURL:     "baseUrl",
	flags.RunName:     "runName",
	flags.FailOnError: "failOnError",
	flags.SubmitEmpty: "submitEmpty",
}

// keyAliases maps snake_case raw keys to their canonical camelCase form.
// When a source carries both spellings, the snake_case value wins.
var keyAliases = map[string]string{
	"suite_id":      "suiteId",
	"milestone_id":  "milestoneId",
	"assigned_to":   "assignedTo",
	"close_run":     "closeRun",
	"base_url":      "baseUrl",
	"run_name":      "runName",
	"results_path":  "resultsPath",
	"fail_on_error": "failOnError",
	"submit_empty":  "submitEmpty",
}

// MergeResult is the merged raw configuration plus any non-fatal notes
// accumulated along the way (currently only config-file degradations).
type MergeResult struct {
	Raw      map[string]any
	Warnings []string
}

// Merge combines the three configuration sources into one raw configuration
// map. Precedence, lowest to highest: config file, inline JSON, direct
// inputs.
//
// The two JSON sources fail differently on purpose: a malformed inline value
// is a hard error (wrapping ErrInvalidInlineConfig) because inline config is
// author-typed and a parse failure means lost intent, while a missing or
// malformed config file degrades to a warning and the file is ignored.
func Merge(inlineJSON, configFile string, direct map[string]string) (*MergeResult, error) {
	res := &MergeResult{Raw: make(map[string]any)}

	if configFile != "" {
		layerFileConfig(res, configFile)
	}

	if strings.TrimSpace(inlineJSON) == "" {
		inlineJSON = "{}"
	}
	var inline map[string]any
	if err := json.Unmarshal([]byte(inlineJSON), &inline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInlineConfig, err)
	}
	for k, v := range normalizeAliases(inline) {
		res.Raw[k] = v
	}

	for name, key := range directKeys {
		v, ok := direct[name]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		res.Raw[key] = v
	}

	return res, nil
}

// layerFileConfig reads and merges the on-disk JSON config as the base layer.
// Every failure mode here is soft: the file is ignored and a warning recorded.
func layerFileConfig(res *MergeResult, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("config file %s not found; ignoring", path))
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf("config file %s could not be read (%v); ignoring", path, err))
		}
		return
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("config file %s is not valid JSON (%v); ignoring", path, err))
		return
	}
	for k, v := range normalizeAliases(m) {
		res.Raw[k] = v
	}
}

// normalizeAliases canonicalizes snake_case keys to camelCase within a single
// source, preferring the snake_case value when both spellings are present.
// Normalization happens per source so the layer precedence above is decided
// on canonical keys only.
func normalizeAliases(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, isAlias := keyAliases[k]; isAlias {
			continue
		}
		out[k] = v
	}
	for snake, canonical := range keyAliases {
		if v, ok := m[snake]; ok {
			out[canonical] = v
		}
	}
	return out
}
