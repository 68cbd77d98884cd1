package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// rawCommon is the decode target for the fields every provider variant
// shares. SubmitEmpty is a pointer so "absent" is distinguishable from an
// explicit false (the default is true).
type rawCommon struct {
	Handle      string `mapstructure:"handle"`
	Project     string `mapstructure:"project"`
	ResultsPath string `mapstructure:"resultsPath"`
	Credentials string `mapstructure:"credentials"`
	BaseURL     string `mapstructure:"baseUrl"`
	RunName     string `mapstructure:"runName"`
	FailOnError bool   `mapstructure:"failOnError"`
	SubmitEmpty *bool  `mapstructure:"submitEmpty"`
}

// Validate turns a merged raw configuration into a ProviderConfig.
//
// Failure modes, in the order they are checked:
//   - unrecognized provider discriminant: *UnsupportedProviderError
//   - one or more structural violations: *ValidationError carrying all of
//     them (not fail-fast), each addressed by its field path
//   - provider-specific credential shape (TestRail "username:apikey"):
//     *MalformedCredentialsError, raised only once the schema is clean
//
// Decoding failures (a value that cannot coerce into its field type) are
// reported as violations addressed by the failing field, alongside the
// required-field ones.
func Validate(raw map[string]any) (*ProviderConfig, error) {
	name := strings.ToLower(strings.TrimSpace(stringValue(raw["provider"])))
	provider := Provider(name)
	switch provider {
	case ProviderTestRail, ProviderTestfiesta:
	default:
		if name == "" {
			return nil, &ValidationError{Violations: []Violation{{Path: "provider", Message: "required"}}}
		}
		return nil, &UnsupportedProviderError{Provider: name}
	}

	var violations []Violation
	var common rawCommon
	if err := decode(raw, &common); err != nil {
		violations = append(violations, decodeViolations(err)...)
	}

	requireNonEmpty := func(path, value string) {
		if strings.TrimSpace(value) == "" {
			violations = append(violations, Violation{Path: path, Message: "required"})
		}
	}
	requireNonEmpty("handle", common.Handle)
	requireNonEmpty("project", common.Project)
	requireNonEmpty("resultsPath", common.ResultsPath)
	requireNonEmpty("credentials", common.Credentials)
	requireNonEmpty("baseUrl", common.BaseURL)
	if strings.TrimSpace(common.BaseURL) != "" && !isValidURL(common.BaseURL) {
		violations = append(violations, Violation{Path: "baseUrl", Message: "must be a valid absolute URL"})
	}

	cfg := &ProviderConfig{
		Provider:    provider,
		Handle:      strings.TrimSpace(common.Handle),
		Project:     strings.TrimSpace(common.Project),
		ResultsPath: strings.TrimSpace(common.ResultsPath),
		Credentials: common.Credentials,
		BaseURL:     strings.TrimRight(strings.TrimSpace(common.BaseURL), "/"),
		RunName:     strings.TrimSpace(common.RunName),
		FailOnError: common.FailOnError,
		SubmitEmpty: true,
	}
	if common.SubmitEmpty != nil {
		cfg.SubmitEmpty = *common.SubmitEmpty
	}
	if cfg.RunName == "" {
		cfg.RunName = GenerateRunName()
	}

	switch provider {
	case ProviderTestRail:
		var opts TestRailOptions
		if err := decode(raw, &opts); err != nil {
			violations = append(violations, decodeViolations(err)...)
		}
		cfg.TestRail = &opts
	case ProviderTestfiesta:
		var opts TestfiestaOptions
		if err := decode(raw, &opts); err != nil {
			violations = append(violations, decodeViolations(err)...)
		}
		cfg.Testfiesta = &opts
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	// Semantic checks run only on a structurally clean record.
	if provider == ProviderTestRail {
		username, apiKey, ok := strings.Cut(cfg.Credentials, ":")
		if !ok || strings.TrimSpace(username) == "" || strings.TrimSpace(apiKey) == "" {
			return nil, &MalformedCredentialsError{Provider: provider, Expected: "username:apikey"}
		}
		cfg.TestRail.Username = strings.TrimSpace(username)
		cfg.TestRail.APIKey = strings.TrimSpace(apiKey)
	}

	return cfg, nil
}

func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// decodeViolations flattens a mapstructure decode failure into per-field
// violations so type errors aggregate with the required-field ones. The
// decoder joins one *DecodeError per failed field, with nested joins for
// slice and map elements; DecodeError.Name carries the full field path.
func decodeViolations(err error) []Violation {
	var vs []Violation
	var walk func(error)
	walk = func(e error) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, sub := range joined.Unwrap() {
				walk(sub)
			}
			return
		}
		var derr *mapstructure.DecodeError
		if errors.As(e, &derr) {
			vs = append(vs, Violation{Path: derr.Name(), Message: derr.Unwrap().Error()})
			return
		}
		vs = append(vs, Violation{Path: "config", Message: e.Error()})
	}
	walk(err)
	return vs
}

func isValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && u.IsAbs() && u.Host != ""
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
