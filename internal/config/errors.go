package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInlineConfig marks a malformed JSON value in the inline config
// parameter. Unlike a broken config file, this is always fatal: inline config
// is typed directly into the workflow and a parse failure means the author's
// intent cannot be recovered.
var ErrInvalidInlineConfig = errors.New("invalid inline config")

// Violation is a single structural failure found during validation,
// addressed by the dotted path of the offending field.
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ValidationError aggregates every structural violation found in one pass so
// a user fixing their configuration sees all problems at once instead of
// round-tripping through the CI job per field.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// UnsupportedProviderError reports an unrecognized provider discriminant.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider %q (must be one of: %s)",
		e.Provider, strings.Join(KnownProviders(), ", "))
}

// MalformedCredentialsError reports credentials that passed the generic shape
// checks but violate the provider's expected internal structure. It is only
// raised after schema validation accepts the record, so structural errors are
// always reported before semantic ones.
type MalformedCredentialsError struct {
	Provider Provider
	Expected string
}

func (e *MalformedCredentialsError) Error() string {
	return fmt.Sprintf("malformed credentials for provider %s: expected %s", e.Provider, e.Expected)
}
