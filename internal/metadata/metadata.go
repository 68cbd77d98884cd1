package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// RunMetadata is a read-only snapshot of the CI event that triggered this
// run. It is captured once at startup and passed through unchanged to the
// provider adapters for inclusion in run descriptions and payloads.
type RunMetadata struct {
	Repository string
	SHA        string
	Ref        string
	Branch     string
	Workflow   string
	RunID      string
	Actor      string
	EventName  string
}

// Capture reads the trigger context from a GitHub-Actions-like environment.
// Outside such an environment every field is simply empty; adapters treat
// empty fields as "unknown" rather than failing.
func Capture(action *githubactions.Action) RunMetadata {
	ctx, err := action.Context()
	if err != nil || ctx == nil {
		return RunMetadata{}
	}

	md := RunMetadata{
		Repository: ctx.Repository,
		SHA:        ctx.SHA,
		Ref:        ctx.Ref,
		Branch:     ctx.RefName,
		Workflow:   ctx.Workflow,
		Actor:      ctx.Actor,
		EventName:  ctx.EventName,
	}
	if ctx.RunID > 0 {
		md.RunID = strconv.FormatInt(ctx.RunID, 10)
	}
	if md.Branch == "" {
		md.Branch = strings.TrimPrefix(md.Ref, "refs/heads/")
	}
	return md
}

// ShortSHA returns the abbreviated commit hash commonly shown in run
// descriptions, or "" when no commit is known.
func (m RunMetadata) ShortSHA() string {
	if len(m.SHA) > 7 {
		return m.SHA[:7]
	}
	return m.SHA
}

// Describe renders a one-line trigger summary for provider run descriptions,
// e.g. "acme/web @ 1a2b3c4 (push by octocat, workflow CI, run 42)".
func (m RunMetadata) Describe() string {
	if m.Repository == "" && m.SHA == "" && m.Workflow == "" {
		return ""
	}

	var parts []string
	if m.EventName != "" && m.Actor != "" {
		parts = append(parts, fmt.Sprintf("%s by %s", m.EventName, m.Actor))
	} else if m.Actor != "" {
		parts = append(parts, "by "+m.Actor)
	}
	if m.Workflow != "" {
		parts = append(parts, "workflow "+m.Workflow)
	}
	if m.RunID != "" {
		parts = append(parts, "run "+m.RunID)
	}

	head := m.Repository
	if m.ShortSHA() != "" {
		if head != "" {
			head += " @ " + m.ShortSHA()
		} else {
			head = m.ShortSHA()
		}
	}
	if len(parts) == 0 {
		return head
	}
	if head == "" {
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%s (%s)", head, strings.Join(parts, ", "))
}
