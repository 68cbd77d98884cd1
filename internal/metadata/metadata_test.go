package metadata

import (
	"testing"

	"github.com/sethvargo/go-githubactions"
	"github.com/stretchr/testify/assert"
)

func fakeAction(env map[string]string) *githubactions.Action {
	return githubactions.New(githubactions.WithGetenv(func(k string) string { return env[k] }))
}

func TestCapture_ReadsTriggerContext(t *testing.T) {
	md := Capture(fakeAction(map[string]string{
		"GITHUB_REPOSITORY": "acme/web",
		"GITHUB_SHA":        "1a2b3c4d5e6f7890",
		"GITHUB_REF":        "refs/heads/main",
		"GITHUB_REF_NAME":   "main",
		"GITHUB_WORKFLOW":   "CI",
		"GITHUB_RUN_ID":     "987",
		"GITHUB_ACTOR":      "octocat",
		"GITHUB_EVENT_NAME": "push",
	}))

	assert.Equal(t, "acme/web", md.Repository)
	assert.Equal(t, "1a2b3c4d5e6f7890", md.SHA)
	assert.Equal(t, "main", md.Branch)
	assert.Equal(t, "CI", md.Workflow)
	assert.Equal(t, "987", md.RunID)
	assert.Equal(t, "octocat", md.Actor)
	assert.Equal(t, "1a2b3c4", md.ShortSHA())
}

func TestCapture_BranchFallsBackToRef(t *testing.T) {
	md := Capture(fakeAction(map[string]string{
		"GITHUB_REF": "refs/heads/feature/x",
	}))
	assert.Equal(t, "feature/x", md.Branch)
}

func TestCapture_OutsideActionsEnv(t *testing.T) {
	md := Capture(fakeAction(nil))
	assert.Equal(t, RunMetadata{}, md)
	assert.Empty(t, md.Describe())
}

func TestDescribe(t *testing.T) {
	md := RunMetadata{
		Repository: "acme/web",
		SHA:        "1a2b3c4d5e6f",
		Workflow:   "CI",
		RunID:      "42",
		Actor:      "octocat",
		EventName:  "push",
	}
	assert.Equal(t, "acme/web @ 1a2b3c4 (push by octocat, workflow CI, run 42)", md.Describe())
}

func TestDescribe_PartialContext(t *testing.T) {
	assert.Equal(t, "acme/web", RunMetadata{Repository: "acme/web"}.Describe())
	assert.Equal(t, "1a2b3c4", RunMetadata{SHA: "1a2b3c4d"}.Describe())
}
