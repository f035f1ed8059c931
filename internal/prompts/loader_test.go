package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ExistingPrompts(t *testing.T) {
	system, err := Get("analysis.json", "gap_analysis_system")
	require.NoError(t, err)
	assert.Contains(t, system, "valid JSON")

	user, err := Get("analysis.json", "gap_analysis_user")
	require.NoError(t, err)
	assert.Contains(t, user, "{{.ResumeText}}")

	advisor, err := Get("chat.json", "advisor_system")
	require.NoError(t, err)
	assert.Contains(t, advisor, "{{.JobTitle}}")
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Get("analysis.json", "no_such_prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_prompt")
}

func TestGet_MissingFile(t *testing.T) {
	_, err := Get("nope.json", "anything")
	require.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("analysis.json", "no_such_prompt") })
	assert.NotPanics(t, func() { MustGet("chat.json", "advisor_system") })
}

func TestFormat(t *testing.T) {
	out := Format("Job: {{.JobTitle}} ({{.Level}})", map[string]string{
		"JobTitle": "Backend Engineer",
		"Level":    "strong",
	})
	assert.Equal(t, "Job: Backend Engineer (strong)", out)

	// Unknown placeholders are left alone.
	out = Format("{{.Missing}}", map[string]string{"Other": "x"})
	assert.True(t, strings.Contains(out, "{{.Missing}}"))
}
