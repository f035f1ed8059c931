package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillgap/internal/config"
)

func TestNormalizeList(t *testing.T) {
	assert.Equal(t, []string{"Go", "Docker"}, normalizeList([]string{" Go ", "", "  ", "Docker"}))
	assert.Nil(t, normalizeList(nil))
	assert.Nil(t, normalizeList([]string{"", "  "}))
}

func TestLoadAnalysisFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"id": "a-1",
		"source": "ai",
		"summary": "ok",
		"matching_skills": [{"raw": "Go", "canonical": "go", "display": "Go"}],
		"missing_skills": [],
		"skills_to_advance": []
	}`), 0o644))

	analysis, err := loadAnalysisFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a-1", analysis.ID)
	require.Len(t, analysis.MatchingSkills, 1)
}

func TestLoadAnalysisFileRejectsOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"id": "a-1",
		"source": "ai",
		"summary": "ok",
		"matching_skills": [{"canonical": "go"}],
		"missing_skills": [{"canonical": "go"}],
		"skills_to_advance": []
	}`), 0o644))

	_, err := loadAnalysisFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent")
}

func TestLoadAnalysisFileMissing(t *testing.T) {
	_, err := loadAnalysisFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestWriteJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeJSON(path, map[string]int{"a": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a": 1`)
}

func TestLoadMergedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"job_title": "From File", "history_budget": 7}`), 0o644))

	merged, err := loadMergedConfig(path, config.Config{JobTitle: "From Flags"})
	require.NoError(t, err)
	assert.Equal(t, "From Flags", merged.JobTitle)
	assert.Equal(t, 7, merged.HistoryBudget)

	// No config file: flags pass through untouched.
	merged, err = loadMergedConfig("", config.Config{JobTitle: "Only Flags"})
	require.NoError(t, err)
	assert.Equal(t, "Only Flags", merged.JobTitle)
}
