package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  MatchLevel
	}{
		{0, LevelPoor},
		{34, LevelPoor},
		{35, LevelFair},
		{49, LevelFair},
		{50, LevelGood},
		{64, LevelGood},
		{65, LevelStrong},
		{79, LevelStrong},
		{80, LevelExcellent},
		{100, LevelExcellent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestValidatePartition_Disjoint(t *testing.T) {
	g := &GapAnalysis{
		MatchingSkills:  []SkillTerm{{Canonical: "javascript"}},
		MissingSkills:   []SkillTerm{{Canonical: "docker"}},
		SkillsToAdvance: []SkillTerm{{Canonical: "express"}},
	}
	require.NoError(t, g.ValidatePartition())
	assert.Equal(t, 3, g.RequirementCount())
}

func TestValidatePartition_Overlap(t *testing.T) {
	g := &GapAnalysis{
		MatchingSkills: []SkillTerm{{Canonical: "docker"}},
		MissingSkills:  []SkillTerm{{Canonical: "docker"}},
	}
	err := g.ValidatePartition()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docker")
}

func TestValidatePartition_Empty(t *testing.T) {
	g := &GapAnalysis{}
	require.NoError(t, g.ValidatePartition())
	assert.Equal(t, 0, g.RequirementCount())
}

func TestAnalysisRequest_Validate(t *testing.T) {
	valid := &AnalysisRequest{
		ResumeText:     "Built REST APIs using Express.js",
		JobDescription: "Backend engineer role",
	}
	require.NoError(t, valid.Validate())

	missingResume := &AnalysisRequest{JobDescription: "Backend engineer role"}
	assert.Error(t, missingResume.Validate())

	missingJob := &AnalysisRequest{ResumeText: "some resume"}
	assert.Error(t, missingJob.Validate())
}
