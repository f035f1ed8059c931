// Package types provides type definitions for structured data used throughout the skillgap system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"
)

// SkillTerm is a normalized skill with its original spelling and known aliases.
// Terms are immutable once constructed; comparisons always use Canonical.
type SkillTerm struct {
	Raw       string   `json:"raw"`
	Canonical string   `json:"canonical"`
	Display   string   `json:"display,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
}

// AnalysisSource identifies how a GapAnalysis was produced.
type AnalysisSource string

// Analysis source values. Callers must be able to tell a full LLM-backed
// analysis apart from the rule-based one so they can present it honestly.
const (
	SourceAI                    AnalysisSource = "ai"
	SourceDeterministicFallback AnalysisSource = "deterministic-fallback"
)

// MatchLevel is a coarse quality band for an overall match score.
type MatchLevel string

// Match levels ordered worst to best.
const (
	LevelPoor      MatchLevel = "poor"
	LevelFair      MatchLevel = "fair"
	LevelGood      MatchLevel = "good"
	LevelStrong    MatchLevel = "strong"
	LevelExcellent MatchLevel = "excellent"
)

// LevelForScore maps a 0-100 score to a MatchLevel.
func LevelForScore(score int) MatchLevel {
	switch {
	case score >= 80:
		return LevelExcellent
	case score >= 65:
		return LevelStrong
	case score >= 50:
		return LevelGood
	case score >= 35:
		return LevelFair
	default:
		return LevelPoor
	}
}

// GapAnalysis is the computed breakdown of a candidate against one job.
// It is produced once per (resume, job) pair and treated as immutable after
// creation; chat sessions and plan generation consume it read-only.
type GapAnalysis struct {
	ID       string         `json:"id"`
	JobTitle string         `json:"job_title,omitempty"`
	Source   AnalysisSource `json:"source"`
	Model    string         `json:"model,omitempty"`

	// OverallScore is nil when there were no job requirements to score
	// against. Callers must treat nil as "not applicable", never as zero.
	OverallScore *int       `json:"overall_score,omitempty"`
	Level        MatchLevel `json:"level,omitempty"`

	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths,omitempty"`

	MatchingSkills  []SkillTerm `json:"matching_skills"`
	MissingSkills   []SkillTerm `json:"missing_skills"`
	SkillsToAdvance []SkillTerm `json:"skills_to_advance"`

	Attempts  []ProviderAttempt `json:"attempts,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ValidatePartition checks the bucket invariant: every requirement appears in
// exactly one of matching, missing, or to-advance.
func (g *GapAnalysis) ValidatePartition() error {
	seen := make(map[string]string)
	buckets := map[string][]SkillTerm{
		"matching_skills":   g.MatchingSkills,
		"missing_skills":    g.MissingSkills,
		"skills_to_advance": g.SkillsToAdvance,
	}
	for name, terms := range buckets {
		for _, term := range terms {
			if prev, dup := seen[term.Canonical]; dup {
				return fmt.Errorf("skill %q appears in both %s and %s", term.Canonical, prev, name)
			}
			seen[term.Canonical] = name
		}
	}
	return nil
}

// RequirementCount returns the total number of bucketed job requirements.
func (g *GapAnalysis) RequirementCount() int {
	return len(g.MatchingSkills) + len(g.MissingSkills) + len(g.SkillsToAdvance)
}
