// Package analysis produces gap analyses from a resume and a job posting.
// The deterministic skill matcher always runs first; an LLM provider chain
// refines its output when available, and the deterministic result stands on
// its own when every provider fails.
package analysis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skillgap/internal/llm"
	"github.com/jonathan/skillgap/internal/prompts"
	"github.com/jonathan/skillgap/internal/schemas"
	"github.com/jonathan/skillgap/internal/skills"
	"github.com/jonathan/skillgap/internal/types"
)

// Runner submits a prompt to the provider chain. *llm.Chain satisfies this.
type Runner interface {
	Run(ctx context.Context, prompt string, opts *llm.RequestOptions) (string, []types.ProviderAttempt, error)
}

// Engine computes gap analyses. Safe for concurrent use.
type Engine struct {
	matcher    *skills.Matcher
	normalizer *skills.Normalizer
	runner     Runner
	opts       *llm.RequestOptions
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRequestOptions overrides the completion options sent to providers.
func WithRequestOptions(opts *llm.RequestOptions) EngineOption {
	return func(e *Engine) {
		if opts != nil {
			e.opts = opts
		}
	}
}

// NewEngine creates an Engine. A nil runner puts the engine in
// deterministic-only mode, which is a supported configuration rather than a
// degraded one. A nil normalizer or matcher gets the default.
func NewEngine(normalizer *skills.Normalizer, matcher *skills.Matcher, runner Runner, opts ...EngineOption) *Engine {
	if normalizer == nil {
		normalizer = skills.NewNormalizer()
	}
	if matcher == nil {
		matcher = skills.NewMatcher(normalizer)
	}
	e := &Engine{
		matcher:    matcher,
		normalizer: normalizer,
		runner:     runner,
		opts:       llm.DefaultRequestOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// modelResponse is the JSON shape providers are instructed to return.
type modelResponse struct {
	OverallScore *int     `json:"overall_score"`
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Matching     []string `json:"matching_skills"`
	Missing      []string `json:"missing_skills"`
	ToAdvance    []string `json:"skills_to_advance"`
}

// Analyze computes the gap analysis for one request. The only error paths are
// request validation and context cancellation; provider failures degrade to
// the deterministic result instead of failing the call.
func (e *Engine) Analyze(ctx context.Context, req *types.AnalysisRequest) (*types.GapAnalysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	deterministic := e.matcher.Match(req.DeclaredSkills, req.ResumeText, req.JobRequirements)

	if e.runner == nil {
		return e.deterministicAnalysis(req, deterministic, nil), nil
	}

	prompt := e.buildPrompt(req, deterministic)
	text, attempts, err := e.runner.Run(ctx, prompt, e.opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return e.deterministicAnalysis(req, deterministic, attempts), nil
	}

	parsed, err := parseModelResponse(text)
	if err != nil {
		return e.deterministicAnalysis(req, deterministic, attempts), nil
	}

	return e.aiAnalysis(req, deterministic, parsed, attempts), nil
}

// buildPrompt assembles the system and user prompts for the providers.
func (e *Engine) buildPrompt(req *types.AnalysisRequest, deterministic skills.MatchResult) string {
	system := prompts.MustGet("analysis.json", "gap_analysis_system")
	user := prompts.Format(prompts.MustGet("analysis.json", "gap_analysis_user"), map[string]string{
		"JobTitle":       orPlaceholder(req.JobTitle, "(untitled)"),
		"Requirements":   orPlaceholder(strings.Join(req.JobRequirements, ", "), "(none listed)"),
		"JobDescription": req.JobDescription,
		"DeclaredSkills": orPlaceholder(strings.Join(req.DeclaredSkills, ", "), "(none listed)"),
		"ResumeText":     req.ResumeText,
		"Matching":       joinTerms(deterministic.Matching),
		"Missing":        joinTerms(deterministic.Missing),
		"ToAdvance":      joinTerms(deterministic.ToAdvance),
	})
	return system + "\n\n" + user
}

// parseModelResponse cleans, schema-validates, and decodes a provider reply.
func parseModelResponse(text string) (*modelResponse, error) {
	cleaned := llm.ExtractJSONObject(llm.CleanJSONBlock(text))
	if err := schemas.Validate(schemas.GapAnalysisSchema, cleaned); err != nil {
		return nil, err
	}
	var parsed modelResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// aiAnalysis merges the model's refinement with the deterministic buckets.
// The deterministic requirement set is authoritative for WHICH skills are
// bucketed; the model may move a requirement between buckets but cannot add
// or drop one when explicit requirements exist. With no explicit
// requirements the model's buckets are taken as-is, deduplicated.
func (e *Engine) aiAnalysis(req *types.AnalysisRequest, deterministic skills.MatchResult, parsed *modelResponse, attempts []types.ProviderAttempt) *types.GapAnalysis {
	// First occurrence wins when the model lists a skill in two buckets.
	aiBucket := make(map[string]int)
	for bucket, names := range [][]string{parsed.Matching, parsed.Missing, parsed.ToAdvance} {
		for _, term := range e.normalizer.NormalizeAll(names) {
			if _, ok := aiBucket[term.Canonical]; !ok {
				aiBucket[term.Canonical] = bucket
			}
		}
	}

	var merged skills.MatchResult
	place := func(term types.SkillTerm, fallback int) {
		bucket, ok := aiBucket[term.Canonical]
		if !ok {
			bucket = fallback
		}
		switch bucket {
		case 0:
			merged.Matching = append(merged.Matching, term)
		case 1:
			merged.Missing = append(merged.Missing, term)
		default:
			merged.ToAdvance = append(merged.ToAdvance, term)
		}
	}

	hasRequirements := len(deterministic.Matching)+len(deterministic.Missing)+len(deterministic.ToAdvance) > 0

	if hasRequirements {
		for _, term := range deterministic.Matching {
			place(term, 0)
		}
		for _, term := range deterministic.Missing {
			place(term, 1)
		}
		for _, term := range deterministic.ToAdvance {
			place(term, 2)
		}
	} else {
		seen := make(map[string]bool)
		takeAll := func(names []string, dest *[]types.SkillTerm) {
			for _, term := range e.normalizer.NormalizeAll(names) {
				if !seen[term.Canonical] {
					seen[term.Canonical] = true
					*dest = append(*dest, term)
				}
			}
		}
		takeAll(parsed.Matching, &merged.Matching)
		takeAll(parsed.Missing, &merged.Missing)
		takeAll(parsed.ToAdvance, &merged.ToAdvance)
	}

	// A null model score stays nil unless explicit requirements give the
	// deterministic score meaning.
	score := parsed.OverallScore
	if score == nil {
		if hasRequirements {
			score = merged.Score()
		}
	} else {
		clamped := clamp(*score, 0, 100)
		score = &clamped
	}

	analysis := &types.GapAnalysis{
		ID:              uuid.NewString(),
		JobTitle:        req.JobTitle,
		Source:          types.SourceAI,
		Model:           successModel(attempts),
		OverallScore:    score,
		Summary:         parsed.Summary,
		Strengths:       parsed.Strengths,
		MatchingSkills:  merged.Matching,
		MissingSkills:   merged.Missing,
		SkillsToAdvance: merged.ToAdvance,
		Attempts:        attempts,
		CreatedAt:       time.Now().UTC(),
	}
	if score != nil {
		analysis.Level = types.LevelForScore(*score)
	}
	return analysis
}

// deterministicAnalysis builds a complete analysis from the matcher output
// alone. This is a first-class result, not an error state; the source tag is
// how callers present it honestly.
func (e *Engine) deterministicAnalysis(req *types.AnalysisRequest, result skills.MatchResult, attempts []types.ProviderAttempt) *types.GapAnalysis {
	score := result.Score()

	analysis := &types.GapAnalysis{
		ID:              uuid.NewString(),
		JobTitle:        req.JobTitle,
		Source:          types.SourceDeterministicFallback,
		OverallScore:    score,
		Summary:         deterministicSummary(score),
		Strengths:       strengthsFrom(result.Matching),
		MatchingSkills:  result.Matching,
		MissingSkills:   result.Missing,
		SkillsToAdvance: result.ToAdvance,
		Attempts:        attempts,
		CreatedAt:       time.Now().UTC(),
	}
	if score != nil {
		analysis.Level = types.LevelForScore(*score)
	}
	return analysis
}

// deterministicSummary picks a canned summary for a score band.
func deterministicSummary(score *int) string {
	if score == nil {
		return "The posting lists no explicit skill requirements, so no match score applies. Review the job description against your experience directly."
	}
	switch {
	case *score >= 80:
		return "Excellent match. Your profile covers most of the stated requirements."
	case *score >= 60:
		return "Good match. A few focused additions would close the remaining gaps."
	case *score >= 40:
		return "Fair match. Several required skills need attention before applying."
	default:
		return "Significant gaps against the stated requirements. A structured learning plan is recommended."
	}
}

// strengthsFrom lists matched skills as candidate strengths.
func strengthsFrom(matching []types.SkillTerm) []string {
	if len(matching) == 0 {
		return nil
	}
	strengths := make([]string, 0, len(matching))
	for _, term := range matching {
		strengths = append(strengths, "Demonstrated experience with "+term.Display)
	}
	return strengths
}

// successModel returns the model of the successful attempt, if any.
func successModel(attempts []types.ProviderAttempt) string {
	for i := len(attempts) - 1; i >= 0; i-- {
		if attempts[i].Outcome == types.OutcomeSuccess {
			return attempts[i].Model
		}
	}
	return ""
}

func joinTerms(terms []types.SkillTerm) string {
	if len(terms) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(terms))
	for _, term := range terms {
		names = append(names, term.Display)
	}
	return strings.Join(names, ", ")
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
