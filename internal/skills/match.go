package skills

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/skillgap/internal/types"
)

// strongMentionThreshold is the number of textual mentions that upgrade a
// requirement from "has touched it" to full matching when it is not on the
// declared skills list.
const strongMentionThreshold = 2

// defaultPhrasingPatterns are the regex templates used to hunt for textual
// evidence of a skill in resume prose. %s is replaced by the quoted skill
// variation. The first template is the word-boundary form used for mention
// counting; the rest catch looser phrasing like "built APIs using X".
var defaultPhrasingPatterns = []string{
	`(?:^|[\s,;:("'/])%s(?:$|[\s,;:.)!?"'/])`,
	`using[\s\w.,/+#-]{0,40}?%s`,
	`with[\s\w.,/+#-]{0,40}?%s`,
	`built[\s\w.,/+#-]{0,40}?%s`,
	`experience[\s\w.,/+#-]{0,40}?%s`,
}

// MatchResult buckets job requirements by evidence strength. The three
// slices partition the deduplicated requirement set.
type MatchResult struct {
	Matching  []types.SkillTerm
	Missing   []types.SkillTerm
	ToAdvance []types.SkillTerm
}

// Score returns the deterministic match score
// round(100 * |matching| / total), or nil when there were no requirements
// to score against (not applicable, never zero).
func (r *MatchResult) Score() *int {
	total := len(r.Matching) + len(r.Missing) + len(r.ToAdvance)
	if total == 0 {
		return nil
	}
	score := int(math.Round(100 * float64(len(r.Matching)) / float64(total)))
	return &score
}

// Matcher computes the skill gap between a candidate and a job.
type Matcher struct {
	normalizer *Normalizer
	patterns   []string
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithPhrasingPatterns replaces the textual-evidence regex templates.
func WithPhrasingPatterns(patterns []string) MatcherOption {
	return func(m *Matcher) {
		if len(patterns) > 0 {
			m.patterns = patterns
		}
	}
}

// NewMatcher creates a Matcher. A nil normalizer gets the default one.
func NewMatcher(normalizer *Normalizer, opts ...MatcherOption) *Matcher {
	if normalizer == nil {
		normalizer = NewNormalizer()
	}
	m := &Matcher{
		normalizer: normalizer,
		patterns:   defaultPhrasingPatterns,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match buckets every job requirement into exactly one of matching, missing,
// or to-advance. Evidence tiers, strongest first:
//
//  1. exact canonical match against the declared skill list -> matching
//  2. repeated textual mentions in the resume -> matching
//  3. a single weak textual mention -> to-advance
//  4. no evidence -> missing
//
// Requirements are deduplicated after normalization; empty strings are
// treated as no evidence. The function is total and never fails.
func (m *Matcher) Match(declared []string, resumeText string, requirements []string) MatchResult {
	reqs := m.normalizer.NormalizeAll(requirements)

	declaredSet := make(map[string]bool)
	for _, term := range m.normalizer.NormalizeAll(declared) {
		declaredSet[term.Canonical] = true
	}

	lowerResume := strings.ToLower(resumeText)

	var result MatchResult
	for _, req := range reqs {
		switch {
		case declaredSet[req.Canonical]:
			result.Matching = append(result.Matching, req)
		default:
			mentions := m.countMentions(lowerResume, req)
			switch {
			case mentions >= strongMentionThreshold:
				result.Matching = append(result.Matching, req)
			case mentions == 1:
				result.ToAdvance = append(result.ToAdvance, req)
			default:
				result.Missing = append(result.Missing, req)
			}
		}
	}
	return result
}

// countMentions counts distinct word-boundary occurrences of the skill in
// the resume text. Overlapping hits from different spellings of the same
// skill ("express" inside "express.js") collapse into one mention. A hit
// from a looser phrasing pattern counts as a single mention when no
// boundary hit exists.
func (m *Matcher) countMentions(lowerResume string, term types.SkillTerm) int {
	if lowerResume == "" {
		return 0
	}

	variations := m.variationsOf(term)
	var spans [][]int
	for _, v := range variations {
		re, err := regexp.Compile(fmt.Sprintf(m.patterns[0], regexp.QuoteMeta(v)))
		if err != nil {
			continue
		}
		spans = append(spans, re.FindAllStringIndex(lowerResume, -1)...)
	}
	if count := countMergedSpans(spans); count > 0 {
		return count
	}

	for _, pattern := range m.patterns[1:] {
		for _, v := range variations {
			re, err := regexp.Compile(fmt.Sprintf(pattern, regexp.QuoteMeta(v)))
			if err != nil {
				continue
			}
			if re.MatchString(lowerResume) {
				return 1
			}
		}
	}
	return 0
}

// countMergedSpans merges overlapping match intervals and counts the result.
func countMergedSpans(spans [][]int) int {
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })

	count := 1
	end := spans[0][1]
	for _, span := range spans[1:] {
		if span[0] >= end {
			count++
		}
		if span[1] > end {
			end = span[1]
		}
	}
	return count
}

// variationsOf lists the lower-cased spellings to search for: the canonical
// form, the original raw spelling, and every known alias.
func (m *Matcher) variationsOf(term types.SkillTerm) []string {
	seen := map[string]bool{term.Canonical: true}
	variations := []string{term.Canonical}

	if raw := strings.ToLower(term.Raw); raw != "" && !seen[raw] {
		seen[raw] = true
		variations = append(variations, raw)
	}
	for _, alias := range term.Aliases {
		if !seen[alias] {
			seen[alias] = true
			variations = append(variations, alias)
		}
	}
	return variations
}
