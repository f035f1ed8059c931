// Package skills provides deterministic skill normalization and
// resume-against-job matching. Everything here is pure and total: malformed
// or empty input yields empty results, never an error.
package skills

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/skillgap/internal/types"
)

// versionSuffix matches trailing version markers such as "Node.js 18",
// "Python 3.11", "Vue 2.x" or "Java SE 17".
var versionSuffix = regexp.MustCompile(`\s+(se\s+)?v?\d+(\.\d+)*(\.x)?$`)

// Normalizer canonicalizes raw skill strings for comparison.
type Normalizer struct {
	aliases map[string]string
	caser   cases.Caser
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithAliases merges extra alias entries over the default table.
func WithAliases(aliases map[string]string) NormalizerOption {
	return func(n *Normalizer) {
		for k, v := range aliases {
			n.aliases[strings.ToLower(k)] = strings.ToLower(v)
		}
	}
}

// NewNormalizer creates a Normalizer with the default alias table.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		aliases: make(map[string]string, len(defaultAliases)),
		caser:   cases.Title(language.English),
	}
	for k, v := range defaultAliases {
		n.aliases[k] = v
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize canonicalizes a raw skill string. Unknown terms canonicalize to
// their lower-cased, version-stripped form, so the function never fails.
// Normalization is idempotent: Normalize(Normalize(x).Canonical) == Normalize(x).
func (n *Normalizer) Normalize(raw string) types.SkillTerm {
	canonical := strings.ToLower(strings.TrimSpace(raw))
	canonical = versionSuffix.ReplaceAllString(canonical, "")
	// Collapse internal whitespace runs so "react   js" hits the alias table.
	canonical = strings.Join(strings.Fields(canonical), " ")

	if resolved, ok := n.aliases[canonical]; ok {
		canonical = resolved
	}

	return types.SkillTerm{
		Raw:       strings.TrimSpace(raw),
		Canonical: canonical,
		Display:   n.displayName(canonical),
		Aliases:   n.aliasesOf(canonical),
	}
}

// NormalizeAll canonicalizes and deduplicates a list of raw skills, keeping
// first-seen order. Empty entries are dropped.
func (n *Normalizer) NormalizeAll(raws []string) []types.SkillTerm {
	terms := make([]types.SkillTerm, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for _, raw := range raws {
		term := n.Normalize(raw)
		if term.Canonical == "" || seen[term.Canonical] {
			continue
		}
		seen[term.Canonical] = true
		terms = append(terms, term)
	}
	return terms
}

// displayName renders a canonical form for human output. Dotted and
// punctuated names (node.js, c++, c#) are kept verbatim apart from casing of
// the leading rune; plain words are title-cased.
func (n *Normalizer) displayName(canonical string) string {
	if canonical == "" {
		return ""
	}
	if strings.ContainsAny(canonical, "./#+") {
		return strings.ToUpper(canonical[:1]) + canonical[1:]
	}
	return n.caser.String(canonical)
}

// aliasesOf collects every table entry that resolves to canonical.
func (n *Normalizer) aliasesOf(canonical string) []string {
	var aliases []string
	for alias, target := range n.aliases {
		if target == canonical {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}
