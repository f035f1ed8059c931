package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_AliasResolution(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"React", "react"},
		{"React.js", "react"},
		{"ReactJS", "react"},
		{"js", "javascript"},
		{"JavaScript", "javascript"},
		{"golang", "go"},
		{"Node", "node.js"},
		{"NodeJS", "node.js"},
		{"k8s", "kubernetes"},
		{"Amazon Web Services", "aws"},
		{"postgres", "postgresql"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Normalize(tt.raw).Canonical, "raw %q", tt.raw)
	}
}

func TestNormalize_VersionSuffixStripped(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "node.js", n.Normalize("Node.js 18").Canonical)
	assert.Equal(t, "python", n.Normalize("Python 3.11").Canonical)
	assert.Equal(t, "vue.js", n.Normalize("Vue 2.x").Canonical)
	assert.Equal(t, "java", n.Normalize("Java SE 17").Canonical)
	// Digits glued to the name are part of it, not a version.
	assert.Equal(t, "html5", n.Normalize("HTML5").Canonical)
}

func TestNormalize_PunctuationVariantsStayDistinct(t *testing.T) {
	n := NewNormalizer()

	cpp := n.Normalize("C++")
	csharp := n.Normalize("C#")
	require.NotEqual(t, cpp.Canonical, csharp.Canonical)
	assert.Equal(t, "c++", cpp.Canonical)
	assert.Equal(t, "c#", csharp.Canonical)
}

func TestNormalize_UnknownTermLowercased(t *testing.T) {
	n := NewNormalizer()

	term := n.Normalize("  Quantum Basket Weaving  ")
	assert.Equal(t, "quantum basket weaving", term.Canonical)
	assert.Equal(t, "Quantum Basket Weaving", term.Raw)
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer()

	inputs := []string{
		"React.js", "ReactJS", "js", "Node.js 18", "C++", "C#", "golang",
		"Express JS", "Amazon Web Services", "unknown skill", "", "HTML", "rest",
	}
	for _, raw := range inputs {
		once := n.Normalize(raw)
		twice := n.Normalize(once.Canonical)
		assert.Equal(t, once.Canonical, twice.Canonical, "raw %q", raw)
	}
}

func TestNormalize_DisplayNames(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "Javascript", n.Normalize("js").Display)
	assert.Equal(t, "Node.js", n.Normalize("node").Display)
	assert.Equal(t, "C++", n.Normalize("cpp").Display)
	assert.Equal(t, "Machine Learning", n.Normalize("ml").Display)
}

func TestNormalize_CustomAliases(t *testing.T) {
	n := NewNormalizer(WithAliases(map[string]string{"RoR": "ruby on rails"}))

	assert.Equal(t, "ruby on rails", n.Normalize("ror").Canonical)
	// Defaults still apply.
	assert.Equal(t, "javascript", n.Normalize("js").Canonical)
}

func TestNormalizeAll_Deduplicates(t *testing.T) {
	n := NewNormalizer()

	terms := n.NormalizeAll([]string{"JS", "JavaScript", "react", "React.js", ""})
	require.Len(t, terms, 2)
	assert.Equal(t, "javascript", terms[0].Canonical)
	assert.Equal(t, "react", terms[1].Canonical)
}
