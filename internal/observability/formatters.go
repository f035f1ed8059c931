// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skillgap/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintGapAnalysis outputs a human-readable summary of a gap analysis.
func (p *Printer) PrintGapAnalysis(analysis *types.GapAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder

	if analysis.JobTitle != "" {
		sb.WriteString(fmt.Sprintf("Job:     %s\n", analysis.JobTitle))
	}
	sb.WriteString(fmt.Sprintf("Source:  %s\n", analysis.Source))
	if analysis.Model != "" {
		sb.WriteString(fmt.Sprintf("Model:   %s\n", analysis.Model))
	}
	if analysis.OverallScore != nil {
		sb.WriteString(fmt.Sprintf("Score:   %d/100 (%s)\n", *analysis.OverallScore, analysis.Level))
	} else {
		sb.WriteString("Score:   n/a (no requirements listed)\n")
	}
	sb.WriteString("\n")

	writeBucket(&sb, "Matching", analysis.MatchingSkills)
	writeBucket(&sb, "To advance", analysis.SkillsToAdvance)
	writeBucket(&sb, "Missing", analysis.MissingSkills)

	p.printBox("GAP ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// writeBucket appends one skill bucket, truncated past maxItemsToShow.
func writeBucket(sb *strings.Builder, label string, terms []types.SkillTerm) {
	if len(terms) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(terms), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", terms[i].Display))
	}
	if len(terms) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(terms)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintAttempts outputs the provider attempt timeline for a chain run.
func (p *Printer) PrintAttempts(attempts []types.ProviderAttempt) {
	if len(attempts) == 0 {
		return
	}

	var sb strings.Builder
	for i, attempt := range attempts {
		sb.WriteString(fmt.Sprintf("#%d  %s", i+1, attempt.Provider))
		if attempt.Model != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", attempt.Model))
		}
		sb.WriteString(fmt.Sprintf("\n    %s, %dms\n", attempt.Outcome, attempt.LatencyMS))
	}

	p.printBox("PROVIDER ATTEMPTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLearningPlan outputs the week-by-week curriculum.
func (p *Printer) PrintLearningPlan(plan *types.LearningPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Duration: %d week(s)\n\n", plan.DurationWeeks))

	for _, week := range plan.Weeks {
		sb.WriteString(fmt.Sprintf("Week %d: %s\n", week.Index, week.Focus))
		for _, topic := range week.Topics {
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", topic.Priority, topic.Name))
		}
		sb.WriteString("\n")
	}

	p.printBox("LEARNING PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStep prints a progress step marker for verbose mode.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStep(format string, args ...any) {
	fmt.Fprintf(p.out, "→ "+format+"\n", args...)
}
