// Package plan turns a gap analysis into a week-by-week learning plan.
// Generation is deterministic: the same analysis and duration always produce
// the same curriculum, so plans are cached per analysis and rebuilt only on
// request.
package plan

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skillgap/internal/types"
)

// DefaultDurationWeeks is the plan length when the caller does not choose one.
const DefaultDurationWeeks = 4

// skillCategory selects the resource templates for a skill.
type skillCategory string

const (
	categoryFrontend skillCategory = "frontend"
	categoryBackend  skillCategory = "backend"
	categoryDevOps   skillCategory = "devops"
	categoryDatabase skillCategory = "database"
	categoryData     skillCategory = "data"
	categoryGeneral  skillCategory = "general"
)

// categoryKeywords maps canonical-name fragments to a category. First match
// wins in the listed order.
var categoryKeywords = []struct {
	category skillCategory
	terms    []string
}{
	{categoryDevOps, []string{"docker", "kubernetes", "terraform", "ci/cd", "jenkins", "ansible", "aws", "azure", "gcp", "devops", "linux"}},
	{categoryDatabase, []string{"sql", "postgres", "mysql", "mongodb", "redis", "database", "dynamodb", "elasticsearch"}},
	{categoryData, []string{"machine learning", "data", "pandas", "numpy", "tensorflow", "pytorch", "spark", "analytics"}},
	{categoryFrontend, []string{"react", "vue", "angular", "css", "html", "frontend", "tailwind", "next.js", "svelte"}},
	{categoryBackend, []string{"go", "java", "python", "node.js", "express.js", "ruby", "php", "c#", "rust", "api", "graphql", "grpc", "spring", "django", "flask"}},
}

// resourceTemplates lists the resources suggested for a topic, by category.
// %s is the skill's display name.
var resourceTemplates = map[skillCategory][]types.Resource{
	categoryFrontend: {
		{Title: "Official %s documentation and tutorial", Kind: "documentation"},
		{Title: "Build a small interactive UI with %s", Kind: "project"},
		{Title: "%s component patterns exercises", Kind: "practice"},
	},
	categoryBackend: {
		{Title: "Official %s documentation", Kind: "documentation"},
		{Title: "Build and deploy a small API with %s", Kind: "project"},
		{Title: "%s coding exercises", Kind: "practice"},
	},
	categoryDevOps: {
		{Title: "Official %s getting-started guide", Kind: "documentation"},
		{Title: "Containerize or provision a project with %s", Kind: "project"},
		{Title: "Hands-on %s labs", Kind: "practice"},
	},
	categoryDatabase: {
		{Title: "%s fundamentals and query reference", Kind: "documentation"},
		{Title: "Model and query a sample dataset in %s", Kind: "project"},
		{Title: "%s query optimization exercises", Kind: "practice"},
	},
	categoryData: {
		{Title: "Introductory %s course", Kind: "course"},
		{Title: "Analyze a public dataset using %s", Kind: "project"},
		{Title: "%s practice notebooks", Kind: "practice"},
	},
	categoryGeneral: {
		{Title: "Introductory %s course or guide", Kind: "course"},
		{Title: "Apply %s in a small portfolio project", Kind: "project"},
	},
}

// focusLabels names a week by the dominant priority of its topics.
var focusLabels = map[types.TopicPriority]string{
	types.PriorityCritical:   "Close critical gaps",
	types.PriorityImportant:  "Deepen existing skills",
	types.PriorityNiceToHave: "Polish and portfolio work",
}

// Generator builds and caches learning plans. Safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	cache map[string]*types.LearningPlan // analysis ID -> latest plan
}

// NewGenerator creates a Generator with an empty cache.
func NewGenerator() *Generator {
	return &Generator{cache: make(map[string]*types.LearningPlan)}
}

// Generate returns the learning plan for an analysis. A cached plan for the
// same analysis is returned as-is unless force is set, in which case a fresh
// plan replaces it atomically. durationWeeks below 1 is rejected; 0 selects
// the default.
func (g *Generator) Generate(analysis *types.GapAnalysis, durationWeeks int, force bool) (*types.LearningPlan, error) {
	if analysis == nil {
		return nil, fmt.Errorf("a gap analysis is required to generate a plan")
	}
	if durationWeeks == 0 {
		durationWeeks = DefaultDurationWeeks
	}
	if durationWeeks < 1 {
		return nil, fmt.Errorf("plan duration must be at least 1 week, got %d", durationWeeks)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if cached, ok := g.cache[analysis.ID]; ok && !force && cached.DurationWeeks == durationWeeks {
		return cached, nil
	}

	plan := build(analysis, durationWeeks)
	g.cache[analysis.ID] = plan
	return plan, nil
}

// Cached returns the cached plan for an analysis, if one exists.
func (g *Generator) Cached(analysisID string) (*types.LearningPlan, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	plan, ok := g.cache[analysisID]
	return plan, ok
}

// build assembles the curriculum. Topics are ordered critical first, then
// important, then nice-to-have, and dealt across weeks round-robin so early
// weeks carry the most urgent work.
func build(analysis *types.GapAnalysis, durationWeeks int) *types.LearningPlan {
	topics := collectTopics(analysis)

	weeks := make([]types.WeekPlan, durationWeeks)
	for i := range weeks {
		weeks[i].Index = i + 1
	}
	for i, topic := range topics {
		week := &weeks[i%durationWeeks]
		week.Topics = append(week.Topics, topic)
	}
	for i := range weeks {
		weeks[i].Focus = focusFor(weeks[i].Topics)
	}

	return &types.LearningPlan{
		ID:            uuid.NewString(),
		AnalysisID:    analysis.ID,
		DurationWeeks: durationWeeks,
		Weeks:         weeks,
		GeneratedAt:   time.Now().UTC(),
	}
}

// collectTopics lists study topics in priority order: every missing skill is
// critical, every shallow skill important, and depth work on matched skills
// fills out the tail as nice-to-have.
func collectTopics(analysis *types.GapAnalysis) []types.Topic {
	var topics []types.Topic

	for i := range analysis.MissingSkills {
		skill := analysis.MissingSkills[i]
		topics = append(topics, types.Topic{
			Name:         "Learn " + skill.Display,
			RelatedSkill: &skill,
			Priority:     types.PriorityCritical,
			Resources:    resourcesFor(skill),
		})
	}
	for i := range analysis.SkillsToAdvance {
		skill := analysis.SkillsToAdvance[i]
		topics = append(topics, types.Topic{
			Name:         "Advance " + skill.Display,
			RelatedSkill: &skill,
			Priority:     types.PriorityImportant,
			Resources:    resourcesFor(skill),
		})
	}
	for i := range analysis.MatchingSkills {
		skill := analysis.MatchingSkills[i]
		topics = append(topics, types.Topic{
			Name:         "Showcase " + skill.Display + " in a portfolio piece",
			RelatedSkill: &skill,
			Priority:     types.PriorityNiceToHave,
			Resources:    resourceTail(skill),
		})
	}

	if len(topics) == 0 {
		topics = append(topics, types.Topic{
			Name:     "Review the job description and strengthen your application materials",
			Priority: types.PriorityNiceToHave,
		})
	}
	return topics
}

// resourcesFor instantiates the category's resource templates for a skill.
func resourcesFor(skill types.SkillTerm) []types.Resource {
	templates := resourceTemplates[categorize(skill)]
	resources := make([]types.Resource, 0, len(templates))
	for _, tmpl := range templates {
		resources = append(resources, types.Resource{
			Title: fmt.Sprintf(tmpl.Title, skill.Display),
			Kind:  tmpl.Kind,
		})
	}
	return resources
}

// resourceTail suggests only the project-style resource for skills the
// candidate already has.
func resourceTail(skill types.SkillTerm) []types.Resource {
	for _, tmpl := range resourceTemplates[categorize(skill)] {
		if tmpl.Kind == "project" {
			return []types.Resource{{
				Title: fmt.Sprintf(tmpl.Title, skill.Display),
				Kind:  tmpl.Kind,
			}}
		}
	}
	return nil
}

// categorize picks the resource category for a skill by canonical-name
// keyword.
func categorize(skill types.SkillTerm) skillCategory {
	name := skill.Canonical
	for _, entry := range categoryKeywords {
		for _, term := range entry.terms {
			if name == term || strings.Contains(name, term) {
				return entry.category
			}
		}
	}
	return categoryGeneral
}

// focusFor labels a week by the highest priority present among its topics.
func focusFor(topics []types.Topic) string {
	if len(topics) == 0 {
		return "Buffer week: review and consolidate"
	}
	best := types.PriorityNiceToHave
	for _, topic := range topics {
		switch topic.Priority {
		case types.PriorityCritical:
			best = types.PriorityCritical
		case types.PriorityImportant:
			if best != types.PriorityCritical {
				best = types.PriorityImportant
			}
		}
	}
	return focusLabels[best]
}
