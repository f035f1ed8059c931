package types

import "time"

// TopicPriority ranks how urgently a topic should be studied.
type TopicPriority string

// Topic priorities. Missing skills are critical, shallow skills important,
// depth/portfolio work nice-to-have.
const (
	PriorityCritical   TopicPriority = "critical"
	PriorityImportant  TopicPriority = "important"
	PriorityNiceToHave TopicPriority = "nice_to_have"
)

// Resource is one learning resource suggestion for a topic.
type Resource struct {
	Title string `json:"title"`
	Kind  string `json:"kind"` // documentation, course, practice, project
}

// Topic is a single study item within a week.
type Topic struct {
	Name         string        `json:"name"`
	RelatedSkill *SkillTerm    `json:"related_skill,omitempty"`
	Priority     TopicPriority `json:"priority"`
	Resources    []Resource    `json:"resources,omitempty"`
}

// WeekPlan is one week of the curriculum.
type WeekPlan struct {
	Index  int     `json:"index"` // 1-based
	Focus  string  `json:"focus"`
	Topics []Topic `json:"topics"`
}

// LearningPlan is a dated, week-by-week curriculum built from a GapAnalysis.
// Plans are immutable; regeneration replaces the whole object.
type LearningPlan struct {
	ID            string     `json:"id"`
	AnalysisID    string     `json:"analysis_id,omitempty"`
	DurationWeeks int        `json:"duration_weeks"`
	Weeks         []WeekPlan `json:"weeks"`
	GeneratedAt   time.Time  `json:"generated_at"`
}
