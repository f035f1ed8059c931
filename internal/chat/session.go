// Package chat runs an advisory conversation grounded in a completed gap
// analysis. A session owns its history and serializes questions: at most one
// question is in flight at a time.
package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skillgap/internal/llm"
	"github.com/jonathan/skillgap/internal/prompts"
	"github.com/jonathan/skillgap/internal/types"
)

// DefaultHistoryBudget is how many recent turns accompany each question.
// Older turns are dropped from the prompt but stay in the session history.
const DefaultHistoryBudget = 5

// suggestionsPrefix marks the trailing follow-up suggestions line the
// advisor prompt asks for.
const suggestionsPrefix = "SUGGESTIONS:"

var (
	// ErrBusy is returned synchronously when a question arrives while a
	// previous one is still streaming.
	ErrBusy = errors.New("a question is already in flight")
	// ErrCancelled is returned when the user cancels an in-flight question.
	// The partial answer, if any, is preserved in the history.
	ErrCancelled = errors.New("question cancelled")
)

// StreamRunner streams a prompt through the provider chain. *llm.Chain
// satisfies this.
type StreamRunner interface {
	RunStream(ctx context.Context, prompt string, opts *llm.RequestOptions, emit llm.ChunkFunc) (string, []types.ProviderAttempt, error)
}

// Session is one advisory conversation over a single gap analysis. Safe for
// concurrent use; concurrent Ask calls beyond the first are rejected with
// ErrBusy rather than queued.
type Session struct {
	id            string
	analysis      *types.GapAnalysis
	runner        StreamRunner
	opts          *llm.RequestOptions
	historyBudget int

	mu          sync.Mutex
	busy        bool
	cancelAsk   context.CancelFunc
	turns       []types.ConversationTurn
	suggestions []string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHistoryBudget overrides how many recent turns are sent with each
// question. Values below 1 keep the default.
func WithHistoryBudget(n int) SessionOption {
	return func(s *Session) {
		if n >= 1 {
			s.historyBudget = n
		}
	}
}

// WithSessionRequestOptions overrides the completion options for this session.
func WithSessionRequestOptions(opts *llm.RequestOptions) SessionOption {
	return func(s *Session) {
		if opts != nil {
			s.opts = opts
		}
	}
}

// NewSession starts a conversation grounded in analysis.
func NewSession(analysis *types.GapAnalysis, runner StreamRunner, opts ...SessionOption) (*Session, error) {
	if analysis == nil {
		return nil, errors.New("a gap analysis is required to start a session")
	}
	if runner == nil {
		return nil, errors.New("a provider runner is required to start a session")
	}
	s := &Session{
		id:            uuid.NewString(),
		analysis:      analysis,
		runner:        runner,
		opts:          llm.DefaultRequestOptions(),
		historyBudget: DefaultHistoryBudget,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// History returns a copy of the conversation so far.
func (s *Session) History() []types.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Suggestions returns the follow-up questions offered with the last answer.
func (s *Session) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Cancel stops the in-flight question, if any. The partial answer streamed so
// far is preserved in the history as a terminal turn.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancelAsk
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Ask submits a question and streams the answer through emit (which may be
// nil). It returns the completed assistant turn. If another question is
// already in flight it fails immediately with ErrBusy; it never queues.
func (s *Session) Ask(ctx context.Context, question string, emit llm.ChunkFunc) (*types.ConversationTurn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question must not be empty")
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	askCtx, cancel := context.WithCancel(ctx)
	s.busy = true
	s.cancelAsk = cancel
	prompt := s.buildPromptLocked(question)
	s.turns = append(s.turns, types.ConversationTurn{
		Role:      types.RoleUser,
		Content:   question,
		CreatedAt: time.Now().UTC(),
	})
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.busy = false
		s.cancelAsk = nil
		s.mu.Unlock()
	}()

	text, _, err := s.runner.RunStream(askCtx, prompt, s.opts, func(chunk string) error {
		if emit != nil {
			return emit(chunk)
		}
		return nil
	})

	if err != nil {
		cancelled := errors.Is(err, context.Canceled)
		answer, _ := splitSuggestions(text)

		s.mu.Lock()
		if answer != "" {
			turn := types.ConversationTurn{
				Role:      types.RoleAssistant,
				Content:   answer,
				CreatedAt: time.Now().UTC(),
				Partial:   true,
			}
			s.turns = append(s.turns, turn)
		}
		s.mu.Unlock()

		if cancelled {
			return nil, ErrCancelled
		}
		return nil, err
	}

	answer, suggestions := splitSuggestions(text)
	turn := types.ConversationTurn{
		Role:      types.RoleAssistant,
		Content:   answer,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.suggestions = suggestions
	s.mu.Unlock()

	return &turn, nil
}

// buildPromptLocked assembles the system context, the trimmed history, and
// the new question. Caller holds s.mu.
func (s *Session) buildPromptLocked(question string) string {
	system := prompts.Format(prompts.MustGet("chat.json", "advisor_system"), map[string]string{
		"JobTitle":  orDash(s.analysis.JobTitle),
		"Score":     scoreString(s.analysis.OverallScore),
		"Level":     orDash(string(s.analysis.Level)),
		"Summary":   s.analysis.Summary,
		"Matching":  termList(s.analysis.MatchingSkills),
		"Missing":   termList(s.analysis.MissingSkills),
		"ToAdvance": termList(s.analysis.SkillsToAdvance),
	})

	turnTemplate := prompts.MustGet("chat.json", "history_turn")
	var sb strings.Builder
	sb.WriteString(system)
	sb.WriteString("\n\n")

	history := s.turns
	if len(history) > s.historyBudget {
		history = history[len(history)-s.historyBudget:]
	}
	for _, turn := range history {
		sb.WriteString(prompts.Format(turnTemplate, map[string]string{
			"Role":    string(turn.Role),
			"Content": turn.Content,
		}))
		sb.WriteString("\n")
	}

	sb.WriteString(prompts.Format(turnTemplate, map[string]string{
		"Role":    string(types.RoleUser),
		"Content": question,
	}))
	return sb.String()
}

// splitSuggestions separates the answer body from the trailing
// "SUGGESTIONS:" line, if the model produced one.
func splitSuggestions(text string) (string, []string) {
	idx := strings.LastIndex(text, suggestionsPrefix)
	if idx < 0 {
		return strings.TrimSpace(text), nil
	}
	answer := strings.TrimSpace(text[:idx])
	rest := strings.TrimSpace(text[idx+len(suggestionsPrefix):])
	if rest == "" {
		return answer, nil
	}

	var suggestions []string
	for _, part := range strings.Split(rest, "|") {
		if part = strings.TrimSpace(part); part != "" {
			suggestions = append(suggestions, part)
		}
	}
	return answer, suggestions
}

func termList(terms []types.SkillTerm) string {
	if len(terms) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(terms))
	for _, term := range terms {
		names = append(names, term.Display)
	}
	return strings.Join(names, ", ")
}

func scoreString(score *int) string {
	if score == nil {
		return "n/a"
	}
	return strconv.Itoa(*score)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
