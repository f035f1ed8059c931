package types

import "time"

// TurnRole identifies who produced a conversation turn.
type TurnRole string

// Turn roles.
const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// ConversationTurn is one message in a session's history. The sequence is
// append-only and owned exclusively by its session; trimming oldest-first is
// the only permitted mutation.
type ConversationTurn struct {
	Role      TurnRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	// Partial marks an assistant turn cut short by user cancellation.
	Partial bool `json:"partial,omitempty"`
}
