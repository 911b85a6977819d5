package models

import "time"

// Turn roles. A transcript alternates user and assistant turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn represents a single message within a conversation. Turns are
// immutable once created and are destroyed only when their conversation
// is deleted.
type Turn struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"chat_id" db:"conversation_id"`
	Role           string    `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Exchange is the {role, content} pair sent to the answer provider.
type Exchange struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ExchangesFromTurns projects a transcript to the history format the
// answer provider expects. Returns an empty slice for an empty transcript.
func ExchangesFromTurns(turns []Turn) []Exchange {
	exchanges := make([]Exchange, 0, len(turns))
	for _, turn := range turns {
		exchanges = append(exchanges, Exchange{Role: turn.Role, Content: turn.Content})
	}
	return exchanges
}
