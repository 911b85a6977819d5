package models

import "time"

// Conversation represents a named, owned collection of ordered turns.
// It is the unit of rename and delete; its turns are owned exclusively
// by it and never outlive it.
type Conversation struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"user_id" db:"owner_id"`
	Title     string    `json:"chat_title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ConversationWithTurns is the read projection returned by lookups:
// the conversation plus its transcript in created_at order.
type ConversationWithTurns struct {
	Conversation
	Turns []Turn `json:"messages"`
}

// DeleteReport is the structured outcome of a delete request. A failed
// delete after the conversation was confirmed to exist is reported here,
// not raised, so callers can map it to their own signaling.
type DeleteReport struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
