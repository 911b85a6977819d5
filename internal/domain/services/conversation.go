package services

import (
	"context"

	"parley/internal/domain/models"
)

// AskRequest carries one incoming question for an (owner, title) pair.
// The title names either an existing conversation or one to be created
// on first successful persistence.
type AskRequest struct {
	OwnerID  string `json:"user_id"`
	Title    string `json:"chat_title"`
	Question string `json:"question"`
}

// RenameRequest carries the new title for an existing conversation.
type RenameRequest struct {
	Title string `json:"chat_title"`
}

// ConversationService sequences the read, external-call, and write phases
// for conversation operations. Implementations guarantee that an error
// implies no partial state: external-call failures happen before any
// write, and write-phase failures roll back completely.
type ConversationService interface {
	// Ask processes a question: loads history, obtains an answer from the
	// provider, and persists the user and assistant turns (creating the
	// conversation first if needed) in one transaction. Returns the
	// persisted assistant turn.
	Ask(ctx context.Context, req *AskRequest) (*models.Turn, error)

	// Get retrieves one conversation with its transcript.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, ownerID, title string) (*models.ConversationWithTurns, error)

	// List retrieves all of an owner's conversations with transcripts.
	// An owner with no conversations gets an empty slice, not an error.
	List(ctx context.Context, ownerID string) ([]models.ConversationWithTurns, error)

	// Rename changes a conversation's title and returns the fresh
	// projection. Returns domain.ErrNotFound if absent, with no side
	// effects.
	Rename(ctx context.Context, ownerID, oldTitle, newTitle string) (*models.ConversationWithTurns, error)

	// Delete removes a conversation and all its turns atomically.
	// Returns domain.ErrNotFound if absent; a delete that fails after the
	// conversation was confirmed to exist is reported in the DeleteReport,
	// not raised.
	Delete(ctx context.Context, ownerID, title string) (*models.DeleteReport, error)
}
