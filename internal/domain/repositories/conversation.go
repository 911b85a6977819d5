package repositories

import (
	"context"

	"parley/internal/domain/models"
)

// ConversationRepository defines the interface for conversation data access
type ConversationRepository interface {
	// FindByOwnerAndTitle retrieves one conversation by its de-facto
	// lookup key. Returns domain.ErrNotFound if absent.
	FindByOwnerAndTitle(ctx context.Context, ownerID, title string) (*models.Conversation, error)

	// ListByOwner retrieves all conversations for an owner, oldest first.
	// Returns an empty slice (not an error) when the owner has none.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Conversation, error)

	// CreateConversation inserts a new conversation and populates its
	// identity and timestamps. If another writer created the same
	// (owner, title) first, the existing row is adopted instead and no
	// duplicate is inserted.
	CreateConversation(ctx context.Context, conv *models.Conversation) error

	// RenameConversation updates title and updated_at only.
	// Returns domain.ErrNotFound if the conversation no longer exists,
	// domain.ErrConflict if the new title is already taken for the owner.
	RenameConversation(ctx context.Context, conv *models.Conversation) error

	// DeleteConversationWithTurns deletes the conversation and all of its
	// turns as one indivisible unit. It must run inside an active
	// transaction and returns domain.ErrTxRequired otherwise - a partial
	// delete would orphan turns, so the precondition fails loudly.
	DeleteConversationWithTurns(ctx context.Context, conversationID string) error
}

// TurnRepository defines the interface for turn data access
type TurnRepository interface {
	// ListTurns retrieves a conversation's transcript, ascending by
	// created_at. Returns an empty slice for an empty transcript.
	ListTurns(ctx context.Context, conversationID string) ([]models.Turn, error)

	// CreateTurn inserts a new turn and populates its identity and
	// created_at. Returns domain.ErrNotFound if the conversation is gone.
	CreateTurn(ctx context.Context, turn *models.Turn) error
}
