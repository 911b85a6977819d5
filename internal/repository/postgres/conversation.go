package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/domain/repositories"
)

// PostgresConversationRepository implements the ConversationRepository
// interface using PostgreSQL
type PostgresConversationRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewConversationRepository creates a new PostgresConversationRepository
func NewConversationRepository(config *RepositoryConfig) repositories.ConversationRepository {
	return &PostgresConversationRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// FindByOwnerAndTitle retrieves one conversation by (owner, title).
// The unique index on (owner_id, title) makes the result deterministic.
func (r *PostgresConversationRepository) FindByOwnerAndTitle(ctx context.Context, ownerID, title string) (*models.Conversation, error) {
	query := `
		SELECT id, owner_id, title, created_at, updated_at
		FROM conversations
		WHERE owner_id = $1 AND title = $2
	`

	var conv models.Conversation
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, ownerID, title).Scan(
		&conv.ID,
		&conv.OwnerID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("conversation %q for owner %q: %w", title, ownerID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}

	return &conv, nil
}

// ListByOwner retrieves all conversations for an owner, oldest first
func (r *PostgresConversationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Conversation, error) {
	query := `
		SELECT id, owner_id, title, created_at, updated_at
		FROM conversations
		WHERE owner_id = $1
		ORDER BY created_at, id
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.OwnerID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	// Empty result is not an error
	if convs == nil {
		convs = []models.Conversation{}
	}

	return convs, nil
}

// CreateConversation inserts a new conversation. ON CONFLICT DO NOTHING
// keeps concurrent first-time requests for the same (owner, title) from
// inserting duplicates: the loser of the race blocks until the winner
// commits, inserts nothing, and adopts the winner's row.
func (r *PostgresConversationRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate conversation id: %w", err)
	}

	query := `
		INSERT INTO conversations (id, owner_id, title)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, title) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, id.String(), conv.OwnerID, conv.Title).Scan(
		&conv.ID,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if err != nil {
		if !IsPgNoRowsError(err) {
			return fmt.Errorf("create conversation: %w", err)
		}

		// Someone else created it first - re-fetch through the same executor
		existing, findErr := r.FindByOwnerAndTitle(ctx, conv.OwnerID, conv.Title)
		if findErr != nil {
			return fmt.Errorf("adopt existing conversation: %w", findErr)
		}
		*conv = *existing

		r.logger.Debug("adopted existing conversation after insert race",
			"id", conv.ID,
			"owner_id", conv.OwnerID,
		)
	}

	return nil
}

// RenameConversation updates title and updated_at only
func (r *PostgresConversationRepository) RenameConversation(ctx context.Context, conv *models.Conversation) error {
	query := `
		UPDATE conversations
		SET title = $1, updated_at = $2
		WHERE id = $3
		RETURNING updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, conv.Title, time.Now().UTC(), conv.ID).Scan(&conv.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("conversation %s: %w", conv.ID, domain.ErrNotFound)
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("conversation %q already exists for owner %q", conv.Title, conv.OwnerID),
				ResourceType: "conversation",
			}
		}
		return fmt.Errorf("rename conversation: %w", err)
	}

	return nil
}

// DeleteConversationWithTurns deletes all turns for a conversation,
// followed by the conversation itself. Both statements must run inside
// the caller's transaction; invoking this without one is a contract
// violation and fails before touching either table.
func (r *PostgresConversationRepository) DeleteConversationWithTurns(ctx context.Context, conversationID string) error {
	tx := repositories.GetTx(ctx)
	if tx == nil {
		return fmt.Errorf("delete conversation %s: %w", conversationID, domain.ErrTxRequired)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM turns WHERE conversation_id = $1`, conversationID); err != nil {
		return fmt.Errorf("delete turns for conversation %s: %w", conversationID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, conversationID); err != nil {
		return fmt.Errorf("delete conversation %s: %w", conversationID, err)
	}

	r.logger.Info("conversation deleted with turns", "id", conversationID)

	return nil
}
