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

// PostgresTurnRepository implements the TurnRepository interface using
// PostgreSQL
type PostgresTurnRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTurnRepository creates a new PostgresTurnRepository
func NewTurnRepository(config *RepositoryConfig) repositories.TurnRepository {
	return &PostgresTurnRepository{
		pool:   config.Pool,
		logger: config.Logger,
	}
}

// ListTurns retrieves a conversation's transcript in created_at order.
// The UUIDv7 id is the tiebreak for turns sharing a timestamp, so the
// order user turns and assistant turns were inserted in is preserved.
func (r *PostgresTurnRepository) ListTurns(ctx context.Context, conversationID string) ([]models.Turn, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM turns
		WHERE conversation_id = $1
		ORDER BY created_at, id
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var turn models.Turn
		if err := rows.Scan(&turn.ID, &turn.ConversationID, &turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	if turns == nil {
		turns = []models.Turn{}
	}

	return turns, nil
}

// CreateTurn inserts a new turn
func (r *PostgresTurnRepository) CreateTurn(ctx context.Context, turn *models.Turn) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate turn id: %w", err)
	}

	query := `
		INSERT INTO turns (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		id.String(),
		turn.ConversationID,
		turn.Role,
		turn.Content,
		time.Now().UTC(),
	).Scan(&turn.ID, &turn.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("conversation %s: %w", turn.ConversationID, domain.ErrNotFound)
		}
		return fmt.Errorf("create turn: %w", err)
	}

	return nil
}
