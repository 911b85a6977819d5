package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"parley/internal/config"
	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/domain/repositories"
	"parley/internal/domain/services"
)

// Service implements the ConversationService interface. It sequences the
// three phases of a request - read, external call, write - and is the
// only component that composes repository operations into transactions.
type Service struct {
	convRepo repositories.ConversationRepository
	turnRepo repositories.TurnRepository
	tx       repositories.TransactionManager
	provider services.AnswerProvider
	logger   *slog.Logger
}

// NewService creates a new conversation service
func NewService(
	convRepo repositories.ConversationRepository,
	turnRepo repositories.TurnRepository,
	tx repositories.TransactionManager,
	provider services.AnswerProvider,
	logger *slog.Logger,
) services.ConversationService {
	return &Service{
		convRepo: convRepo,
		turnRepo: turnRepo,
		tx:       tx,
		provider: provider,
		logger:   logger,
	}
}

// Ask processes an incoming question.
//
// Read phase (no transaction): load the conversation and its transcript,
// or note that one must be created. External phase (no transaction): call
// the answer provider with the history plus the new user exchange; a
// failure here aborts before anything was written. Write phase: one
// transaction creates the conversation if needed and inserts the user
// and assistant turns, in that order.
func (s *Service) Ask(ctx context.Context, req *services.AskRequest) (*models.Turn, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validateAskRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	title := req.Title

	conv, err := s.convRepo.FindByOwnerAndTitle(ctx, req.OwnerID, title)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	history := []models.Exchange{}
	if conv != nil {
		turns, err := s.turnRepo.ListTurns(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		history = models.ExchangesFromTurns(turns)
	}
	history = append(history, models.Exchange{Role: models.RoleUser, Content: req.Question})

	// The provider call runs strictly between the read and write phases,
	// so no transaction or connection is held across its latency.
	answerText, err := s.provider.Answer(ctx, history)
	if err != nil {
		return nil, err
	}

	results, err := s.tx.ExecOps(ctx, []repositories.Operation{
		func(txCtx context.Context) (any, error) {
			if conv == nil {
				created := &models.Conversation{
					OwnerID: req.OwnerID,
					Title:   title,
				}
				if err := s.convRepo.CreateConversation(txCtx, created); err != nil {
					return nil, err
				}
				conv = created

				s.logger.Info("conversation created",
					"id", conv.ID,
					"owner_id", conv.OwnerID,
					"title", conv.Title,
				)
			}

			userTurn := &models.Turn{
				ConversationID: conv.ID,
				Role:           models.RoleUser,
				Content:        req.Question,
			}
			if err := s.turnRepo.CreateTurn(txCtx, userTurn); err != nil {
				return nil, err
			}

			assistantTurn := &models.Turn{
				ConversationID: conv.ID,
				Role:           models.RoleAssistant,
				Content:        answerText,
			}
			if err := s.turnRepo.CreateTurn(txCtx, assistantTurn); err != nil {
				return nil, err
			}

			return assistantTurn, nil
		},
	})
	if err != nil {
		return nil, err
	}

	assistantTurn := results[0].(*models.Turn)

	s.logger.Info("question answered",
		"conversation_id", assistantTurn.ConversationID,
		"turn_id", assistantTurn.ID,
		"owner_id", req.OwnerID,
	)

	return assistantTurn, nil
}

// Get retrieves one conversation with its transcript
func (s *Service) Get(ctx context.Context, ownerID, title string) (*models.ConversationWithTurns, error) {
	conv, err := s.convRepo.FindByOwnerAndTitle(ctx, ownerID, title)
	if err != nil {
		return nil, err
	}

	turns, err := s.turnRepo.ListTurns(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	return &models.ConversationWithTurns{Conversation: *conv, Turns: turns}, nil
}

// List retrieves all of an owner's conversations with transcripts.
// An owner with no conversations gets an empty slice, not an error.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.ConversationWithTurns, error) {
	convs, err := s.convRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := make([]models.ConversationWithTurns, 0, len(convs))
	for _, conv := range convs {
		turns, err := s.turnRepo.ListTurns(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.ConversationWithTurns{Conversation: conv, Turns: turns})
	}

	return result, nil
}

// Rename changes a conversation's title inside one transaction and
// returns the fresh projection. A missing conversation short-circuits
// with ErrNotFound before any write happens.
func (s *Service) Rename(ctx context.Context, ownerID, oldTitle, newTitle string) (*models.ConversationWithTurns, error) {
	newTitle = strings.TrimSpace(newTitle)
	if err := validation.Validate(newTitle, validation.Required, validation.Length(1, config.MaxTitleLength)); err != nil {
		return nil, fmt.Errorf("%w: new title: %v", domain.ErrValidation, err)
	}

	var result *models.ConversationWithTurns
	err := s.tx.ExecTx(ctx, func(txCtx context.Context) error {
		conv, err := s.convRepo.FindByOwnerAndTitle(txCtx, ownerID, oldTitle)
		if err != nil {
			return err
		}

		conv.Title = newTitle
		conv.UpdatedAt = time.Now().UTC()
		if err := s.convRepo.RenameConversation(txCtx, conv); err != nil {
			return err
		}

		turns, err := s.turnRepo.ListTurns(txCtx, conv.ID)
		if err != nil {
			return err
		}

		result = &models.ConversationWithTurns{Conversation: *conv, Turns: turns}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversation renamed",
		"id", result.ID,
		"owner_id", ownerID,
		"old_title", oldTitle,
		"new_title", newTitle,
	)

	return result, nil
}

// Delete removes a conversation and all its turns. The lookup is a pure
// read outside any transaction; the delete itself is one atomic unit. A
// delete that fails after the conversation was confirmed to exist rolls
// back and is reported, not raised.
func (s *Service) Delete(ctx context.Context, ownerID, title string) (*models.DeleteReport, error) {
	conv, err := s.convRepo.FindByOwnerAndTitle(ctx, ownerID, title)
	if err != nil {
		return nil, err
	}

	_, err = s.tx.ExecOps(ctx, []repositories.Operation{
		func(txCtx context.Context) (any, error) {
			return nil, s.convRepo.DeleteConversationWithTurns(txCtx, conv.ID)
		},
	})
	if err != nil {
		s.logger.Error("conversation delete failed",
			"id", conv.ID,
			"owner_id", ownerID,
			"error", err,
		)
		return &models.DeleteReport{
			Success: false,
			Message: fmt.Sprintf("failed to delete conversation %q for owner %q", title, ownerID),
		}, nil
	}

	return &models.DeleteReport{
		Success: true,
		Message: fmt.Sprintf("conversation %q for owner %q has been deleted", title, ownerID),
	}, nil
}

func (s *Service) validateAskRequest(req *services.AskRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Question,
			validation.Required,
			validation.Length(1, config.MaxQuestionLength),
		),
	)
}
