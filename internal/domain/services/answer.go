package services

import (
	"context"

	"parley/internal/domain/models"
)

// AnswerProvider is the outbound dependency producing assistant answers
// from ordered conversation history. It is long-latency: callers must
// never invoke it while holding an open transaction.
//
// Failures are classified by the implementation: answer.ErrNotConfigured
// when no credential is available, *answer.UpstreamError for non-success
// responses, *answer.TransportError for network failures and timeouts.
type AnswerProvider interface {
	Answer(ctx context.Context, history []models.Exchange) (string, error)
}
