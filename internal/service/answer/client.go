package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"parley/internal/domain/models"
	"parley/internal/domain/services"
)

// fallbackAnswer stands in when the provider responds successfully but
// omits the answer field.
const fallbackAnswer = "No response"

// Config holds the provider endpoint and credential
type Config struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the smart-answer HTTP API. It is the only phase of an
// orchestrated request with an explicit timeout: the call is expected to
// be slow and must never run while a transaction is open.
type Client struct {
	http   *resty.Client
	apiURL string
	apiKey string
	logger *slog.Logger
}

type smartRequest struct {
	Messages []models.Exchange `json:"messages"`
}

type smartResponse struct {
	Answer string `json:"answer"`
}

// NewClient creates a new answer provider client
func NewClient(cfg Config, logger *slog.Logger) services.AnswerProvider {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:   httpClient,
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// Answer sends the ordered conversation history and returns the
// assistant's answer text, or one of the classified failures documented
// on services.AnswerProvider.
func (c *Client) Answer(ctx context.Context, history []models.Exchange) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	c.logger.Debug("calling answer provider", "messages", len(history))

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-API-Key", c.apiKey).
		SetBody(smartRequest{Messages: history}).
		Post(c.apiURL)

	if err != nil {
		// Timeouts land here too - the request never produced a response
		return "", &TransportError{Err: err}
	}

	if resp.IsError() {
		return "", &UpstreamError{
			Status: resp.StatusCode(),
			Body:   resp.String(),
		}
	}

	c.logger.Debug("answer provider responded", "status", resp.StatusCode())

	var result smartResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("decode answer response: %w", err)
	}

	if result.Answer == "" {
		return fallbackAnswer, nil
	}

	return result.Answer, nil
}
