package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"parley/internal/domain"
	"parley/internal/domain/models"
	"parley/internal/domain/services"
	"parley/internal/service/answer"
)

// stubService returns canned results per method
type stubService struct {
	askTurn    *models.Turn
	askErr     error
	getConv    *models.ConversationWithTurns
	getErr     error
	listConvs  []models.ConversationWithTurns
	listErr    error
	renameConv *models.ConversationWithTurns
	renameErr  error
	report     *models.DeleteReport
	deleteErr  error
}

func (s *stubService) Ask(ctx context.Context, req *services.AskRequest) (*models.Turn, error) {
	return s.askTurn, s.askErr
}

func (s *stubService) Get(ctx context.Context, ownerID, title string) (*models.ConversationWithTurns, error) {
	return s.getConv, s.getErr
}

func (s *stubService) List(ctx context.Context, ownerID string) ([]models.ConversationWithTurns, error) {
	return s.listConvs, s.listErr
}

func (s *stubService) Rename(ctx context.Context, ownerID, oldTitle, newTitle string) (*models.ConversationWithTurns, error) {
	return s.renameConv, s.renameErr
}

func (s *stubService) Delete(ctx context.Context, ownerID, title string) (*models.DeleteReport, error) {
	return s.report, s.deleteErr
}

func newTestMux(svc services.ConversationService) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	h := NewConversationHandler(svc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/search", h.Ask)
	mux.HandleFunc("GET /api/chats/{owner}", h.List)
	mux.HandleFunc("GET /api/chats/{owner}/title/{title}", h.Get)
	mux.HandleFunc("PATCH /api/chats/{owner}/title/{title}", h.Rename)
	mux.HandleFunc("DELETE /api/chats/{owner}/title/{title}", h.Delete)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAsk_ReturnsAssistantTurn(t *testing.T) {
	svc := &stubService{
		askTurn: &models.Turn{
			ID:             "turn-2",
			ConversationID: "conv-1",
			Role:           models.RoleAssistant,
			Content:        "spring",
		},
	}
	mux := newTestMux(svc)

	rec := doRequest(t, mux, http.MethodPost, "/api/search",
		`{"user_id":"alice","chat_title":"trip planning","question":"best time to visit Japan?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var turn models.Turn
	if err := json.Unmarshal(rec.Body.Bytes(), &turn); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if turn.Role != models.RoleAssistant || turn.Content != "spring" {
		t.Errorf("unexpected turn: %+v", turn)
	}
}

func TestAsk_InvalidBodyIs400(t *testing.T) {
	mux := newTestMux(&stubService{})

	rec := doRequest(t, mux, http.MethodPost, "/api/search", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: question required", domain.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("conversation: %w", domain.ErrNotFound), http.StatusNotFound},
		{"conflict", &domain.ConflictError{Message: "title taken"}, http.StatusConflict},
		{"not configured", answer.ErrNotConfigured, http.StatusInternalServerError},
		{"upstream", &answer.UpstreamError{Status: 500, Body: "boom"}, http.StatusServiceUnavailable},
		{"transport", &answer.TransportError{Err: fmt.Errorf("dial tcp: refused")}, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("something odd"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestMux(&stubService{askErr: tt.err})
			rec := doRequest(t, mux, http.MethodPost, "/api/search",
				`{"user_id":"alice","chat_title":"t","question":"q"}`)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("expected problem+json, got %q", ct)
			}
		})
	}
}

func TestList_EmptyIs200(t *testing.T) {
	mux := newTestMux(&stubService{listConvs: []models.ConversationWithTurns{}})

	rec := doRequest(t, mux, http.MethodGet, "/api/chats/alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestGet_NotFoundIs404(t *testing.T) {
	mux := newTestMux(&stubService{getErr: fmt.Errorf("conversation: %w", domain.ErrNotFound)})

	rec := doRequest(t, mux, http.MethodGet, "/api/chats/alice/title/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGet_TitleWithSpaces(t *testing.T) {
	svc := &stubService{
		getConv: &models.ConversationWithTurns{
			Conversation: models.Conversation{ID: "conv-1", OwnerID: "alice", Title: "trip planning"},
			Turns:        []models.Turn{},
		},
	}
	mux := newTestMux(svc)

	rec := doRequest(t, mux, http.MethodGet, "/api/chats/alice/title/trip%20planning", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRename_ReturnsProjection(t *testing.T) {
	svc := &stubService{
		renameConv: &models.ConversationWithTurns{
			Conversation: models.Conversation{ID: "conv-1", OwnerID: "alice", Title: "Japan Trip"},
			Turns:        []models.Turn{{ID: "turn-1", Role: models.RoleUser, Content: "hi"}},
		},
	}
	mux := newTestMux(svc)

	rec := doRequest(t, mux, http.MethodPatch, "/api/chats/alice/title/trip%20planning",
		`{"chat_title":"Japan Trip"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var conv models.ConversationWithTurns
	if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if conv.Title != "Japan Trip" || len(conv.Turns) != 1 {
		t.Errorf("unexpected projection: %+v", conv)
	}
}

func TestDelete_SuccessReport(t *testing.T) {
	mux := newTestMux(&stubService{
		report: &models.DeleteReport{Success: true, Message: "deleted"},
	})

	rec := doRequest(t, mux, http.MethodDelete, "/api/chats/alice/title/Japan%20Trip", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var report models.DeleteReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !report.Success {
		t.Errorf("expected success report, got %+v", report)
	}
}

func TestDelete_FailureReportIs500(t *testing.T) {
	mux := newTestMux(&stubService{
		report: &models.DeleteReport{Success: false, Message: "failed to delete"},
	})

	rec := doRequest(t, mux, http.MethodDelete, "/api/chats/alice/title/Japan%20Trip", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
