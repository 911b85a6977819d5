package handler

import (
	"log/slog"
	"net/http"

	"parley/internal/domain/services"
	"parley/internal/httputil"
)

// ConversationHandler handles conversation HTTP requests. Handlers only
// talk to the service layer, never to repositories.
type ConversationHandler struct {
	service services.ConversationService
	logger  *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(service services.ConversationService, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		logger:  logger,
	}
}

// Ask processes a question, persists the exchange, and returns the
// assistant turn.
// POST /api/search
func (h *ConversationHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req services.AskRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := h.service.Ask(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, turn)
}

// List retrieves all conversations for an owner. An owner with no
// conversations gets an empty list, not a 404.
// GET /api/chats/{owner}
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := PathParam(w, r, "owner", "owner ID")
	if !ok {
		return
	}

	convs, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, convs)
}

// Get retrieves one conversation with its transcript
// GET /api/chats/{owner}/title/{title}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := PathParam(w, r, "owner", "owner ID")
	if !ok {
		return
	}
	title, ok := PathParam(w, r, "title", "conversation title")
	if !ok {
		return
	}

	conv, err := h.service.Get(r.Context(), ownerID, title)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conv)
}

// Rename updates a conversation's title
// PATCH /api/chats/{owner}/title/{title}
func (h *ConversationHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := PathParam(w, r, "owner", "owner ID")
	if !ok {
		return
	}
	title, ok := PathParam(w, r, "title", "conversation title")
	if !ok {
		return
	}

	var req services.RenameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.service.Rename(r.Context(), ownerID, title, req.Title)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conv)
}

// Delete removes a conversation and all its turns
// DELETE /api/chats/{owner}/title/{title}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := PathParam(w, r, "owner", "owner ID")
	if !ok {
		return
	}
	title, ok := PathParam(w, r, "title", "conversation title")
	if !ok {
		return
	}

	report, err := h.service.Delete(r.Context(), ownerID, title)
	if err != nil {
		handleError(w, err)
		return
	}

	if !report.Success {
		httputil.RespondError(w, http.StatusInternalServerError, report.Message)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}
