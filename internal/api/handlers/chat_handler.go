package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/citypulse-concierge/pkg/errors"
)

const maxRequestBody = 8 * 1024

// ChatAnswerer defines the chat operation used by the handler.
type ChatAnswerer interface {
	Answer(ctx context.Context, req *entities.ChatRequest) (*entities.ChatResponse, error)
}

// ChatHandler handles conversational questions.
type ChatHandler struct {
	service ChatAnswerer
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service ChatAnswerer) *ChatHandler {
	return &ChatHandler{service: service}
}

// HandleChat handles POST /api/chat
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var payload entities.ChatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	resp, err := h.service.Answer(r.Context(), &payload)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// respondWithAppError maps service errors to HTTP statuses. Upstream failure
// detail is logged, never echoed to the client.
func (h *ChatHandler) respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	logger := observability.LoggerFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeExternal:
			logger.Error().Err(err).Msg("upstream service failure while answering chat")
			respondWithError(w, http.StatusBadGateway, "the assistant is temporarily unavailable")
			return
		}
	}

	logger.Error().Err(err).Msg("failed to answer chat request")
	respondWithError(w, http.StatusInternalServerError, "failed to answer question")
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
