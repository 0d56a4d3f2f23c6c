package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	apperrors "github.com/zatekoja/citypulse-concierge/pkg/errors"
)

type mockChatService struct {
	resp    *entities.ChatResponse
	err     error
	lastReq *entities.ChatRequest
}

func (m *mockChatService) Answer(ctx context.Context, req *entities.ChatRequest) (*entities.ChatResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func postChat(t *testing.T, handler *ChatHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.HandleChat(rr, req)
	return rr
}

func TestChatHandler_HandleChat(t *testing.T) {
	t.Run("returns the answer", func(t *testing.T) {
		svc := &mockChatService{resp: &entities.ChatResponse{Answer: "Try Via 313.", Cached: true}}
		handler := NewChatHandler(svc)

		rr := postChat(t, handler, []byte(`{"message":"best pizza?","marketSlug":"austin"}`))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp entities.ChatResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Try Via 313.", resp.Answer)
		assert.True(t, resp.Cached)
		require.NotNil(t, svc.lastReq)
		assert.Equal(t, "best pizza?", svc.lastReq.Message)
		assert.Equal(t, "austin", svc.lastReq.MarketSlug)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		handler := NewChatHandler(&mockChatService{})

		rr := postChat(t, handler, []byte(`{"message":`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("validation errors surface their message", func(t *testing.T) {
		svc := &mockChatService{err: apperrors.NewValidationError("message is required and must be a non-empty string")}
		handler := NewChatHandler(svc)

		rr := postChat(t, handler, []byte(`{"message":""}`))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "message is required")
	})

	t.Run("external failures map to bad gateway without detail", func(t *testing.T) {
		svc := &mockChatService{err: apperrors.NewExternalError("embedding service failed", assert.AnError)}
		handler := NewChatHandler(svc)

		rr := postChat(t, handler, []byte(`{"message":"best pizza?"}`))

		require.Equal(t, http.StatusBadGateway, rr.Code)
		assert.NotContains(t, rr.Body.String(), "embedding")
		assert.Contains(t, rr.Body.String(), "temporarily unavailable")
	})

	t.Run("unknown errors are internal", func(t *testing.T) {
		svc := &mockChatService{err: assert.AnError}
		handler := NewChatHandler(svc)

		rr := postChat(t, handler, []byte(`{"message":"best pizza?"}`))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		handler := NewChatHandler(&mockChatService{})

		big := bytes.Repeat([]byte("a"), maxRequestBody+1)
		body := []byte(`{"message":"` + string(big) + `"}`)
		rr := postChat(t, handler, body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
