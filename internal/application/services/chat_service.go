package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/domain/providers"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/citypulse-concierge/pkg/errors"
)

// FallbackAnswer is returned (and cached) when the completion adapter
// produces no text. An empty answer must never reach the caller.
const FallbackAnswer = "Sorry, I couldn't come up with an answer just now. Mind asking that again in a moment?"

// ChatService runs the full response-serving pipeline: validate, embed,
// cache policy, retrieval, prompt assembly, completion, cache write.
type ChatService struct {
	embedder      providers.EmbeddingProvider
	completer     providers.CompletionProvider
	policy        *CachePolicyService
	retriever     *ContextService
	formatter     *ContextFormatter
	personas      *PersonaService
	defaultMarket string
	callTimeout   time.Duration
}

// NewChatService creates a new chat service
func NewChatService(
	embedder providers.EmbeddingProvider,
	completer providers.CompletionProvider,
	policy *CachePolicyService,
	retriever *ContextService,
	formatter *ContextFormatter,
	personas *PersonaService,
	defaultMarket string,
	callTimeout time.Duration,
) *ChatService {
	if callTimeout <= 0 {
		callTimeout = 12 * time.Second
	}
	return &ChatService{
		embedder:      embedder,
		completer:     completer,
		policy:        policy,
		retriever:     retriever,
		formatter:     formatter,
		personas:      personas,
		defaultMarket: defaultMarket,
		callTimeout:   callTimeout,
	}
}

// Answer serves one question end to end
func (s *ChatService) Answer(ctx context.Context, req *entities.ChatRequest) (*entities.ChatResponse, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, apperrors.NewValidationError("message is required and must be a non-empty string")
	}
	question := strings.TrimSpace(req.Message)
	market := req.MarketSlug
	if market == "" {
		market = s.defaultMarket
	}

	logger := observability.LoggerFromContext(ctx)

	embedCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	embedding, err := s.embedder.Embed(embedCtx, question)
	cancel()
	if err != nil {
		return nil, apperrors.NewExternalError("embedding service failed", err)
	}

	if !s.policy.Decide(ctx, question) {
		if entry := s.policy.Lookup(ctx, embedding); entry != nil {
			return &entities.ChatResponse{Answer: entry.Answer, Cached: true}, nil
		}
	}

	retrieved := s.retriever.Build(ctx, question, market)
	contextBlock := s.formatter.Format(retrieved)

	persona := s.personas.Resolve(market)
	systemPrompt := s.personas.BuildSystemPrompt(persona, retrieved.Now, contextBlock)

	completeCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	answer, err := s.completer.Complete(completeCtx, systemPrompt, question)
	cancel()
	if err != nil {
		return nil, apperrors.NewExternalError("completion service failed", err)
	}
	if strings.TrimSpace(answer) == "" {
		logger.Warn().Str("market", market).Msg("completion returned no text, using fallback answer")
		answer = FallbackAnswer
	}

	// The cache is a performance layer, not a correctness dependency:
	// write failures are logged and the answer is returned regardless.
	if err := s.policy.Store(ctx, question, embedding, answer); err != nil {
		logger.Error().Err(err).Msg("failed to write answer cache entry")
	}

	return &entities.ChatResponse{Answer: answer, Cached: false}, nil
}
