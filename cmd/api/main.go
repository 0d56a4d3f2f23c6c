package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zatekoja/citypulse-concierge/internal/adapters/cache"
	"github.com/zatekoja/citypulse-concierge/internal/adapters/database"
	"github.com/zatekoja/citypulse-concierge/internal/api/handlers"
	"github.com/zatekoja/citypulse-concierge/internal/api/routes"
	"github.com/zatekoja/citypulse-concierge/internal/application/services"
	"github.com/zatekoja/citypulse-concierge/internal/domain/providers"
	"github.com/zatekoja/citypulse-concierge/internal/domain/repositories"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/openai"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/clients/redis"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/observability"
	"github.com/zatekoja/citypulse-concierge/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("ENVIRONMENT"))
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client; the service runs without it, just uncached
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client, continuing without read cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized")
	}

	// Initialize OpenAI client
	aiClient, err := openai.NewClient(&cfg.OpenAI, cfg.Assistant.MaxAnswerTokens)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize OpenAI client")
	}

	// Initialize adapters
	var venueRepo repositories.VenueRepository = database.NewVenueAdapter(pgClient)
	if cacheProvider != nil {
		venueRepo = database.NewCachedVenueAdapter(venueRepo, cacheProvider)
		logger.Info().Msg("venue adapter wrapped with caching layer")
	}
	offerRepo := database.NewOfferAdapter(pgClient)
	menuRepo := database.NewMenuAdapter(pgClient)
	voteRepo := database.NewVoteAdapter(pgClient)
	answerCacheRepo := database.NewAnswerCacheAdapter(pgClient)

	// Initialize services
	intentService, err := services.NewIntentService(services.DefaultMarkers(), cfg.Assistant.BusinessTimezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid business timezone")
	}

	policyService := services.NewCachePolicyService(answerCacheRepo, intentService, cfg.Assistant.SimilarityThreshold, metrics)
	contextService := services.NewContextService(venueRepo, offerRepo, menuRepo, voteRepo, intentService, 10*time.Second)
	chatService := services.NewChatService(
		aiClient,
		aiClient,
		policyService,
		contextService,
		services.NewContextFormatter(),
		services.NewPersonaService(cfg.Assistant.DefaultMarket),
		cfg.Assistant.DefaultMarket,
		time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second,
	)

	// Initialize handlers and routes
	chatHandler := handlers.NewChatHandler(chatService)
	router := routes.NewRouter(chatHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
