package routes

import (
	"net/http"

	"github.com/zatekoja/citypulse-concierge/internal/api/handlers"
	"github.com/zatekoja/citypulse-concierge/internal/api/middleware"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	chatHandler *handlers.ChatHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(chatHandler *handlers.ChatHandler, metrics *observability.Metrics) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		chatHandler: chatHandler,
		metrics:     metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Assistant endpoint
	r.mux.HandleFunc("POST /api/chat", r.chatHandler.HandleChat)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
