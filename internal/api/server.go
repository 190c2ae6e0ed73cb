package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support.
// It combines the replay control router with a WebSocket hub for
// real-time playback notifications.
type Server struct {
	session     SessionInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
// hub may be nil; pass one when it is already wired as the session's
// notifier or the effect sink. rateCfg nil falls back to the defaults.
func NewServer(session SessionInterface, preview func() ([]byte, error), hub *WebSocketHub, rateCfg *RateLimitConfig) *Server {
	if hub == nil {
		hub = NewWebSocketHub()
	}
	s := &Server{
		session: session,
		wsHub:   hub,
	}

	rl := DefaultRateLimitConfig
	if rateCfg != nil {
		rl = *rateCfg
		if rl.CleanupInterval <= 0 {
			rl.CleanupInterval = DefaultRateLimitConfig.CleanupInterval
		}
	}
	s.rateLimiter = NewIPRateLimiter(rl)

	s.router = NewRouter(RouterConfig{
		Session:     session,
		Preview:     preview,
		RateLimiter: s.rateLimiter,
	})

	// WebSocket route needs the hub instance, so it can't be part of the
	// generic NewRouter factory.
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// Hub returns the WebSocket hub so the caller can wire it as the
// session's notifier and the cast's effect sink.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Start begins the HTTP server AND starts background workers.
// This is the ONLY method that starts goroutines or opens network listeners.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("🎬 Preview: http://localhost%s/api/preview.png", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
