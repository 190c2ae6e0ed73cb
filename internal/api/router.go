package api

import (
	"net/http"
	"time"

	"ghost-reel/internal/replay"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SessionInterface defines the replay session methods used by the API.
// This interface enables mocking for tests without spinning up the full
// step loop. Keep this minimal - only include methods the API layer
// actually calls.
//
// StartRecording takes no arguments here: the caller wires an adapter
// that already knows which live scene to record.
type SessionInterface interface {
	StartRecording()
	StopRecording()
	Clear()

	StartPlayback()
	StopPlayback()
	Seek(t float64)
	SetSpeed(speed float64)
	SetMode(m replay.Mode)

	HasReplay() bool
	Duration() float64
	IsRecording() bool
	IsPlaying() bool
	Phase() replay.Phase
	Mode() replay.Mode
	Speed() float64
	Progress() (current, total float64)
	Frames() int
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Session: mockSession,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Session is the replay session (required)
	Session SessionInterface

	// Preview renders the current replay view as PNG bytes. Optional;
	// /api/preview.png returns 404 when nil.
	Preview func() ([]byte, error)

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses localhost only.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler dependencies for the router.
type routerHandlers struct {
	session SessionInterface
	preview func() ([]byte, error)
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function starts no goroutines and opens no listeners,
// which makes it safe to use in tests with httptest.NewServer. The one
// exception is the rate limiter cleanup goroutine when no limiter is
// injected.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		session: cfg.Session,
		preview: cfg.Preview,
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Recording control
		r.Post("/record/start", h.handleRecordStart)
		r.Post("/record/stop", h.handleRecordStop)
		r.Post("/record/clear", h.handleRecordClear)

		// Playback control
		r.Post("/replay/play", h.handleReplayPlay)
		r.Post("/replay/stop", h.handleReplayStop)
		r.Post("/replay/seek", h.handleReplaySeek)
		r.Post("/replay/speed", h.handleReplaySpeed)
		r.Post("/replay/mode", h.handleReplayMode)

		// Status and rendering
		r.Get("/replay/status", h.handleReplayStatus)
		r.Get("/preview.png", h.handlePreview)
	})

	return r
}

// metricsMiddleware records per-endpoint request latency. The label is the
// chi route pattern, not the raw URL, to keep cardinality bounded.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		RecordRequest(r.Method, endpoint, time.Since(start))
	})
}
