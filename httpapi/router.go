// Package httpapi exposes the chat service, component catalog, renderer,
// action dispatcher, and tool server registry over HTTP.
package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/renderloop/genui"
	"github.com/renderloop/genui/action"
	"github.com/renderloop/genui/auth"
	"github.com/renderloop/genui/render"
)

// Config holds the HTTP router configuration.
type Config struct {
	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string

	// Logger for structured logging.
	Logger Logger
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// router holds the API router state.
type router struct {
	svc        *genui.Service
	renderer   *render.Renderer
	dispatcher *action.Dispatcher
	auth       *auth.Store
	config     *Config
}

// NewRouter creates the HTTP handler for the full API surface.
func NewRouter(svc *genui.Service, renderer *render.Renderer, dispatcher *action.Dispatcher, store *auth.Store, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}
	if store == nil {
		store = auth.NewStore(".anthropic_token")
	}

	rt := &router{
		svc:        svc,
		renderer:   renderer,
		dispatcher: dispatcher,
		auth:       store,
		config:     cfg,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", rt.handleRoot)
	mux.HandleFunc("GET /healthz", rt.handleHealth)

	// Chat
	mux.HandleFunc("POST /v1/chat/completions", rt.handleChatCompletions)

	// Catalog, rendering and actions
	mux.HandleFunc("GET /catalog", rt.handleCatalog)
	mux.HandleFunc("POST /render", rt.handleRender)
	mux.HandleFunc("POST /actions/dispatch", rt.handleDispatchAction)

	// Tool servers
	mux.HandleFunc("GET /mcp/servers", rt.handleListServers)
	mux.HandleFunc("POST /mcp/servers/toggle", rt.handleToggleServer)
	mux.HandleFunc("GET /mcp/servers/{name}", rt.handleGetServer)
	mux.HandleFunc("GET /mcp/tools", rt.handleListTools)

	// Credentials
	mux.HandleFunc("GET /auth/status", rt.handleAuthStatus)
	mux.HandleFunc("POST /auth/token", rt.handleSaveToken)
	mux.HandleFunc("DELETE /auth/token", rt.handleDeleteToken)

	return withMiddleware(mux, cfg)
}

// withMiddleware wraps the handler with common middleware.
func withMiddleware(handler http.Handler, cfg *Config) http.Handler {
	handler = requestIDMiddleware(handler)
	handler = corsMiddleware(handler, cfg.CORSOrigins)
	handler = recoveryMiddleware(handler, cfg.Logger)
	return handler
}

// requestIDMiddleware assigns every request an ID for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware answers preflight requests and stamps allowed origins.
func corsMiddleware(next http.Handler, origins []string) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func recoveryMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if logger != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				}
				http.Error(w, `{"error":{"code":"internal_error","message":"internal server error"}}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
