// Command genui-server runs the generative UI chat API.
//
// Configuration comes from the environment:
//
//	ANTHROPIC_API_KEY      API key (falls back to the stored credential)
//	GENUI_ADDR             listen address (default ":8000")
//	GENUI_MODEL            default model for chat requests
//	GENUI_CORS_ORIGINS     comma-separated allowed origins
//	GENUI_CREDENTIAL_FILE  path of the stored token credential
//
// Run with:
//
//	ANTHROPIC_API_KEY=sk-ant-... go run ./cmd/genui-server
package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/renderloop/genui"
	"github.com/renderloop/genui/action"
	"github.com/renderloop/genui/auth"
	"github.com/renderloop/genui/catalog"
	"github.com/renderloop/genui/hooks"
	"github.com/renderloop/genui/httpapi"
	"github.com/renderloop/genui/mcp"
	"github.com/renderloop/genui/render"
)

func main() {
	cfg := genui.ServerConfigFromEnv()
	logger := slog.Default()

	store := auth.NewStore(cfg.CredentialFile)
	apiKey := cfg.APIKey
	if apiKey == "" {
		if token, err := store.Token(); err == nil {
			apiKey = token
		}
	}
	if apiKey == "" {
		logger.Warn("no Anthropic credential configured; chat requests will fail until one is saved via POST /auth/token")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	cat := catalog.Default()

	servers := mcp.NewRegistry()
	for _, s := range []mcp.Server{
		mcp.NewCalculatorServer(),
		mcp.NewWebSearchServer(),
		mcp.NewFilesystemServer(),
		mcp.NewDashboardServer(cat),
	} {
		if err := servers.Register(s); err != nil {
			log.Fatalf("register tool server %q: %v", s.Name(), err)
		}
	}

	svc, err := genui.NewService(genui.Config{
		Client: &client,
		Model:  cfg.Model,
		Logger: logger,
	}, cat, servers)
	if err != nil {
		log.Fatalf("create service: %v", err)
	}
	hooks.DefaultLoggingHooks().Register(svc.Hooks())

	dispatcher := action.NewDispatcher(cat)
	registerActionHandlers(dispatcher, logger)

	renderer := render.New(render.DefaultRegistry())

	handler := httpapi.NewRouter(svc, renderer, dispatcher, store, &httpapi.Config{
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("genui server listening", "addr", cfg.Addr, "model", cfg.Model)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// registerActionHandlers wires server-side handlers for the builtin actions.
// Client-side actions (copy, navigate, filter) are executed by the frontend;
// the server acknowledges them so dispatches still validate and log.
func registerActionHandlers(d *action.Dispatcher, logger *slog.Logger) {
	ack := func(name string) action.HandlerFunc {
		return func(ctx context.Context, params json.RawMessage) (any, error) {
			logger.Info("action dispatched", "action", name, "params", string(params))
			return map[string]any{"acknowledged": true}, nil
		}
	}

	for _, name := range []string{"export", "copy", "navigate", "filter", "refresh"} {
		if err := d.Register(name, ack(name)); err != nil {
			log.Fatalf("register action %q: %v", name, err)
		}
	}
}
