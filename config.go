package genui

import (
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// ModelInfo contains model-specific parameters
type ModelInfo struct {
	MaxContextTokens int
	DefaultMaxTokens int
}

// KnownModels maps model IDs to their capabilities
var KnownModels = map[string]ModelInfo{
	"claude-sonnet-4-5-20250929": {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	"claude-opus-4-5-20251101":   {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
	"claude-3-5-sonnet-20241022": {MaxContextTokens: 200000, DefaultMaxTokens: 8192},
	"claude-3-5-haiku-20241022":  {MaxContextTokens: 200000, DefaultMaxTokens: 8192},
}

// GetModelInfo returns model info, using sensible defaults for unknown models
func GetModelInfo(model string) ModelInfo {
	if info, ok := KnownModels[model]; ok {
		return info
	}
	return ModelInfo{MaxContextTokens: 200000, DefaultMaxTokens: 8192}
}

// DefaultModel is used when a request names no model.
const DefaultModel = "claude-sonnet-4-5-20250929"

// DefaultMaxToolTurns bounds the tool loop of a single completion.
const DefaultMaxToolTurns = 10

// Config holds the required configuration for the chat service.
//
// Example:
//
//	client := anthropic.NewClient(option.WithAPIKey(key))
//	svc, _ := genui.NewService(genui.Config{
//	    Client: &client,
//	    Model:  "claude-sonnet-4-5-20250929",
//	})
type Config struct {
	// Client is the Anthropic API client (required)
	Client *anthropic.Client

	// Model is the default model ID (required)
	Model string

	// SystemPrompt is prepended to the component catalog instructions.
	// Optional; a generative-UI prompt is used when empty.
	SystemPrompt string

	// MaxToolTurns bounds the agentic tool loop per completion.
	// Defaults to DefaultMaxToolTurns.
	MaxToolTurns int

	// Logger for structured logging. Optional.
	Logger Logger
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Client == nil {
		return fmt.Errorf("%w: Anthropic client is required", ErrInvalidConfig)
	}

	if c.Model == "" {
		return fmt.Errorf("%w: Model is required", ErrInvalidConfig)
	}

	if c.MaxToolTurns < 0 {
		return fmt.Errorf("%w: MaxToolTurns cannot be negative", ErrInvalidConfig)
	}

	return nil
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// ServerConfig holds the HTTP server settings read from the environment.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string

	// APIKey is the Anthropic API key. Falls back to the stored credential
	// when empty.
	APIKey string

	// Model is the default model for chat requests.
	Model string

	// CredentialFile is the path of the stored token credential.
	CredentialFile string
}

// ServerConfigFromEnv reads the server configuration from environment
// variables, applying defaults for anything unset.
func ServerConfigFromEnv() ServerConfig {
	cfg := ServerConfig{
		Addr:           ":8000",
		CORSOrigins:    []string{"http://localhost:5173", "http://localhost:3000"},
		APIKey:         os.Getenv("ANTHROPIC_API_KEY"),
		Model:          DefaultModel,
		CredentialFile: ".anthropic_token",
	}

	if addr := os.Getenv("GENUI_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if origins := os.Getenv("GENUI_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = cfg.CORSOrigins[:0]
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}
	if model := os.Getenv("GENUI_MODEL"); model != "" {
		cfg.Model = model
	}
	if file := os.Getenv("GENUI_CREDENTIAL_FILE"); file != "" {
		cfg.CredentialFile = file
	}

	return cfg
}
