// Package config loads runtime configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Credential sources reported by ResolveAirtableKey.
const (
	SourceArgument    = "argument"
	SourceEnvironment = "environment"
)

// Config holds all configuration values.
type Config struct {
	// Airtable
	AirtableAPIKey  string
	AirtableBaseURL string

	// Claude (Anthropic Messages API or Amazon Bedrock)
	ClaudeProvider  string
	ClaudeAPIKey    string
	ClaudeBaseURL   string
	ClaudeModel     string
	ClaudeMaxTokens int
	AWSRegion       string

	// Vector memory
	VectorPath       string
	VectorCollection string
	VectorCompress   bool

	// Embeddings
	EmbedProvider  string
	EmbedModel     string
	EmbedDimension int
	OllamaHost     string
	OpenAIAPIKey   string
	VoyageAPIKey   string

	// Logging
	LogFile        string
	LogLevel       slog.Level
	DebugTransport bool
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first; variables that are
// already set in the environment win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AirtableAPIKey:  getEnv("AIRTABLE_API_KEY", ""),
		AirtableBaseURL: getEnv("AIRTABLE_BASE_URL", ""),

		ClaudeProvider:  strings.ToLower(getEnv("CLAUDE_PROVIDER", "anthropic")),
		ClaudeAPIKey:    getEnv("CLAUDE_API_KEY", ""),
		ClaudeBaseURL:   getEnv("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		ClaudeModel:     getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		ClaudeMaxTokens: getEnvInt("CLAUDE_MAX_TOKENS", 1000),
		AWSRegion:       getEnv("AWS_REGION", ""),

		VectorPath:       getEnv("AGENTX_VECTOR_PATH", "./vector_store"),
		VectorCollection: getEnv("AGENTX_VECTOR_COLLECTION", "memories"),
		VectorCompress:   getEnv("AGENTX_VECTOR_COMPRESS", "false") == "true",

		EmbedProvider:  getEnv("AGENTX_EMBED_PROVIDER", "ollama"),
		EmbedModel:     getEnv("AGENTX_EMBED_MODEL", ""),
		EmbedDimension: getEnvInt("AGENTX_EMBED_DIMENSION", 0),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		VoyageAPIKey:   getEnv("VOYAGE_API_KEY", ""),

		LogFile:        getEnv("AGENTX_LOG_FILE", "/tmp/agentx-mcp.log"),
		LogLevel:       parseLogLevel(getEnv("AGENTX_LOG_LEVEL", "INFO")),
		DebugTransport: getEnv("AGENTX_DEBUG_TRANSPORT", "false") == "true",
	}
}

// ResolveAirtableKey picks the Airtable credential for the server process.
// The first positional argument wins over AIRTABLE_API_KEY. An empty key with
// an empty source means no credential was supplied.
func ResolveAirtableKey(args []string, cfg Config) (key, source string) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), SourceArgument
	}
	if cfg.AirtableAPIKey != "" {
		return cfg.AirtableAPIKey, SourceEnvironment
	}
	return "", ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
