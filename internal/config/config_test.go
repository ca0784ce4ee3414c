package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"AIRTABLE_API_KEY", "CLAUDE_API_KEY", "CLAUDE_PROVIDER", "CLAUDE_MODEL", "CLAUDE_MAX_TOKENS",
		"AGENTX_VECTOR_PATH", "AGENTX_VECTOR_COLLECTION", "AGENTX_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Empty(t, cfg.AirtableAPIKey)
	assert.Equal(t, "anthropic", cfg.ClaudeProvider)
	assert.Equal(t, "https://api.anthropic.com", cfg.ClaudeBaseURL)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.ClaudeModel)
	assert.Equal(t, 1000, cfg.ClaudeMaxTokens)
	assert.Equal(t, "./vector_store", cfg.VectorPath)
	assert.Equal(t, "memories", cfg.VectorCollection)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AIRTABLE_API_KEY", "pat-env")
	t.Setenv("CLAUDE_MAX_TOKENS", "256")
	t.Setenv("CLAUDE_PROVIDER", "Bedrock")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AGENTX_VECTOR_COMPRESS", "true")
	t.Setenv("AGENTX_LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "pat-env", cfg.AirtableAPIKey)
	assert.Equal(t, 256, cfg.ClaudeMaxTokens)
	assert.Equal(t, "bedrock", cfg.ClaudeProvider)
	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
	assert.True(t, cfg.VectorCompress)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("CLAUDE_MAX_TOKENS", "lots")
	assert.Equal(t, 1000, Load().ClaudeMaxTokens)
}

func TestResolveAirtableKey(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		envKey     string
		wantKey    string
		wantSource string
	}{
		{"argument wins", []string{"pat-arg"}, "pat-env", "pat-arg", SourceArgument},
		{"environment fallback", nil, "pat-env", "pat-env", SourceEnvironment},
		{"blank argument ignored", []string{"  "}, "pat-env", "pat-env", SourceEnvironment},
		{"nothing supplied", nil, "", "", ""},
		{"extra arguments ignored", []string{"pat-arg", "extra"}, "", "pat-arg", SourceArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, source := ResolveAirtableKey(tt.args, Config{AirtableAPIKey: tt.envKey})
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("server ready", "tools", 9)

	assert.Contains(t, stderr.String(), "server ready")
	assert.NotContains(t, stderr.String(), "hidden")

	line := strings.TrimSpace(file.String())
	require.NotEmpty(t, line)
	assert.True(t, strings.HasPrefix(line, "{"), "file output should be JSON")
	assert.Contains(t, line, `"tools":9`)
}

func TestSetupLoggerFallsBackToStderr(t *testing.T) {
	logger, cleanup := SetupLogger(t.TempDir()+"/missing/dir/agentx.log", slog.LevelInfo)
	require.NotNil(t, logger)
	assert.NoError(t, cleanup())
}
