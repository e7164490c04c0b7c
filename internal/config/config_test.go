package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/logging"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CHAT_ENGINE", "")
	t.Setenv("ADDR", "")

	cfg, err := Load(logging.Discard(), noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Addr)
	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Equal(t, EngineDemo, cfg.Chat.Engine)
	assert.Equal(t, 1500*time.Millisecond, cfg.Chat.DemoDelay)
	assert.Equal(t, DefaultDemoReply, cfg.Chat.DemoReply)
	assert.Equal(t, 24*time.Hour, cfg.Chat.SessionIdle)
	assert.Equal(t, "gpt-4", cfg.OpenAI.Model)
	assert.InDelta(t, 0.7, cfg.OpenAI.Temperature, 1e-9)
	assert.Equal(t, 1000, cfg.OpenAI.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.OpenAI.Timeout)
	assert.Empty(t, cfg.OpenAI.APIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", "127.0.0.1:9000")
	t.Setenv("CHAT_ENGINE", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DEMO_REPLY_DELAY", "10ms")

	cfg, err := Load(logging.Discard(), noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr())
	assert.Equal(t, EngineOpenAI, cfg.Chat.Engine)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 10*time.Millisecond, cfg.Chat.DemoDelay)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DEMO_REPLY=hello from file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DEMO_REPLY") })

	cfg, err := Load(logging.Discard(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello from file", cfg.Chat.DemoReply)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"openai without key", map[string]string{"CHAT_ENGINE": "openai"}, "requires OPENAI_API_KEY"},
		{"unknown engine", map[string]string{"CHAT_ENGINE": "llama"}, "unknown CHAT_ENGINE"},
		{"zero burst", map[string]string{"GPT_CHAT_BURST": "0"}, "must be positive"},
		{"zero session ttl", map[string]string{"SESSION_IDLE_TTL": "0s"}, "SESSION_IDLE_TTL must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(logging.Discard(), noEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
