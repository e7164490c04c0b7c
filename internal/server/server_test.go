package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/config"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CHAT_ENGINE", "")
	t.Setenv("DEMO_REPLY_DELAY", "1ms")
	cfg, err := config.Load(logging.Discard(), filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	return cfg
}

func TestServer_Routes(t *testing.T) {
	s, err := New(testConfig(t), logging.Discard())
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	tests := []struct {
		path       string
		wantStatus int
		wantType   string
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8"},
		{"/static/styles.css", http.StatusOK, "text/css; charset=utf-8"},
		{"/healthz", http.StatusOK, "application/json"},
		{"/version", http.StatusOK, "application/json"},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer res.Body.Close()
			_, _ = io.Copy(io.Discard, res.Body)

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, res.Header.Get("Content-Type"))
			}
			assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
			assert.Equal(t, "dev", res.Header.Get("X-App-Version"))
		})
	}
}

func TestServer_GPTChatWithoutKey(t *testing.T) {
	s, err := New(testConfig(t), logging.Discard())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/gpt-chat", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "OpenAI API key not configured")
}

func TestServer_DemoTurnOverHTTP(t *testing.T) {
	s, err := New(testConfig(t), logging.Discard())
	require.NoError(t, err)

	start := time.Now()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi","session_id":"x"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "демо-ответ")
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

func TestServer_SweepDropsIdleSessions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Chat.SessionIdle = -time.Minute
	s, err := New(cfg, logging.Discard())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi","session_id":"x"}`))
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, 1, s.sessions.Len())

	s.sweepOnce()
	assert.Equal(t, 0, s.sessions.Len())
}
