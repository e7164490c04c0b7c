package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EngineDemo   = "demo"
	EngineOpenAI = "openai"
)

// DefaultDemoReply is what the demo chat answers to every message.
const DefaultDemoReply = "Это демо-ответ от GPT. Подключите свой API ключ для полноценной работы! 🚀"

type Config struct {
	Addr     string `env:"ADDR" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	Chat   ChatConfig
	OpenAI OpenAIConfig

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ChatConfig drives the demo chat widget.
type ChatConfig struct {
	// Engine is "demo" (canned reply) or "openai" (live proxy).
	Engine      string        `env:"CHAT_ENGINE" envDefault:"demo"`
	DemoDelay   time.Duration `env:"DEMO_REPLY_DELAY" envDefault:"1500ms"`
	DemoReply   string        `env:"DEMO_REPLY"`
	MaxMessages int           `env:"SESSION_MAX_MESSAGES" envDefault:"200"`
	// SessionIdle is how long an untouched session is kept in memory.
	SessionIdle time.Duration `env:"SESSION_IDLE_TTL" envDefault:"24h"`
}

// OpenAIConfig configures the upstream used by /api/gpt-chat and the live engine.
type OpenAIConfig struct {
	APIKey      string        `env:"OPENAI_API_KEY"`
	BaseURL     string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model       string        `env:"OPENAI_MODEL" envDefault:"gpt-4"`
	Temperature float64       `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int           `env:"OPENAI_MAX_TOKENS" envDefault:"1000"`
	Timeout     time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s"`

	RatePerMinute int `env:"GPT_CHAT_RATE_PER_MINUTE" envDefault:"30"`
	Burst         int `env:"GPT_CHAT_BURST" envDefault:"5"`
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load(log *slog.Logger, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			log.Debug("env file not loaded", "file", f, "err", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Chat.DemoReply == "" {
		cfg.Chat.DemoReply = DefaultDemoReply
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Chat.Engine {
	case EngineDemo:
	case EngineOpenAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("CHAT_ENGINE=openai requires OPENAI_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CHAT_ENGINE %q", c.Chat.Engine))
	}
	if c.Chat.DemoDelay < 0 {
		errs = append(errs, errors.New("DEMO_REPLY_DELAY must not be negative"))
	}
	if c.Chat.SessionIdle <= 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TTL must be positive"))
	}
	if c.OpenAI.RatePerMinute <= 0 || c.OpenAI.Burst <= 0 {
		errs = append(errs, errors.New("GPT_CHAT_RATE_PER_MINUTE and GPT_CHAT_BURST must be positive"))
	}
	return errors.Join(errs...)
}

// ListenAddr accepts both "8080" and ":8080" / "host:8080".
func (c *Config) ListenAddr() string {
	if strings.Contains(c.Addr, ":") {
		return c.Addr
	}
	return ":" + c.Addr
}
