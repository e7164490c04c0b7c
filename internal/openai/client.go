package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
	DefaultTimeout     = 30 * time.Second
)

// ErrNoAPIKey is returned before any network call when the client has no key.
var ErrNoAPIKey = errors.New("OpenAI API key not configured")

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// Temperature nil means DefaultTemperature; an explicit 0 is kept.
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration
}

type Client struct {
	opts   Options
	log    *slog.Logger
	client *http.Client
}

// Usage is passed through to callers untouched.
type Usage map[string]any

type Completion struct {
	Message string `json:"message"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// APIError is a non-2xx answer from the upstream API.
type APIError struct {
	Status  int
	Message string
	Type    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: %d %s: %s", e.Status, e.Type, e.Message)
}

func NewClient(opts Options, log *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = trimSlash(opts.BaseURL)
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == nil {
		t := DefaultTemperature
		opts.Temperature = &t
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		opts:   opts,
		log:    log,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.opts.APIKey != "" }

func (c *Client) Model() string { return c.opts.Model }

type completionRequest struct {
	Model       string       `json:"model"`
	Messages    []types.Turn `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ChatCompletion sends the conversation to POST /chat/completions and returns the first choice.
func (c *Client) ChatCompletion(ctx context.Context, messages []types.Turn) (*Completion, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}

	payload := completionRequest{
		Model:       c.opts.Model,
		Messages:    messages,
		Temperature: *c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		apiErr := &APIError{Status: res.StatusCode, Message: "OpenAI API error", Type: "api_error"}
		var env errorEnvelope
		if len(body) > 0 && json.Unmarshal(body, &env) == nil {
			if env.Error.Message != "" {
				apiErr.Message = env.Error.Message
			}
			if env.Error.Type != "" {
				apiErr.Type = env.Error.Type
			}
		}
		c.log.Warn("openai error response", "status", res.StatusCode, "type", apiErr.Type)
		return nil, apiErr
	}

	var out completionResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("openai: response has no choices")
	}
	c.log.Debug("openai completion", "model", out.Model, "duration_ms", time.Since(start).Milliseconds())

	model := out.Model
	if model == "" {
		model = c.opts.Model
	}
	usage := out.Usage
	if usage == nil {
		usage = Usage{}
	}
	return &Completion{
		Message: out.Choices[0].Message.Content,
		Model:   model,
		Usage:   usage,
	}, nil
}

func trimSlash(s string) string {
	return strings.TrimRight(s, "/")
}
