package chat

import (
	"context"
	"time"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/openai"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
)

type completer interface {
	ChatCompletion(ctx context.Context, messages []types.Turn) (*openai.Completion, error)
}

// OpenAIEngine sends the whole session history upstream.
type OpenAIEngine struct {
	c completer
}

func NewOpenAIEngine(c *openai.Client) *OpenAIEngine {
	return &OpenAIEngine{c: c}
}

func (e *OpenAIEngine) Generate(ctx context.Context, history []types.Message) (string, time.Duration, error) {
	start := time.Now()
	out, err := e.c.ChatCompletion(ctx, types.Turns(history))
	if err != nil {
		return "", time.Since(start), err
	}
	return out.Message, time.Since(start), nil
}
