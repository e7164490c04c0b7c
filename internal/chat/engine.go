package chat

import (
	"context"
	"time"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
)

// Engine produces the assistant reply for a conversation whose last turn is the user's.
type Engine interface {
	Generate(ctx context.Context, history []types.Message) (text string, latency time.Duration, err error)
}

// DemoEngine answers every message with the same canned text after a fixed delay.
// It never leaves the process.
type DemoEngine struct {
	delay time.Duration
	reply string
}

func NewDemoEngine(delay time.Duration, reply string) *DemoEngine {
	return &DemoEngine{delay: delay, reply: reply}
}

func (e *DemoEngine) Generate(ctx context.Context, _ []types.Message) (string, time.Duration, error) {
	start := time.Now()
	if e.delay > 0 {
		t := time.NewTimer(e.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", time.Since(start), ctx.Err()
		case <-t.C:
		}
	}
	return e.reply, time.Since(start), nil
}
