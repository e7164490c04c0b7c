package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/session"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
)

var (
	// ErrEmptyMessage means the input was blank; nothing was recorded.
	ErrEmptyMessage = errors.New("empty message")
	// ErrNothingPending means there is no user turn waiting for a reply.
	ErrNothingPending = errors.New("no message awaiting reply")
)

type Controller struct {
	log      *slog.Logger
	eng      Engine
	sessions session.Store
	now      func() time.Time
}

func NewController(log *slog.Logger, eng Engine, store session.Store) *Controller {
	return &Controller{log: log, eng: eng, sessions: store, now: time.Now}
}

// Submit records a user turn as typed and raises the typing flag.
// Blank input returns ErrEmptyMessage and leaves the session untouched.
func (c *Controller) Submit(sessionID, text string) (types.Message, error) {
	if strings.TrimSpace(text) == "" {
		return types.Message{}, ErrEmptyMessage
	}
	user := types.Message{Role: types.RoleUser, Content: text, Timestamp: c.now()}
	if err := c.sessions.Append(sessionID, user); err != nil {
		return types.Message{}, err
	}
	c.sessions.SetTyping(sessionID, true)
	return user, nil
}

// Reply answers the pending user turn and lowers the typing flag, also on failure.
// Only one caller answers a given turn; concurrent callers get ErrNothingPending.
func (c *Controller) Reply(ctx context.Context, sessionID string) (types.Message, time.Duration, error) {
	history, ok := c.sessions.Claim(sessionID)
	if !ok {
		return types.Message{}, 0, ErrNothingPending
	}
	defer c.sessions.Release(sessionID)

	text, latency, err := c.eng.Generate(ctx, history)
	if err != nil {
		c.log.Error("engine call", "session", sessionID, "err", err)
		return types.Message{}, latency, fmt.Errorf("generate reply: %w", err)
	}
	assistant := types.Message{Role: types.RoleAssistant, Content: text, Timestamp: c.now()}
	if err := c.sessions.Append(sessionID, assistant); err != nil {
		return types.Message{}, latency, err
	}
	c.log.Debug("chat reply", "session", sessionID, "latency_ms", latency.Milliseconds())
	return assistant, latency, nil
}

// Chat runs a full turn: Submit then Reply.
func (c *Controller) Chat(ctx context.Context, sessionID, text string) (types.Message, time.Duration, error) {
	if _, err := c.Submit(sessionID, text); err != nil {
		return types.Message{}, 0, err
	}
	return c.Reply(ctx, sessionID)
}

// History returns the session turns and whether a reply is in flight.
func (c *Controller) History(sessionID string) ([]types.Message, bool, error) {
	msgs, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, false, err
	}
	return msgs, c.sessions.Typing(sessionID), nil
}
