package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/logging"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/openai"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/session"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const canned = "demo reply"

type stubEngine struct {
	text    string
	err     error
	history []types.Message
}

func (s *stubEngine) Generate(_ context.Context, history []types.Message) (string, time.Duration, error) {
	s.history = history
	return s.text, time.Millisecond, s.err
}

type blockingEngine struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingEngine) Generate(ctx context.Context, _ []types.Message) (string, time.Duration, error) {
	close(b.started)
	select {
	case <-b.release:
		return "ok", 0, nil
	case <-ctx.Done():
		return "", 0, ctx.Err()
	}
}

func newController(eng Engine) (*Controller, *session.MemoryStore) {
	store := session.NewMemoryStore(0)
	return NewController(logging.Discard(), eng, store), store
}

func TestDemoEngine_WaitsThenReplies(t *testing.T) {
	e := NewDemoEngine(20*time.Millisecond, canned)

	text, latency, err := e.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, canned, text)
	assert.GreaterOrEqual(t, latency, 20*time.Millisecond)
}

func TestDemoEngine_Cancelled(t *testing.T) {
	e := NewDemoEngine(time.Hour, canned)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	text, _, err := e.Generate(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, text)
}

func TestController_SubmitIgnoresBlank(t *testing.T) {
	c, store := newController(NewDemoEngine(0, canned))

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := c.Submit("s", in)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	msgs, _ := store.Get("s")
	assert.Empty(t, msgs)
	assert.False(t, store.Typing("s"))
}

func TestController_SubmitThenReply(t *testing.T) {
	c, store := newController(NewDemoEngine(5*time.Millisecond, canned))

	user, err := c.Submit("s", "  Сколько стоит тариф Про?  ")
	require.NoError(t, err)
	assert.Equal(t, "  Сколько стоит тариф Про?  ", user.Content, "stored as typed")
	assert.True(t, store.Typing("s"))

	msgs, typing, err := c.History("s")
	require.NoError(t, err)
	assert.True(t, typing)
	require.Len(t, msgs, 1)

	reply, _, err := c.Reply(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, types.RoleAssistant, reply.Role)
	assert.Equal(t, canned, reply.Content)
	assert.False(t, store.Typing("s"))

	msgs, _ = store.Get("s")
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleUser, msgs[0].Role)
	assert.Equal(t, types.RoleAssistant, msgs[1].Role)
}

func TestController_ReplyWithoutPending(t *testing.T) {
	c, _ := newController(NewDemoEngine(0, canned))

	_, _, err := c.Reply(context.Background(), "s")
	assert.ErrorIs(t, err, ErrNothingPending)

	_, _, err = c.Chat(context.Background(), "s", "hi")
	require.NoError(t, err)

	// the only user turn is already answered
	_, _, err = c.Reply(context.Background(), "s")
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestController_ConcurrentRepliesAnswerOnce(t *testing.T) {
	c, store := newController(NewDemoEngine(20*time.Millisecond, canned))
	_, err := c.Submit("s", "hi")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = c.Reply(context.Background(), "s")
		}(i)
	}
	wg.Wait()

	var answered, skipped int
	for _, err := range errs {
		switch {
		case err == nil:
			answered++
		case errors.Is(err, ErrNothingPending):
			skipped++
		}
	}
	assert.Equal(t, 1, answered)
	assert.Equal(t, 1, skipped)

	msgs, _ := store.Get("s")
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleAssistant, msgs[1].Role)
	assert.False(t, store.Typing("s"))
}

func TestController_SkippedReplyKeepsTyping(t *testing.T) {
	release := make(chan struct{})
	eng := &blockingEngine{release: release, started: make(chan struct{})}
	c, store := newController(eng)
	_, err := c.Submit("s", "hi")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, _, err := c.Reply(context.Background(), "s")
		done <- err
	}()
	<-eng.started

	_, _, err = c.Reply(context.Background(), "s")
	assert.ErrorIs(t, err, ErrNothingPending)
	assert.True(t, store.Typing("s"), "first reply is still running")

	close(release)
	require.NoError(t, <-done)
	assert.False(t, store.Typing("s"))
}

func TestController_EngineErrorClearsTyping(t *testing.T) {
	boom := errors.New("boom")
	c, store := newController(&stubEngine{err: boom})

	_, _, err := c.Chat(context.Background(), "s", "hi")
	assert.ErrorIs(t, err, boom)
	assert.False(t, store.Typing("s"))

	msgs, _ := store.Get("s")
	assert.Len(t, msgs, 1)
}

func TestController_EngineSeesHistory(t *testing.T) {
	eng := &stubEngine{text: "ok"}
	c, _ := newController(eng)

	_, _, err := c.Chat(context.Background(), "s", "one")
	require.NoError(t, err)
	_, _, err = c.Chat(context.Background(), "s", "two")
	require.NoError(t, err)

	require.Len(t, eng.history, 3)
	assert.Equal(t, "two", eng.history[2].Content)
}

type stubCompleter struct {
	got []types.Turn
}

func (s *stubCompleter) ChatCompletion(_ context.Context, messages []types.Turn) (*openai.Completion, error) {
	s.got = messages
	return &openai.Completion{Message: "live", Model: "gpt-4"}, nil
}

func TestOpenAIEngine_SendsTurns(t *testing.T) {
	sc := &stubCompleter{}
	e := &OpenAIEngine{c: sc}

	text, _, err := e.Generate(context.Background(), []types.Message{
		{Role: types.RoleUser, Content: "q"},
	})
	require.NoError(t, err)
	assert.Equal(t, "live", text)
	assert.Equal(t, []types.Turn{{Role: "user", Content: "q"}}, sc.got)
}
