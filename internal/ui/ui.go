package ui

import (
	"bytes"
	"log/slog"
	"net/http"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	g "maragu.dev/gomponents"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/chat"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/landing"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/session"
)

const sessionCookie = "gptunnel_session"

type UI struct {
	log      *slog.Logger
	content  *landing.Content
	chat     *chat.Controller
	sessions *session.MemoryStore
	md       goldmark.Markdown
	policy   *bluemonday.Policy
}

func New(log *slog.Logger, content *landing.Content, c *chat.Controller, s *session.MemoryStore) (*UI, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		goldmark.WithExtensions(
			highlighting.NewHighlighting(
				highlighting.WithStyle("dracula"),
				highlighting.WithFormatOptions(
					chromahtml.WithLineNumbers(false),
				),
			),
		),
	)

	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("code", "pre", "span")
	p.AllowAttrs("style").OnElements("span", "pre")

	return &UI{
		log:      log,
		content:  content,
		chat:     c,
		sessions: s,
		md:       md,
		policy:   p,
	}, nil
}

// mdHTML renders assistant markdown and strips anything unsafe.
func (u *UI) mdHTML(src string) string {
	var buf bytes.Buffer
	if err := u.md.Convert([]byte(src), &buf); err != nil {
		u.log.Warn("markdown convert", "err", err)
		return u.policy.Sanitize(src)
	}
	return string(u.policy.SanitizeBytes(buf.Bytes()))
}

func (u *UI) render(w http.ResponseWriter, node g.Node, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		u.log.Error("render", "err", err)
	}
}
