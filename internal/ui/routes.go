package ui

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	g "maragu.dev/gomponents"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/chat"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
)

const replyFailed = "Не удалось получить ответ. Попробуйте ещё раз."

func RegisterRoutes(mux chi.Router, h *UI) {
	mux.Get("/", h.Home)
	mux.Post("/ui/chat", h.ChatPost)
	mux.Get("/ui/chat/reply", h.ChatReply)
	mux.Post("/ui/session/new", h.NewSession)
	mux.Get("/ui/version-pill", h.VersionPill)
}

// sessionID picks the session from the query, then the form, then the cookie.
// A visitor without any gets a fresh id stored in the cookie.
func (u *UI) sessionID(w http.ResponseWriter, r *http.Request) string {
	if sid := strings.TrimSpace(r.URL.Query().Get("s")); sid != "" {
		return sid
	}
	if sid := strings.TrimSpace(r.PostFormValue("session_id")); sid != "" {
		return sid
	}
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// Home renders the landing page with the visitor's chat history. Optional session via query: /?s=<id>
func (u *UI) Home(w http.ResponseWriter, r *http.Request) {
	sid := u.sessionID(w, r)

	msgs, typing, err := u.chat.History(sid)
	if err != nil {
		u.log.Error("load history", "session", sid, "err", err)
	}
	hist := make([]g.Node, 0, len(msgs))
	for _, m := range msgs {
		hist = append(hist, u.bubble(m, ""))
	}

	u.render(w, Page(u.content, sid, hist, typing), http.StatusOK)
}

func (u *UI) bubble(m types.Message, meta string) g.Node {
	if m.Role == types.RoleUser {
		return MessageBubble(m.Role, m.Content, "", "")
	}
	return MessageBubble(m.Role, "", u.mdHTML(m.Content), meta)
}

// ChatPost records the user turn and returns its bubble followed by a typing
// indicator that fetches the reply. Blank input is ignored with 204.
func (u *UI) ChatPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sid := u.sessionID(w, r)

	user, err := u.chat.Submit(sid, r.PostForm.Get("message"))
	if errors.Is(err, chat.ErrEmptyMessage) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		u.log.Error("chat submit", "session", sid, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	u.render(w, g.Group([]g.Node{u.bubble(user, ""), TypingIndicator(sid)}), http.StatusOK)
}

// ChatReply blocks until the engine answers and returns the assistant bubble,
// which replaces the typing indicator. With nothing pending the indicator is
// simply removed.
func (u *UI) ChatReply(w http.ResponseWriter, r *http.Request) {
	sid := u.sessionID(w, r)

	reply, latency, err := u.chat.Reply(r.Context(), sid)
	switch {
	case errors.Is(err, chat.ErrNothingPending):
		u.render(w, g.Group(nil), http.StatusOK)
		return
	case err != nil:
		// 200 so htmx swaps the indicator for the error bubble
		u.render(w, MessageBubble(types.RoleAssistant, "", replyFailed, ""), http.StatusOK)
		return
	}

	meta := fmt.Sprintf("%d ms · %s", latency.Milliseconds(), reply.Timestamp.Format("15:04"))
	u.render(w, u.bubble(reply, meta), http.StatusOK)
}

// NewSession creates a fresh session ID and redirects to /?s=...
func (u *UI) NewSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	u.sessions.Touch(id)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	url := "/?s=" + id + "#chat"

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

func (u *UI) VersionPill(w http.ResponseWriter, r *http.Request) {
	// avoid caching so rollouts show quickly
	w.Header().Set("Cache-Control", "no-store")
	u.render(w, VersionPill(), http.StatusOK)
}
