package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/middleware"
)

// RegisterRoutes mounts the JSON API. limit guards the upstream proxy.
func RegisterRoutes(mux chi.Router, h *Handlers, limit *middleware.Limiter) {
	mux.Get("/healthz", h.Health)
	mux.Get("/version", h.Version)

	mux.Post("/api/chat", h.Chat)
	mux.Get("/api/history/{sessionID}", h.GetHistory)

	// every method is routed here; the handler answers OPTIONS and 405 itself
	mux.With(middleware.CORS(), limit.Handler).HandleFunc("/api/gpt-chat", h.GPTChat)
}
