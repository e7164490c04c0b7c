package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/api"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/chat"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/config"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/landing"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/middleware"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/openai"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/session"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/ui"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/web"
)

const limiterIdle = 10 * time.Minute

type Server struct {
	log      *slog.Logger
	cfg      *config.Config
	handler  http.Handler
	limiter  *middleware.Limiter
	sessions *session.MemoryStore
}

// NewOpenAIClient builds the upstream client from config.
func NewOpenAIClient(cfg *config.Config, log *slog.Logger) *openai.Client {
	return openai.NewClient(openai.Options{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: &cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     cfg.OpenAI.Timeout,
	}, log)
}

// New wires dependencies and the middleware chain.
func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	gpt := NewOpenAIClient(cfg, log)

	var engine chat.Engine
	switch cfg.Chat.Engine {
	case config.EngineOpenAI:
		log.Info("demo chat uses the live openai engine", "model", gpt.Model())
		engine = chat.NewOpenAIEngine(gpt)
	default:
		log.Info("demo chat uses canned replies", "delay", cfg.Chat.DemoDelay.String())
		engine = chat.NewDemoEngine(cfg.Chat.DemoDelay, cfg.Chat.DemoReply)
	}
	if !gpt.Configured() {
		log.Warn("OPENAI_API_KEY not set; /api/gpt-chat will answer 500")
	}

	sessionStore := session.NewMemoryStore(cfg.Chat.MaxMessages)
	chatCtrl := chat.NewController(log, engine, sessionStore)

	uih, err := ui.New(log, landing.Default(), chatCtrl, sessionStore)
	if err != nil {
		return nil, fmt.Errorf("ui init: %w", err)
	}
	h := api.NewHandlers(log, chatCtrl, gpt)
	limiter := middleware.NewLimiter(log, cfg.OpenAI.RatePerMinute, cfg.OpenAI.Burst)

	mux := chi.NewRouter()
	mux.Handle("/static/*", http.StripPrefix("/static/", web.Static()))
	ui.RegisterRoutes(mux, uih)
	api.RegisterRoutes(mux, h, limiter)

	var handler http.Handler = mux
	handler = middleware.Recoverer(log)(handler)
	handler = middleware.VersionHeader()(handler)
	handler = middleware.AccessLog(log)(handler)
	handler = middleware.RequestID()(handler)

	return &Server{log: log, cfg: cfg, handler: handler, limiter: limiter, sessions: sessionStore}, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	go s.sweep(ctx)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.ListenAndServe() }()
	s.log.Info("server is listening", "addr", srv.Addr)

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Server) sweepOnce() {
	if n := s.limiter.Sweep(limiterIdle); n > 0 {
		s.log.Debug("rate limiter sweep", "dropped", n)
	}
	if n := s.sessions.Sweep(s.cfg.Chat.SessionIdle); n > 0 {
		s.log.Debug("session sweep", "dropped", n, "left", s.sessions.Len())
	}
}
