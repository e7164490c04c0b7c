package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/buildinfo"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/chat"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/utils"
)

// maxBodyBytes caps JSON request bodies on the public endpoints.
const maxBodyBytes = 1 << 20

type Handlers struct {
	log  *slog.Logger
	chat *chat.Controller
	gpt  Completer
}

func NewHandlers(log *slog.Logger, chatCtrl *chat.Controller, gpt Completer) *Handlers {
	return &Handlers{
		log:  log,
		chat: chatCtrl,
		gpt:  gpt,
	}
}

// Health is a basic liveness endpoint.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]any{
		"status":    true,
		"message":   "gptunnel",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]any{
		"version":  buildinfo.Version,
		"commit":   buildinfo.Commit,
		"built_at": buildinfo.BuiltAt,
	})
}

// Chat POST /api/chat runs one demo-chat turn and waits for the reply.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if tooLarge(err) {
		utils.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	msg, latency, err := h.chat.Chat(r.Context(), req.SessionID, req.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		utils.Error(w, http.StatusBadRequest, "message is required")
		return
	case err != nil:
		h.log.Error("api chat", "session", req.SessionID, "err", err)
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"response":   msg.Content,
		"timestamp":  msg.Timestamp.UTC().Format(time.RFC3339),
		"latency_ms": latency.Milliseconds(),
		"session_id": req.SessionID,
	})
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// GetHistory GET /api/history/{sessionID}
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		utils.Error(w, http.StatusBadRequest, "missing session_id")
		return
	}

	history, typing, err := h.chat.History(sessionID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"history": types.Turns(history),
		"typing":  typing,
	})
}
