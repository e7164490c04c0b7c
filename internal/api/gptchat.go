package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/openai"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/utils"
)

// Completer is the upstream the gpt-chat proxy forwards to.
type Completer interface {
	Configured() bool
	ChatCompletion(ctx context.Context, messages []types.Turn) (*openai.Completion, error)
}

// GPTChat proxies a conversation to the chat-completions API.
//
//	OPTIONS -> CORS preflight
//	POST {"messages":[{"role","content"}...]} -> {"message","model","usage"}
func (h *Handlers) GPTChat(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type")
		hdr.Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		utils.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if h.gpt == nil || !h.gpt.Configured() {
		utils.Error(w, http.StatusInternalServerError, openai.ErrNoAPIKey.Error())
		return
	}

	var req struct {
		Messages []types.Turn `json:"messages"`
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if tooLarge(err) {
		utils.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.internalError(w, err)
			return
		}
	}
	if len(req.Messages) == 0 {
		utils.Error(w, http.StatusBadRequest, "Messages array is required")
		return
	}

	out, err := h.gpt.ChatCompletion(r.Context(), req.Messages)
	var apiErr *openai.APIError
	switch {
	case errors.As(err, &apiErr):
		utils.JSON(w, apiErr.Status, map[string]any{
			"error": apiErr.Message,
			"type":  apiErr.Type,
		})
		return
	case err != nil:
		h.internalError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, out)
}

func (h *Handlers) internalError(w http.ResponseWriter, err error) {
	h.log.Error("gpt-chat", "err", err)
	utils.Error(w, http.StatusInternalServerError, fmt.Sprintf("Internal error: %s", err))
}
