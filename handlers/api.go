package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gunnarhm/mkcontrol/actions"
)

// GET /status
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Dispatcher.Status(r.Context())
	if err != nil {
		sendJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	sendJSON(w, http.StatusOK, status)
}

// POST /action
func (h *Handler) action(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Action string `json:"action" validate:"required"`
	}
	body, err := decodeJSON[request](r)
	if err != nil {
		sendJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}
	if err := h.Dispatcher.Dispatch(body.Action); err != nil {
		if errors.Is(err, actions.ErrUnknownAction) {
			sendJSON(w, http.StatusBadRequest, map[string]any{"error": fmt.Sprintf("unknown action: %q", body.Action)})
			return
		}
		sendJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"ok": true})
}
