package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/giygas/bulario-chat/chat"
	"github.com/giygas/bulario-chat/logging"
)

type chatRequest struct {
	Message string `json:"message"`
}

// sseWriter writes events as text/event-stream frames
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseWriter) send(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Chat runs a single turn and streams the reply as server-sent events.
// Each request is its own session.
func (h *HTTPHandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validator.ValidateMessage(req.Message); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondWithError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	session := chat.NewSession(h.turns)
	defer session.Close()

	stream := &sseWriter{w: w, flusher: flusher}
	if err := session.Handle(r.Context(), req.Message, newEventSink(stream.send)); err != nil {
		logging.Debug("Chat turn not delivered", "session_id", session.ID, "error", err)
	}
}
