package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/opinity/proposal-generator/internal/session"
)

// SSE event names of the streaming generation endpoint
const (
	EventState    = "state"
	EventComplete = "complete"
	EventError    = "error"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteState sends the current session state
func (s *SSEWriter) WriteState(snap session.Snapshot) error {
	return s.WriteEvent(EventState, map[string]any{"state": snap.State})
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(status int, message string) {
	s.WriteEvent(EventError, map[string]any{ //nolint:errcheck
		"status": status,
		"error":  message,
	})
}

// WriteComplete sends a completion event with the final snapshot
func (s *SSEWriter) WriteComplete(snap session.Snapshot) {
	s.WriteEvent(EventComplete, snap) //nolint:errcheck
}
