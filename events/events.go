package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types published on the feed.
const (
	TypeConnected              = "connected"
	TypeTranscriptionStarted   = "transcription.started"
	TypeTranscriptionCompleted = "transcription.completed"
	TypeTranscriptionFailed    = "transcription.failed"
)

// ClientPrefix prefixes every feed client id; broadcasts target ClientPrefix + "*".
const ClientPrefix = "events:"

// Event describes one step of a transcription request.
type Event struct {
	Type      string    `json:"type"`
	RequestID string    `json:"request_id,omitempty"`
	FilePath  string    `json:"file_path,omitempty"`
	Output    string    `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher receives transcription lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Publish encodes e and broadcasts it to every feed client.
func (h *Hub) Publish(_ context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		h.log.WithError(err).Error("event encode failed")
		return
	}
	h.BroadcastToPattern(ClientPrefix+"*", data)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// Nop returns a Publisher that drops every event.
func Nop() Publisher { return nopPublisher{} }

var _ Publisher = (*Hub)(nil)
