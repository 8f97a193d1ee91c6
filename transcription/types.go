package transcription

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/transcribe-mcp/observability"
)

// Status is the terminal state of a transcription job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// IsTerminal reports whether a job in this state will not change again.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// TranscriptionRequest holds parameters for a transcription call.
type TranscriptionRequest struct {
	// FilePath is the path of the audio file to transcribe.
	FilePath string `json:"file_path"`
}

// SpanAttributes tags the provider span with the audio file.
func (r TranscriptionRequest) SpanAttributes() []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String(observability.AttrFilePath, r.FilePath)}
}

// TranscriptWord is one recognized word. Times are in milliseconds.
type TranscriptWord struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    *string `json:"speaker"`
	// Channel is never populated and always serializes as null.
	Channel *string `json:"channel"`
}

// TranscriptRecord is the persisted form of a finished transcription.
type TranscriptRecord struct {
	Text          string           `json:"text"`
	Words         []TranscriptWord `json:"words"`
	AudioDuration float64          `json:"audio_duration"`
	Status        Status           `json:"status"`
	// Error carries the provider's reason when Status is StatusError.
	Error string `json:"-"`
}

// Failed reports whether the provider finished the job with an error.
func (r *TranscriptRecord) Failed() bool {
	return r.Status == StatusError
}

// ProviderTranscript is the raw job document a provider returns. Pointer
// fields distinguish an absent value from a zero one.
type ProviderTranscript struct {
	ID            string         `json:"id"`
	Status        *string        `json:"status"`
	Text          *string        `json:"text"`
	Words         []ProviderWord `json:"words"`
	AudioDuration *float64       `json:"audio_duration"`
	Error         *string        `json:"error"`
}

// ProviderWord is one word as reported by the provider.
type ProviderWord struct {
	Text       *string `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    *string `json:"speaker"`
}
