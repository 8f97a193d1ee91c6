package transcription

import (
	"github.com/kbukum/transcribe-mcp/provider"
)

// Provider is a speech-to-text backend. Execute submits one audio file and
// returns the provider's terminal job document.
type Provider interface {
	provider.RequestResponse[TranscriptionRequest, *ProviderTranscript]
}

// NewRegistry creates a registry for transcription provider factories.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
