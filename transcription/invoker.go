package transcription

import (
	"context"
	"strings"

	"github.com/kbukum/transcribe-mcp/errors"
	"github.com/kbukum/transcribe-mcp/logger"
	"github.com/kbukum/transcribe-mcp/observability"
	"github.com/kbukum/transcribe-mcp/provider"
)

// Invoker runs a transcription request against a provider exactly once and
// maps the result into a TranscriptRecord.
type Invoker struct {
	provider Provider
	log      *logger.Logger
}

// InvokerOption configures an Invoker.
type InvokerOption func(*invokerConfig)

type invokerConfig struct {
	metrics     *observability.Metrics
	serviceName string
}

// WithMetrics records provider call metrics on m.
func WithMetrics(m *observability.Metrics) InvokerOption {
	return func(c *invokerConfig) { c.metrics = m }
}

// WithServiceName sets the service name used for provider spans.
func WithServiceName(name string) InvokerOption {
	return func(c *invokerConfig) { c.serviceName = name }
}

// NewInvoker wraps p with logging, metrics and tracing middleware.
func NewInvoker(p Provider, log *logger.Logger, opts ...InvokerOption) *Invoker {
	cfg := invokerConfig{serviceName: "transcription"}
	for _, opt := range opts {
		opt(&cfg)
	}

	log = log.WithComponent("transcription")
	wrapped := provider.Chain(
		provider.WithLogging[TranscriptionRequest, *ProviderTranscript](log),
		provider.WithMetrics[TranscriptionRequest, *ProviderTranscript](cfg.metrics, "transcribe"),
		provider.WithTracing[TranscriptionRequest, *ProviderTranscript](cfg.serviceName),
	)(p)

	return &Invoker{provider: wrapped, log: log}
}

// Name returns the underlying provider name.
func (inv *Invoker) Name() string { return inv.provider.Name() }

// IsAvailable reports whether the provider can take requests.
func (inv *Invoker) IsAvailable(ctx context.Context) bool {
	return inv.provider.IsAvailable(ctx)
}

// Transcribe submits req and returns the mapped record. A provider-side job
// failure is a record with Status error; transport and mapping failures are
// returned as errors.
func (inv *Invoker) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptRecord, error) {
	if strings.TrimSpace(req.FilePath) == "" {
		return nil, errors.MissingField("file_path")
	}

	pt, err := inv.provider.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	rec, err := ToRecord(pt)
	if err != nil {
		inv.log.WithError(err).Error("provider response could not be mapped", logger.Fields(logger.FieldJobID, pt.ID))
		return nil, err
	}

	if rec.Failed() {
		inv.log.Warn("transcription job failed", logger.Fields(logger.FieldJobID, pt.ID, logger.FieldError, rec.Error))
	} else {
		inv.log.Info("transcription job completed", logger.Fields(
			logger.FieldJobID, pt.ID,
			"words", len(rec.Words),
			"audio_duration", rec.AudioDuration,
		))
	}
	return rec, nil
}
