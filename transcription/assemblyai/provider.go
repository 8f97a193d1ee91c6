package assemblyai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"

	"github.com/kbukum/transcribe-mcp/errors"
	"github.com/kbukum/transcribe-mcp/httpclient"
	"github.com/kbukum/transcribe-mcp/logger"
	"github.com/kbukum/transcribe-mcp/provider"
	"github.com/kbukum/transcribe-mcp/transcription"
)

// Provider implements transcription.Provider against the AssemblyAI v2 REST API:
// upload the audio bytes, submit a job, then poll until the job is terminal.
type Provider struct {
	cfg    Config
	client *httpclient.Client
	fs     afero.Fs
	log    *logger.Logger
}

var _ transcription.Provider = (*Provider)(nil)

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type submitRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
	SpeechModel   string `json:"speech_model"`
}

// New creates a provider that reads audio files from fs.
func New(cfg Config, fs afero.Fs, log *logger.Logger) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.APIKeyAuthHeader(cfg.APIKey, "authorization"),
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		cfg:    cfg,
		client: client,
		fs:     fs,
		log:    log.WithComponent(ProviderName),
	}, nil
}

// NewFactory returns a provider.Factory that decodes a config map into Config.
func NewFactory(fs afero.Fs, log *logger.Logger) provider.Factory[transcription.Provider] {
	return func(m map[string]any) (transcription.Provider, error) {
		var cfg Config
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(m); err != nil {
			return nil, errors.InvalidInput("assemblyai", err.Error())
		}
		return New(cfg, fs, log)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable lists one transcript to check that the API is reachable and
// accepts the key. A rate-limited answer still counts as available.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := httpclient.Get[json.RawMessage](p.client, ctx, "/v2/transcript", httpclient.WithQueryParam("limit", "1"))
	if err == nil {
		return true
	}
	ok, reason := availability(err)
	p.log.WithError(err).Warn("availability check failed", logger.Fields("reason", reason, "available", ok))
	return ok
}

// availability maps a failed check to whether the API can still serve jobs.
func availability(err error) (bool, string) {
	switch {
	case httpclient.IsRateLimit(err):
		return true, "rate limited"
	case httpclient.IsAuth(err):
		return false, "api key rejected"
	case httpclient.IsTimeout(err):
		return false, "request timed out"
	case httpclient.IsConnection(err):
		return false, "api unreachable"
	case httpclient.IsNotFound(err):
		return false, "endpoint not found, check base_url"
	case httpclient.IsServerError(err):
		return false, "api server error"
	default:
		return false, "unexpected response"
	}
}

// Execute uploads the file, submits a job with speaker labels on the best
// model and waits for it to finish. Each step is attempted once.
func (p *Provider) Execute(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.ProviderTranscript, error) {
	audio, err := afero.ReadFile(p.fs, req.FilePath)
	if err != nil {
		return nil, errors.NotFound("audio file", req.FilePath).WithCause(err)
	}

	uploadURL, err := p.upload(ctx, audio)
	if err != nil {
		return nil, err
	}

	id, err := p.submit(ctx, uploadURL)
	if err != nil {
		return nil, err
	}
	p.log.Info("transcription job submitted", logger.Fields(logger.FieldJobID, id, logger.FieldFilePath, req.FilePath))

	return p.wait(ctx, id)
}

func (p *Provider) upload(ctx context.Context, audio []byte) (string, error) {
	resp, err := httpclient.Post[uploadResponse](p.client, ctx, "/v2/upload", audio,
		httpclient.WithHeader("Content-Type", "application/octet-stream"))
	if err != nil {
		return "", httpclient.ToAppError(ProviderName, err)
	}
	if resp.Data.UploadURL == "" {
		return "", errors.Mapping("upload_url")
	}
	return resp.Data.UploadURL, nil
}

func (p *Provider) submit(ctx context.Context, audioURL string) (string, error) {
	body := submitRequest{
		AudioURL:      audioURL,
		SpeakerLabels: true,
		SpeechModel:   SpeechModel,
	}
	resp, err := httpclient.Post[transcription.ProviderTranscript](p.client, ctx, "/v2/transcript", body)
	if err != nil {
		return "", httpclient.ToAppError(ProviderName, err)
	}
	if resp.Data.ID == "" {
		return "", errors.Mapping("id")
	}
	return resp.Data.ID, nil
}

// wait polls the job until it reaches a terminal status or ctx ends.
func (p *Provider) wait(ctx context.Context, id string) (*transcription.ProviderTranscript, error) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		pt, err := p.poll(ctx, id)
		if err != nil {
			return nil, err
		}
		if pt.Status == nil {
			return pt, nil
		}
		if transcription.Status(*pt.Status).IsTerminal() {
			return pt, nil
		}
		p.log.Debug("transcription job pending", logger.Fields(logger.FieldJobID, id, logger.FieldStatus, *pt.Status))

		select {
		case <-ctx.Done():
			return nil, errors.Timeout(fmt.Sprintf("transcription job %s", id)).WithCause(ctx.Err())
		case <-ticker.C:
		}
	}
}

func (p *Provider) poll(ctx context.Context, id string) (*transcription.ProviderTranscript, error) {
	resp, err := httpclient.Get[transcription.ProviderTranscript](p.client, ctx, "/v2/transcript/"+id)
	if err != nil {
		return nil, httpclient.ToAppError(ProviderName, err)
	}
	pt := resp.Data
	if pt.ID == "" {
		pt.ID = id
	}
	return &pt, nil
}
