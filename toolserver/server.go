package toolserver

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/afero"

	apperrors "github.com/kbukum/transcribe-mcp/errors"
	"github.com/kbukum/transcribe-mcp/events"
	"github.com/kbukum/transcribe-mcp/logger"
	"github.com/kbukum/transcribe-mcp/observability"
	"github.com/kbukum/transcribe-mcp/store"
	"github.com/kbukum/transcribe-mcp/transcription"
	"github.com/kbukum/transcribe-mcp/validation"
	"github.com/kbukum/transcribe-mcp/version"
)

// ServerName is reported to clients during initialize.
const ServerName = "Audio Transcription Service"

// Transcriber runs one transcription request.
type Transcriber interface {
	Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptRecord, error)
}

// Server exposes transcribe_audio and list_transcripts as protocol tools.
type Server struct {
	mcp         *server.MCPServer
	transcriber Transcriber
	store       *store.Store
	fs          afero.Fs
	events      events.Publisher
	metrics     *observability.Metrics
	serviceName string
	log         *logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithEvents publishes transcription lifecycle events to p.
func WithEvents(p events.Publisher) Option {
	return func(s *Server) { s.events = p }
}

// WithMetrics records tool call metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithServiceName sets the service name used on spans.
func WithServiceName(name string) Option {
	return func(s *Server) { s.serviceName = name }
}

// New builds the tool server. fs is where audio files are checked; the
// store writes transcripts.
func New(t Transcriber, st *store.Store, fs afero.Fs, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		transcriber: t,
		store:       st,
		fs:          fs,
		events:      events.Nop(),
		serviceName: "transcription-server",
		log:         log.WithComponent("toolserver"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		ServerName,
		version.Get().Short(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithLogging(),
		server.WithHooks(newHooks(s.log)),
	)
	s.mcp.AddTool(mcp.NewTool(ToolTranscribeAudio,
		mcp.WithDescription("Transcribe an MP3 audio file using AssemblyAI and save the transcript as JSON."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the MP3 audio file to transcribe."),
		),
	), s.handleTranscribeAudio)
	s.mcp.AddTool(mcp.NewTool(ToolListTranscripts,
		mcp.WithDescription("List all saved JSON transcripts in the transcripts directory."),
	), s.handleListTranscripts)

	return s
}

// MCPServer returns the protocol server for binding to a transport.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

func (s *Server) handleTranscribeAudio(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := req.RequireString("file_path")
	if err != nil {
		s.log.WithError(err).Warn("rejected transcribe_audio call", logger.Fields(logger.FieldTool, ToolTranscribeAudio))
		return mcp.NewToolResultError(msgBadArgument(err)), nil
	}
	return mcp.NewToolResultText(s.TranscribeAudio(ctx, filePath)), nil
}

func (s *Server) handleListTranscripts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.ListTranscripts(ctx)), nil
}

// TranscribeAudio transcribes one MP3 file and stores the transcript. Every
// outcome, including failures, is a sentence for the caller.
func (s *Server) TranscribeAudio(ctx context.Context, filePath string) string {
	requestID := uuid.NewString()
	op := observability.NewOperation(s.serviceName, ToolTranscribeAudio, requestID, s.metrics)
	ctx, span := op.Begin(ctx)

	log := s.log.WithFields(logger.Fields(
		logger.FieldTool, ToolTranscribeAudio,
		logger.FieldRequestID, requestID,
	))

	msg, status, err := s.transcribe(ctx, log, requestID, filePath)
	op.End(ctx, span, status, err)
	return msg
}

func (s *Server) transcribe(ctx context.Context, log *logger.Logger, requestID, filePath string) (string, string, error) {
	if created, err := s.store.EnsureDir(); err != nil {
		log.WithError(err).Error("could not create transcripts directory")
		return msgUnexpected(err), "error", err
	} else if created {
		log.Info("created transcripts directory", logger.Fields("dir", s.store.Dir()))
	}

	filePath = validation.NormalizeSeparators(filePath)
	log = log.WithFields(logger.Fields(logger.FieldFilePath, filePath))
	observability.SetSpanAttribute(ctx, observability.AttrFilePath, filePath)

	if appErr := validation.AudioFile(s.fs, filePath); appErr != nil {
		if appErr.Code == apperrors.ErrCodeNotFound {
			log.Error("file not found")
			return msgNotFound(filePath), "invalid", appErr
		}
		log.Error("invalid file format")
		return MsgNotMP3, "invalid", appErr
	}

	log.Info("starting transcription")
	s.events.Publish(ctx, events.Event{
		Type:      events.TypeTranscriptionStarted,
		RequestID: requestID,
		FilePath:  filePath,
	})

	rec, err := s.transcriber.Transcribe(ctx, transcription.TranscriptionRequest{FilePath: filePath})
	if err != nil {
		log.WithError(err).Error("error during transcription")
		s.publishFailed(ctx, requestID, filePath, err.Error())
		return msgUnexpected(err), "error", err
	}
	if rec.Failed() {
		failed := apperrors.TranscriptionFailed(rec.Error).WithDetail("path", filePath)
		log.WithError(failed).Error("transcription failed")
		s.publishFailed(ctx, requestID, filePath, rec.Error)
		return msgFailed(rec.Error), "failed", failed
	}

	out, err := s.store.Save(filePath, rec)
	if err != nil {
		log.WithError(err).Error("could not save transcript")
		s.publishFailed(ctx, requestID, filePath, err.Error())
		return msgUnexpected(err), "error", err
	}

	log.Info("transcript saved", logger.Fields(logger.FieldOutput, out))
	s.events.Publish(ctx, events.Event{
		Type:      events.TypeTranscriptionCompleted,
		RequestID: requestID,
		FilePath:  filePath,
		Output:    out,
	})
	return msgSaved(out), "ok", nil
}

func (s *Server) publishFailed(ctx context.Context, requestID, filePath, detail string) {
	s.events.Publish(ctx, events.Event{
		Type:      events.TypeTranscriptionFailed,
		RequestID: requestID,
		FilePath:  filePath,
		Error:     detail,
	})
}

// ListTranscripts returns the stored transcript names, one per line.
func (s *Server) ListTranscripts(ctx context.Context) string {
	op := observability.NewOperation(s.serviceName, ToolListTranscripts, uuid.NewString(), s.metrics)
	ctx, span := op.Begin(ctx)

	if _, err := s.store.EnsureDir(); err != nil {
		s.log.WithError(err).Error("could not create transcripts directory")
		op.End(ctx, span, "error", err)
		return msgUnexpected(err)
	}
	names, err := s.store.List()
	if err != nil {
		s.log.WithError(err).Error("could not list transcripts")
		op.End(ctx, span, "error", err)
		return msgUnexpected(err)
	}
	s.log.Info("listed transcripts", logger.Fields("count", len(names)))
	op.End(ctx, span, "ok", nil)

	if len(names) == 0 {
		return MsgNoTranscripts
	}
	return strings.Join(names, "\n")
}
