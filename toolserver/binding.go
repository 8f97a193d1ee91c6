package toolserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/kbukum/transcribe-mcp/component"
	"github.com/kbukum/transcribe-mcp/logger"
)

// Transport bindings.
const (
	BindingStdio = "stdio"
	BindingSSE   = "sse"
)

// Endpoint paths of the SSE binding.
const (
	SSEPath     = "/sse"
	MessagePath = "/message"
)

// ServeStdio serves the tools as newline-delimited JSON-RPC over in and out
// until ctx ends or in reaches EOF. Nothing else may write to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.log.StdLogger(zerolog.ErrorLevel))

	s.log.Info("serving tools", logger.Fields(logger.FieldTransport, BindingStdio))
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	s.log.Info("stdio session ended")
	return nil
}

// Host is the HTTP server the SSE binding mounts on.
type Host interface {
	Handle(pattern string, handler http.Handler)
	HTTPServer() *http.Server
}

// SSEBinding serves the tools over the HTTP event-stream transport. It is a
// component so the bootstrap registry closes open sessions on shutdown.
type SSEBinding struct {
	sse *server.SSEServer
	log *logger.Logger
}

var _ component.Component = (*SSEBinding)(nil)

// NewSSEBinding mounts the stream and message endpoints on host.
func (s *Server) NewSSEBinding(host Host) *SSEBinding {
	sse := server.NewSSEServer(s.mcp,
		server.WithSSEEndpoint(SSEPath),
		server.WithMessageEndpoint(MessagePath),
		// relative message URL so clients resolve it against whatever host they dialed
		server.WithUseFullURLForMessageEndpoint(false),
		server.WithKeepAlive(true),
		server.WithHTTPServer(host.HTTPServer()),
	)
	host.Handle(SSEPath, sse.SSEHandler())
	host.Handle(MessagePath, sse.MessageHandler())
	return &SSEBinding{sse: sse, log: s.log}
}

func (b *SSEBinding) Name() string { return "toolserver-sse" }

func (b *SSEBinding) Start(_ context.Context) error {
	b.log.Info("serving tools", logger.Fields(
		logger.FieldTransport, BindingSSE,
		"stream", SSEPath,
		"message", MessagePath,
	))
	return nil
}

// Stop closes every open session and shuts the host server down.
func (b *SSEBinding) Stop(ctx context.Context) error {
	return b.sse.Shutdown(ctx)
}

func (b *SSEBinding) Health(_ context.Context) component.Health {
	return component.Health{Name: b.Name(), Status: component.StatusHealthy}
}
