package toolclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"

	apperrors "github.com/kbukum/transcribe-mcp/errors"
	"github.com/kbukum/transcribe-mcp/logger"
	"github.com/kbukum/transcribe-mcp/pathmap"
	"github.com/kbukum/transcribe-mcp/process"
	"github.com/kbukum/transcribe-mcp/toolserver"
	"github.com/kbukum/transcribe-mcp/validation"
	"github.com/kbukum/transcribe-mcp/version"
)

// ClientName is sent to the server during initialize.
const ClientName = "transcription-client"

// Client drives one session with a tool server: connect, any number of
// sequential transcriptions, cleanup.
type Client struct {
	cfg        Config
	fs         afero.Fs
	out        io.Writer
	stderr     io.Writer
	translator *pathmap.Translator
	log        *logger.Logger

	mu      sync.Mutex
	session *client.Client
	closers []closer

	cleanupOnce sync.Once
	cleanupErr  error
}

type closer struct {
	name  string
	close func() error
}

// Option configures a Client.
type Option func(*Client)

// WithServerStderr sets where a spawned server's stderr goes. Defaults to
// os.Stderr.
func WithServerStderr(w io.Writer) Option {
	return func(c *Client) { c.stderr = w }
}

// New creates a client. fs is used for the local file checks and out
// receives the progress lines.
func New(cfg Config, fs afero.Fs, out io.Writer, log *logger.Logger, opts ...Option) *Client {
	cfg.ApplyDefaults()
	c := &Client{
		cfg:        cfg,
		fs:         fs,
		out:        out,
		stderr:     os.Stderr,
		translator: pathmap.New(cfg.MountRoot),
		log:        log.WithComponent("toolclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect opens the transport, performs the initialize handshake and lists
// the server's tools, all within the connect timeout. On failure everything
// opened so far is released and a TIMEOUT or CONNECTION_FAILED AppError is
// returned.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	connected := c.session != nil
	c.mu.Unlock()
	if connected {
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	target := c.cfg.target()
	log := c.log.WithFields(logger.Fields(logger.FieldTransport, c.cfg.Transport, "target", target))
	log.Info("connecting to server")

	err := c.connect(ctx, connectCtx)
	if err == nil {
		return nil
	}

	if relErr := c.release(); relErr != nil {
		log.WithError(relErr).Warn("release after failed connect")
	}
	if errors.Is(connectCtx.Err(), context.DeadlineExceeded) {
		log.Error("connection timed out", logger.Fields("timeout", c.cfg.ConnectTimeout.String()))
		return connectTimeoutError(c.cfg.Transport, target)
	}
	log.WithError(err).Error("connection failed")
	return connectFailedError(target, err)
}

func (c *Client) connect(ctx, connectCtx context.Context) error {
	tr, err := c.openTransport()
	if err != nil {
		return err
	}

	// the event stream must outlive the connect bound
	sessionCtx, cancelSession := context.WithCancel(context.WithoutCancel(ctx))
	c.push("stream", func() error { cancelSession(); return nil })

	mc := client.NewClient(tr)
	c.push("session", mc.Close)

	if err := within(connectCtx, func() error { return mc.Start(sessionCtx) }); err != nil {
		return err
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: ClientName, Version: version.Get().Short()}
	res, err := mc.Initialize(connectCtx, initReq)
	if err != nil {
		return err
	}

	tools, err := mc.ListTools(connectCtx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, MsgConnectedHeader)
	for _, tool := range tools.Tools {
		fmt.Fprintf(c.out, "  - %s: %s\n", tool.Name, tool.Description)
	}
	c.log.Info("connected", logger.Fields(
		"server", res.ServerInfo.Name,
		"server_version", res.ServerInfo.Version,
		"tools", len(tools.Tools),
	))

	c.mu.Lock()
	c.session = mc
	c.mu.Unlock()
	return nil
}

func (c *Client) openTransport() (transport.Interface, error) {
	switch c.cfg.Transport {
	case toolserver.BindingStdio:
		h, err := process.Spawn(process.Command{
			Binary: c.cfg.ServerCommand,
			Args:   c.cfg.ServerArgs,
			Env:    append([]string{"MCP_MODE=true"}, c.cfg.ServerEnv...),
			Stderr: c.stderr,
		})
		if err != nil {
			return nil, err
		}
		c.push("process", h.Close)
		c.log.Debug("server process started", logger.Fields("pid", h.Pid()))
		return transport.NewIO(h.Stdout(), h.Stdin(), io.NopCloser(bytes.NewReader(nil))), nil

	case toolserver.BindingSSE:
		return transport.NewSSE(c.cfg.ServerURL)

	default:
		return nil, apperrors.InvalidInput("transport", fmt.Sprintf("unsupported transport %q", c.cfg.Transport))
	}
}

// Transcribe validates filePath locally, then calls transcribe_audio once
// under the call timeout. Outcomes are returned as sentences; the only
// error is a USAGE_ERROR when Connect has not succeeded.
func (c *Client) Transcribe(ctx context.Context, filePath string) (string, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return "", apperrors.Usage(MsgNotConnected)
	}

	hostPath := validation.NormalizeSeparators(filePath)
	fmt.Fprintf(c.out, "Checking host path: %s\n", hostPath)
	if appErr := validation.AudioFile(c.fs, hostPath); appErr != nil {
		if appErr.Code == apperrors.ErrCodeNotFound {
			return msgNotFound(hostPath), nil
		}
		return msgNotMP3(hostPath), nil
	}

	remotePath := hostPath
	if c.cfg.TranslatePaths {
		remotePath = c.translator.ToContainer(hostPath)
		fmt.Fprintf(c.out, "Container path: %s\n", remotePath)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolserver.ToolTranscribeAudio
	req.Params.Arguments = map[string]any{"file_path": remotePath}

	log := c.log.WithFields(logger.Fields(logger.FieldTool, toolserver.ToolTranscribeAudio, logger.FieldFilePath, remotePath))
	var res *mcp.CallToolResult
	err := within(callCtx, func() error {
		var callErr error
		res, callErr = session.CallTool(callCtx, req)
		return callErr
	})
	switch {
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		log.Error("tool call timed out", logger.Fields("timeout", c.cfg.CallTimeout.String()))
		return MsgCallTimeout, nil
	case err != nil:
		log.WithError(err).Error("tool call failed")
		return msgCallFailed(err), nil
	}
	return firstText(res), nil
}

func firstText(res *mcp.CallToolResult) string {
	if res == nil || len(res.Content) == 0 {
		return msgCallFailed(errors.New("empty tool result"))
	}
	if tc, ok := mcp.AsTextContent(res.Content[0]); ok {
		return tc.Text
	}
	return fmt.Sprintf("%v", res.Content[0])
}

// Cleanup releases the session and transport in reverse order of
// acquisition. Only the first call does any work; it is safe after a
// failed Connect.
func (c *Client) Cleanup() error {
	c.cleanupOnce.Do(func() {
		c.cleanupErr = c.release()
	})
	return c.cleanupErr
}

func (c *Client) push(name string, fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, closer{name: name, close: fn})
}

// release closes every acquired resource, newest first, exactly once.
func (c *Client) release() error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.session = nil
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].close(); err != nil {
			c.log.WithError(err).Warn("close failed", logger.Fields("resource", closers[i].name))
			errs = append(errs, fmt.Errorf("%s: %w", closers[i].name, err))
		}
	}
	return errors.Join(errs...)
}

// within runs fn and returns early with ctx's error when ctx ends first.
func within(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
