package toolserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kbukum/transcribe-mcp/logger"
)

func newHooks(log *logger.Logger) *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddOnRegisterSession(func(_ context.Context, session server.ClientSession) {
		log.Info("client session opened", logger.Fields("session_id", session.SessionID()))
	})
	hooks.AddOnUnregisterSession(func(_ context.Context, session server.ClientSession) {
		log.Info("client session closed", logger.Fields("session_id", session.SessionID()))
	})
	hooks.AddAfterInitialize(func(_ context.Context, _ any, req *mcp.InitializeRequest, _ *mcp.InitializeResult) {
		log.Info("client initialized", logger.Fields(
			"client", req.Params.ClientInfo.Name,
			"client_version", req.Params.ClientInfo.Version,
		))
	})
	hooks.AddOnError(func(_ context.Context, _ any, method mcp.MCPMethod, _ any, err error) {
		log.WithError(err).Warn("request failed", logger.Fields("method", string(method)))
	})
	return hooks
}
