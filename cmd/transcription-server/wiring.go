package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/afero"

	"github.com/kbukum/transcribe-mcp/bootstrap"
	"github.com/kbukum/transcribe-mcp/component"
	"github.com/kbukum/transcribe-mcp/events"
	"github.com/kbukum/transcribe-mcp/observability"
	"github.com/kbukum/transcribe-mcp/server"
	"github.com/kbukum/transcribe-mcp/store"
	"github.com/kbukum/transcribe-mcp/toolserver"
	"github.com/kbukum/transcribe-mcp/transcription"
	"github.com/kbukum/transcribe-mcp/transcription/assemblyai"
)

// deps are the pieces shared by every mode.
type deps struct {
	fs      afero.Fs
	invoker *transcription.Invoker
	store   *store.Store
	metrics *observability.Metrics
}

func buildDeps(ctx context.Context, app *bootstrap.App[*Config], fs afero.Fs) (*deps, error) {
	cfg := app.Cfg

	metrics, shutdown, err := observability.Setup(ctx, cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	}, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}
	app.OnStop(func(ctx context.Context) error { return shutdown(ctx) })

	registry := transcription.NewRegistry()
	registry.RegisterFactory(assemblyai.ProviderName, assemblyai.NewFactory(fs, app.Logger))
	p, err := registry.Create(assemblyai.ProviderName, providerSettings(cfg.AssemblyAI))
	if err != nil {
		return nil, err
	}
	app.Summary.TrackClient(p.Name(), cfg.AssemblyAI.BaseURL, "http")

	return &deps{
		fs:      fs,
		invoker: transcription.NewInvoker(p, app.Logger, transcription.WithMetrics(metrics), transcription.WithServiceName(cfg.Name)),
		store:   store.New(fs, cfg.TranscriptsDir),
		metrics: metrics,
	}, nil
}

func providerSettings(c assemblyai.Config) map[string]any {
	return map[string]any{
		"api_key":       c.APIKey,
		"base_url":      c.BaseURL,
		"poll_interval": c.PollInterval,
		"timeout":       c.Timeout,
	}
}

func (d *deps) tools(app *bootstrap.App[*Config], opts ...toolserver.Option) *toolserver.Server {
	opts = append([]toolserver.Option{
		toolserver.WithMetrics(d.metrics),
		toolserver.WithServiceName(app.Cfg.Name),
	}, opts...)
	t := toolserver.New(d.invoker, d.store, d.fs, app.Logger, opts...)
	app.Summary.TrackTool(toolserver.ToolTranscribeAudio)
	app.Summary.TrackTool(toolserver.ToolListTranscripts)
	return t
}

// wireSSE builds the HTTP host for the event-stream binding. Components
// stop in reverse: binding (closes tool sessions and the listener), then
// the HTTP server, then the events hub.
func wireSSE(app *bootstrap.App[*Config], d *deps) error {
	cfg := app.Cfg

	feed := events.NewComponent(app.Logger)
	srv := server.New(cfg.Server, app.Logger)
	srv.OnShutdown(feed.Hub().Stop)
	srv.RegisterEndpoints(cfg.Name, app.Components.HealthAll)
	srv.GinEngine().GET("/events", events.Handler(feed.Hub(), events.DefaultKeepAlive))

	binding := d.tools(app, toolserver.WithEvents(feed.Hub())).NewSSEBinding(srv)

	for _, c := range []component.Component{
		feed,
		server.NewComponent(srv),
		binding,
		&component.Checker{CheckName: d.invoker.Name(), Probe: d.invoker.IsAvailable},
	} {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	app.Summary.TrackRoute(http.MethodGet, toolserver.SSEPath, "tool stream")
	app.Summary.TrackRoute(http.MethodPost, toolserver.MessagePath, "tool messages")
	app.Summary.TrackRoute(http.MethodGet, "/events", "transcription events")
	app.Summary.TrackRoute(http.MethodGet, "/health", "health")
	app.Summary.TrackRoute(http.MethodGet, "/version", "version")
	return nil
}
