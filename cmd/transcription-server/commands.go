package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kbukum/transcribe-mcp/bootstrap"
	"github.com/kbukum/transcribe-mcp/config"
	"github.com/kbukum/transcribe-mcp/logger"
	"github.com/kbukum/transcribe-mcp/toolserver"
	"github.com/kbukum/transcribe-mcp/version"
)

// errReported marks failures that were already logged.
var errReported = errors.New("reported")

// cli carries the process boundary so commands can run against fakes.
type cli struct {
	stdin   io.Reader
	stdout  io.Writer
	fs      afero.Fs
	environ func() []string

	configFile string
	transport  string
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Audio transcription tool server",
		Long:          "Serves transcribe_audio and list_transcripts as protocol tools when MCP_MODE=true,\notherwise runs them once from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Mode() == ModeTool {
				return c.serve(cmd.Context(), cfg)
			}
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "path to config.yml")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over stdio or the HTTP event stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.serve(cmd.Context(), cfg)
		},
	}
	serve.Flags().StringVar(&c.transport, "transport", "", "tool transport: stdio or sse (default from TRANSPORT, else sse)")

	transcribe := &cobra.Command{
		Use:   "transcribe <audio_file_path>",
		Short: "Transcribe one MP3 file and save the transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOnce(cmd.Context(), func(ctx context.Context, t *toolserver.Server) string {
				return t.TranscribeAudio(ctx, args[0])
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved transcripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runOnce(cmd.Context(), func(ctx context.Context, t *toolserver.Server) string {
				return t.ListTranscripts(ctx)
			})
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(c.stdout, version.Get().String())
		},
	}

	root.AddCommand(serve, transcribe, list, versionCmd)
	return root
}

func (c *cli) loadConfig() (*Config, error) {
	opts := []config.LoaderOption{config.WithFs(c.fs), config.WithEnviron(c.environ)}
	if c.configFile != "" {
		opts = append(opts, config.WithConfigFile(c.configFile))
	}
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if c.transport != "" {
		cfg.Transport = c.transport
	}
	return &cfg, nil
}

// newApp builds the App and checks the credential. A missing key is logged
// and reported as errReported.
func (c *cli) newApp(cfg *Config) (*bootstrap.App[*Config], error) {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Credentials.Validate(); err != nil {
		app.Logger.Error(config.MissingAPIKeyMessage)
		_ = app.Close()
		return nil, errReported
	}
	return app, nil
}

func (c *cli) serve(ctx context.Context, cfg *Config) error {
	app, err := c.newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	d, err := buildDeps(ctx, app, c.fs)
	if err != nil {
		return err
	}

	log := app.Logger.WithFields(logger.Fields(logger.FieldTransport, cfg.Transport, "mode", cfg.Mode().String()))
	switch cfg.Transport {
	case toolserver.BindingStdio:
		tools := d.tools(app)
		log.Info("serving tools on stdio")
		return app.RunTask(ctx, func(ctx context.Context) error {
			return tools.ServeStdio(ctx, c.stdin, c.stdout)
		})
	default:
		if err := wireSSE(app, d); err != nil {
			return err
		}
		log.Info("serving tools on the HTTP event stream", logger.Fields("addr", cfg.Server.Addr()))
		return app.Run(ctx)
	}
}

// runOnce runs one tool invocation in CLI mode and prints its result.
func (c *cli) runOnce(ctx context.Context, fn func(context.Context, *toolserver.Server) string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Mode() == ModeTool {
		return fmt.Errorf("MCP_MODE=true selects tool mode; use %s serve", serviceName)
	}

	app, err := c.newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	d, err := buildDeps(ctx, app, c.fs)
	if err != nil {
		return err
	}
	tools := d.tools(app)
	return app.RunTask(ctx, func(ctx context.Context) error {
		fmt.Fprintln(c.stdout, fn(ctx, tools))
		return nil
	})
}

func defaultCLI() *cli {
	return &cli{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		fs:      afero.NewOsFs(),
		environ: os.Environ,
	}
}
