// Command transcription-client sends one MP3 file to a running
// transcription server and prints the result.
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
	apperrors "github.com/kbukum/transcribe-mcp/errors"
	"github.com/kbukum/transcribe-mcp/toolclient"
)

// Printed when the audio path argument is missing.
const (
	MsgNoPath  = `Error: No audio file path provided. Usage: transcription-client "<audio_file_path>"`
	msgExample = `Example: transcription-client "C:\Users\HomePC\Music\my_audio.mp3"`
)

var errReported = errors.New("reported")

type cli struct {
	stdout  io.Writer
	fs      afero.Fs
	environ func() []string
	opts    []toolclient.Option
}

func newRootCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:           serviceName + ` "<audio_file_path>"`,
		Short:         "Transcribe an MP3 file through the transcription server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(c.stdout, MsgNoPath)
				fmt.Fprintln(c.stdout, msgExample)
				return errReported
			}
			return c.run(cmd.Context(), args[0])
		},
	}
}

func (c *cli) run(ctx context.Context, audioPath string) error {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, config.WithFs(c.fs), config.WithEnviron(c.environ)); err != nil {
		return err
	}
	app, err := bootstrap.NewApp(&cfg, bootstrap.WithSummaryOutput(io.Discard))
	if err != nil {
		return err
	}
	defer app.Close()

	client := toolclient.New(cfg.Config, c.fs, c.stdout, app.Logger, c.opts...)
	app.OnStop(func(context.Context) error { return client.Cleanup() })

	return app.RunTask(ctx, func(ctx context.Context) error {
		if err := client.Connect(ctx); err != nil {
			fmt.Fprintln(c.stdout, userMessage(err))
			return errReported
		}

		fmt.Fprintf(c.stdout, "\nTranscribing audio file: %s\n", audioPath)
		result, err := client.Transcribe(ctx, audioPath)
		if err != nil {
			fmt.Fprintln(c.stdout, userMessage(err))
			return errReported
		}
		fmt.Fprintf(c.stdout, "\nTranscription Response: %s\n", result)
		return nil
	})
}

func userMessage(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}

func main() {
	c := &cli{stdout: os.Stdout, fs: afero.NewOsFs(), environ: os.Environ}
	if err := newRootCmd(c).ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
