package process

import (
	"io"
	"os"
	"time"
)

const defaultGracePeriod = 5 * time.Second

// Command configures a child process.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stderr receives the child's standard error. Nil discards it.
	Stderr io.Writer
	// GracePeriod is how long Close waits after each shutdown step
	// (stdin closed, SIGTERM) before escalating. Defaults to 5 seconds.
	GracePeriod time.Duration
}

func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	return append(os.Environ(), extra...)
}
