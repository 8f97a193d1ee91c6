package process

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/kbukum/transcribe-mcp/errors"
)

// Handle is a running child process whose stdin and stdout are pipes owned
// by the caller.
type Handle struct {
	cmd    *exec.Cmd
	stdin  *os.File
	stdout *os.File
	grace  time.Duration

	done    chan struct{}
	waitErr error

	closeOnce sync.Once
	closeErr  error
}

// Spawn starts cmd in its own process group with piped stdin and stdout.
func Spawn(cmd Command) (*Handle, error) {
	if cmd.Binary == "" {
		return nil, errors.InvalidInput("binary", "process binary is required")
	}
	grace := cmd.GracePeriod
	if grace <= 0 {
		grace = defaultGracePeriod
	}

	inR, inW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdin pipe: %w", err)
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		_ = inR.Close()
		_ = inW.Close()
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}

	c := exec.Command(cmd.Binary, cmd.Args...) //nolint:gosec // the server command is operator configuration
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	c.Stdin = inR
	c.Stdout = outW
	c.Stderr = cmd.Stderr
	// own process group so shutdown signals reach the whole tree
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := c.Start(); err != nil {
		for _, f := range []*os.File{inR, inW, outR, outW} {
			_ = f.Close()
		}
		return nil, errors.ConnectionFailed(cmd.Binary).WithCause(err)
	}
	// the child holds its own copies
	_ = inR.Close()
	_ = outW.Close()

	h := &Handle{
		cmd:    c,
		stdin:  inW,
		stdout: outR,
		grace:  grace,
		done:   make(chan struct{}),
	}
	go func() {
		h.waitErr = c.Wait()
		close(h.done)
	}()
	return h, nil
}

// Stdin is the write end of the child's standard input.
func (h *Handle) Stdin() io.WriteCloser { return h.stdin }

// Stdout is the read end of the child's standard output.
func (h *Handle) Stdout() io.ReadCloser { return h.stdout }

// Pid returns the child's process id.
func (h *Handle) Pid() int { return h.cmd.Process.Pid }

// Done is closed when the child has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

// ExitCode returns the child's exit code, or -1 while it runs or when it
// was ended by a signal.
func (h *Handle) ExitCode() int {
	select {
	case <-h.done:
		return h.cmd.ProcessState.ExitCode()
	default:
		return -1
	}
}

// Close shuts the child down: close stdin and wait, then SIGTERM the group
// and wait, then SIGKILL. Pipes are released afterwards. Only the first
// call does any work.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.closeErr = h.shutdown()
		_ = h.stdout.Close()
	})
	return h.closeErr
}

func (h *Handle) shutdown() error {
	_ = h.stdin.Close()
	if h.waitFor(h.grace) {
		return nil
	}

	pgid := -h.cmd.Process.Pid
	if err := syscall.Kill(pgid, syscall.SIGTERM); err != nil && err != syscall.ESRCH {
		return fmt.Errorf("process: terminate: %w", err)
	}
	if h.waitFor(h.grace) {
		return nil
	}

	if err := syscall.Kill(pgid, syscall.SIGKILL); err != nil && err != syscall.ESRCH {
		return fmt.Errorf("process: kill: %w", err)
	}
	<-h.done
	return nil
}

func (h *Handle) waitFor(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-h.done:
		return true
	case <-t.C:
		return false
	}
}
