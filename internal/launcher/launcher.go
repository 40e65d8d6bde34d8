// Package launcher starts the profiled command as a child process.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// LaunchError reports a command that could not be found or started. No
// samples exist when it is returned.
type LaunchError struct {
	Argv []string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot launch %q: %v", strings.Join(e.Argv, " "), e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Options configure the child's environment. Nil writers discard output.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Dir    string
	Env    []string
}

// Child is a running (or finished) child process.
type Child struct {
	argv    []string
	cmd     *exec.Cmd
	started time.Time

	done     chan struct{}
	mu       sync.Mutex
	waitErr  error
	exitCode int
}

// Launch starts argv as given: argv[0] is resolved on PATH and the rest are
// passed verbatim, never through a shell.
func Launch(argv []string, opts Options) (*Child, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, &LaunchError{Argv: argv, Err: errors.New("empty command")}
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, &LaunchError{Argv: argv, Err: err}
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Args = append([]string(nil), argv...)
	cmd.Dir = opts.Dir
	cmd.Stdout = nilIfNilFile(opts.Stdout)
	cmd.Stderr = nilIfNilFile(opts.Stderr)
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Argv: argv, Err: err}
	}

	c := &Child{
		argv:    append([]string(nil), argv...),
		cmd:     cmd,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go c.wait()
	return c, nil
}

func (c *Child) wait() {
	err := c.cmd.Wait()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
		err = nil
	} else if err != nil {
		code = -1
	}
	c.mu.Lock()
	c.waitErr = err
	c.exitCode = code
	c.mu.Unlock()
	close(c.done)
}

// PID returns the child's process id.
func (c *Child) PID() int { return c.cmd.Process.Pid }

// Argv returns the command as launched.
func (c *Child) Argv() []string { return append([]string(nil), c.argv...) }

// Started returns when the child was started.
func (c *Child) Started() time.Time { return c.started }

// Exited reports, without blocking, whether the child has finished.
func (c *Child) Exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Done is closed once the child has been reaped.
func (c *Child) Done() <-chan struct{} { return c.done }

// Wait blocks until the child exits and returns its exit code. A non-nil
// error means the exit status could not be collected.
func (c *Child) Wait() (int, error) {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exitCode, c.waitErr
}

// Interrupt asks a still-running child to stop.
func (c *Child) Interrupt() error {
	if c.Exited() {
		return nil
	}
	if err := c.cmd.Process.Signal(os.Interrupt); err != nil {
		return c.cmd.Process.Kill()
	}
	return nil
}

// Kill terminates a still-running child.
func (c *Child) Kill() error {
	if c.Exited() {
		return nil
	}
	return c.cmd.Process.Kill()
}

// nilIfNilFile turns a typed-nil *os.File into an untyped nil so exec
// connects the stream to the null device.
func nilIfNilFile(w io.Writer) io.Writer {
	if f, ok := w.(*os.File); ok && f == nil {
		return nil
	}
	return w
}
