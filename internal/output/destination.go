// Package output opens sample destinations and routes formatted lines to
// them.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Stream selectors accepted in place of a path.
const (
	StdoutPath = "^1"
	StderrPath = "^2"
)

// ErrExists is returned when a destination file exists and may not be
// replaced.
var ErrExists = errors.New("file already exists")

// OpenOptions control how existing files are treated.
type OpenOptions struct {
	Replace bool
	Append  bool
	// Confirm is asked before overwriting an existing file when Replace is
	// false. A nil Confirm refuses.
	Confirm func(path string) bool
}

// ExpandPath expands environment variables and a leading ~.
func ExpandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// OpenFile resolves path to a writable file. "" yields nil, "^1" and "^2"
// the process's own streams. The null device yields nil too, callers treat
// a nil file as discard.
func OpenFile(path string, opts OpenOptions) (*os.File, error) {
	switch path {
	case "":
		return nil, nil
	case StdoutPath:
		return os.Stdout, nil
	case StderrPath:
		return os.Stderr, nil
	}
	full := ExpandPath(path)
	if full == os.DevNull {
		return nil, nil
	}

	flags := os.O_CREATE | os.O_WRONLY
	if opts.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	if _, err := os.Stat(full); err == nil && !opts.Append && !opts.Replace {
		if opts.Confirm == nil || !opts.Confirm(full) {
			return nil, fmt.Errorf("%s: %w", full, ErrExists)
		}
	}

	f, err := os.OpenFile(full, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", full, err)
	}
	return f, nil
}

// Destination is one buffered output stream.
type Destination struct {
	name   string
	w      *bufio.Writer
	closer io.Closer
	mu     sync.Mutex
}

// NewDestination wraps w. If w is an *os.File other than stdout or stderr
// it is closed by Close.
func NewDestination(name string, w io.Writer) *Destination {
	d := &Destination{name: name, w: bufio.NewWriter(w)}
	if f, ok := w.(*os.File); ok && f != os.Stdout && f != os.Stderr {
		d.closer = f
	}
	return d
}

// Open opens path and wraps it in a Destination. It returns nil, nil when
// path selects no output.
func Open(path string, opts OpenOptions) (*Destination, error) {
	f, err := OpenFile(path, opts)
	if err != nil || f == nil {
		return nil, err
	}
	return NewDestination(path, f), nil
}

// Name returns the path or selector the destination was opened with.
func (d *Destination) Name() string { return d.name }

func (d *Destination) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return 0, fmt.Errorf("%s: writer is closed", d.name)
	}
	return d.w.Write(p)
}

// Flush pushes buffered bytes to the underlying stream.
func (d *Destination) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return nil
	}
	return d.w.Flush()
}

// Close flushes and closes the underlying file if it owns one.
func (d *Destination) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return nil
	}
	err := d.w.Flush()
	d.w = nil
	if d.closer != nil {
		if cerr := d.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
