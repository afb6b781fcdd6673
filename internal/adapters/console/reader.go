// Package console adapts a line-oriented input stream to ports.LineSource.
package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/bft-labs/presenced/internal/ports"
)

// ErrClosed is returned by ReadLine after Close.
var ErrClosed = errors.New("console: reader closed")

// Reader scans lines from an io.Reader on a background goroutine so that
// ReadLine can be abandoned by context cancellation or Close.
type Reader struct {
	lines chan string
	errc  chan error
	done  chan struct{}
	once  sync.Once
	fd    int
}

// NewReader starts scanning r.
func NewReader(r io.Reader) *Reader {
	c := &Reader{
		lines: make(chan string),
		errc:  make(chan error, 1),
		done:  make(chan struct{}),
		fd:    -1,
	}
	if f, ok := r.(*os.File); ok {
		c.fd = int(f.Fd())
	}
	go c.scan(r)
	return c
}

// NewStdin returns a Reader over os.Stdin.
func NewStdin() *Reader {
	return NewReader(os.Stdin)
}

func (c *Reader) scan(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-c.done:
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.errc <- err
}

// ReadLine blocks until a line is available, the input ends (io.EOF),
// the reader is closed (ErrClosed) or ctx is done.
func (c *Reader) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-c.lines:
		return line, nil
	case err := <-c.errc:
		// Keep the terminal error visible to later calls.
		c.errc <- err
		return "", err
	case <-c.done:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close unblocks pending and future ReadLine calls. It is safe to call more than once.
// The underlying reader is not closed.
func (c *Reader) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

// Interactive reports whether the input is a terminal.
func (c *Reader) Interactive() bool {
	return c.fd >= 0 && term.IsTerminal(c.fd)
}

var _ ports.LineSource = (*Reader)(nil)
