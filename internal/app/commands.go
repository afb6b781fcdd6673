package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bft-labs/presenced/internal/ports"
)

// CommandFunc handles one console command. args excludes the command name.
type CommandFunc func(ctx context.Context, args []string) error

var (
	// ErrInvalidCommand is returned when registering a command with an unusable name.
	ErrInvalidCommand = errors.New("invalid command name")

	// ErrDuplicateCommand is returned when a name is registered twice.
	ErrDuplicateCommand = errors.New("command already registered")
)

// Dispatcher maps the first word of a console line to a command.
// Names are case-insensitive. A new Dispatcher knows no commands.
type Dispatcher struct {
	mu       sync.RWMutex
	commands map[string]CommandFunc
	logger   ports.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger ports.Logger) *Dispatcher {
	return &Dispatcher{
		commands: make(map[string]CommandFunc),
		logger:   logger,
	}
}

// Register adds a command.
func (d *Dispatcher) Register(name string, fn CommandFunc) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || strings.ContainsAny(key, " \t\r\n") || fn == nil {
		return fmt.Errorf("%w: %q", ErrInvalidCommand, name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.commands[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, name)
	}
	d.commands[key] = fn
	return nil
}

// Commands returns the registered names in sorted order.
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the command named by the first word of line.
// Empty lines and unknown commands are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) error {
	src := ports.Source("CommandIntake")

	fields := strings.Fields(line)
	if len(fields) == 0 {
		d.logger.Debug("empty input ignored", src)
		return nil
	}

	d.mu.RLock()
	fn, ok := d.commands[strings.ToLower(fields[0])]
	d.mu.RUnlock()
	if !ok {
		d.logger.Debug("unknown command ignored", src, ports.String("command", fields[0]))
		return nil
	}

	if err := fn(ctx, fields[1:]); err != nil {
		return fmt.Errorf("command %s: %w", fields[0], err)
	}
	return nil
}
