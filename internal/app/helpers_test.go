package app

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/bft-labs/presenced/internal/domain"
	"github.com/bft-labs/presenced/internal/ports"
)

// logEntry is one captured log call.
type logEntry struct {
	level  string
	msg    string
	source string
}

// mockLogger implements ports.Logger for testing and records every call.
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (m *mockLogger) add(level, msg string, fields []ports.Field) {
	e := logEntry{level: level, msg: msg}
	for _, f := range fields {
		if f.Key == ports.SourceKey {
			e.source, _ = f.Value.(string)
		}
	}
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
}

func (m *mockLogger) Debug(msg string, fields ...ports.Field) { m.add("debug", msg, fields) }
func (m *mockLogger) Info(msg string, fields ...ports.Field)  { m.add("info", msg, fields) }
func (m *mockLogger) Warn(msg string, fields ...ports.Field)  { m.add("warn", msg, fields) }
func (m *mockLogger) Error(msg string, fields ...ports.Field) { m.add("error", msg, fields) }

func (m *mockLogger) Entries() []logEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]logEntry{}, m.entries...)
}

func (m *mockLogger) find(source string) (logEntry, bool) {
	for _, e := range m.Entries() {
		if e.source == source {
			return e, true
		}
	}
	return logEntry{}, false
}

// mockEmitter tracks state change events for testing.
type mockEmitter struct {
	mu     sync.Mutex
	events []stateChangeEvent
}

type stateChangeEvent struct {
	previous RunState
	current  RunState
	reason   string
}

func (m *mockEmitter) OnStateChange(previous, current RunState, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stateChangeEvent{previous, current, reason})
}

func (m *mockEmitter) Events() []stateChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stateChangeEvent{}, m.events...)
}

func (m *mockEmitter) count(from, to RunState) int {
	n := 0
	for _, e := range m.Events() {
		if e.previous == from && e.current == to {
			n++
		}
	}
	return n
}

// fakeClient records when the publisher touched it.
type fakeClient struct {
	mu        sync.Mutex
	callbacks []time.Time
	pushes    []time.Time
	snapshots []domain.PresenceSnapshot
	handlers  ports.EventHandlers
	shutdowns int
}

func (f *fakeClient) Initialize(appID string, handlers ports.EventHandlers, autoRegister bool, steamID string) error {
	f.mu.Lock()
	f.handlers = handlers
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) UpdatePresence(s domain.PresenceSnapshot) {
	f.mu.Lock()
	f.pushes = append(f.pushes, time.Now())
	f.snapshots = append(f.snapshots, s)
	f.mu.Unlock()
}

func (f *fakeClient) RunCallbacks() {
	f.mu.Lock()
	f.callbacks = append(f.callbacks, time.Now())
	f.mu.Unlock()
}

func (f *fakeClient) Shutdown() error {
	f.mu.Lock()
	f.shutdowns++
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) Pushes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time{}, f.pushes...)
}

func (f *fakeClient) Callbacks() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time{}, f.callbacks...)
}

// fakeLines is a closeable line source fed through a channel.
type fakeLines struct {
	lines     chan string
	done      chan struct{}
	closeOnce sync.Once
	eof       bool
}

func newFakeLines(lines ...string) *fakeLines {
	f := &fakeLines{
		lines: make(chan string, len(lines)+16),
		done:  make(chan struct{}),
	}
	for _, l := range lines {
		f.lines <- l
	}
	return f
}

// endAfterQueued makes ReadLine return io.EOF once the queued lines are drained.
func (f *fakeLines) endAfterQueued() *fakeLines {
	f.eof = true
	return f
}

func (f *fakeLines) ReadLine(ctx context.Context) (string, error) {
	if f.eof {
		select {
		case l := <-f.lines:
			return l, nil
		default:
			return "", io.EOF
		}
	}
	select {
	case l := <-f.lines:
		return l, nil
	case <-f.done:
		return "", io.ErrClosedPipe
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *fakeLines) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}

// waitSignal fails the test if s is not set within d.
func waitSignal(s *Signal, d time.Duration) bool {
	select {
	case <-s.Done():
		return true
	case <-time.After(d):
		return false
	}
}
