// Package ipc implements ports.PresenceClient over the local Discord IPC socket.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	logAdapter "github.com/bft-labs/presenced/internal/adapters/log"
	"github.com/bft-labs/presenced/internal/domain"
	"github.com/bft-labs/presenced/internal/ports"
)

const socketSlots = 10

// Error codes reported through the disconnected and error handlers when the
// peer did not supply one.
const (
	ErrorCodePipeClosed  = 1
	ErrorCodeReadCorrupt = 2
	ErrorCodeUnavailable = 3
)

var (
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("ipc: client already initialized")

	// ErrClientClosed is returned by Initialize after Shutdown.
	ErrClientClosed = errors.New("ipc: client shut down")
)

// Options configures a Client.
type Options struct {
	// Path overrides socket discovery.
	Path string

	// DialTimeout bounds a single connection attempt across all candidate paths.
	DialTimeout time.Duration

	// Backoff schedules reconnect attempts. Defaults to 1s growing to 30s.
	Backoff *backoff.ExponentialBackOff

	Logger ports.Logger
}

type eventKind int

const (
	eventReady eventKind = iota
	eventDisconnected
	eventError
)

type event struct {
	kind    eventKind
	code    int
	message string
}

// Client is a Discord IPC presence client. Initialize, UpdatePresence,
// RunCallbacks and Shutdown must not be called concurrently with each other;
// the per-connection reader goroutine hands events over through a locked queue.
type Client struct {
	opts   Options
	logger ports.Logger
	pid    int

	mu          sync.Mutex
	handlers    ports.EventHandlers
	appID       string
	conn        *connection
	events      []event
	bo          *backoff.ExponentialBackOff
	retryAt     time.Time
	initialized bool
	closed      bool

	wg sync.WaitGroup
}

// NewClient creates an unconnected client.
func NewClient(opts Options) *Client {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 2 * time.Second
	}
	bo := opts.Backoff
	if bo == nil {
		bo = backoff.NewExponentialBackOff()
		bo.InitialInterval = time.Second
		bo.MaxInterval = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}
	return &Client{
		opts:   opts,
		logger: logger,
		pid:    os.Getpid(),
		bo:     bo,
	}
}

// Initialize stores the handlers and makes the first connection attempt.
// Connection failures are not returned; they are logged and queued as error events.
func (c *Client) Initialize(appID string, handlers ports.EventHandlers, autoRegister bool, steamID string) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClientClosed
	case c.initialized:
		c.mu.Unlock()
		return ErrAlreadyInitialized
	}
	c.initialized = true
	c.appID = appID
	c.handlers = handlers
	c.mu.Unlock()

	src := ports.Source("Initialize")
	if appID == "" {
		c.logger.Error("no client id configured, presence disabled", src)
		c.enqueue(event{kind: eventError, code: ErrorCodeUnavailable, message: "no client id configured"})
		return nil
	}

	if autoRegister {
		if path, err := register(appID, steamID); err != nil {
			c.logger.Warn("failed to register url handler", src, ports.Err(err))
		} else if path != "" {
			c.logger.Debug("registered url handler", src, ports.String("path", path))
		}
	}

	c.connect()
	return nil
}

// UpdatePresence sends the snapshot when connected and the peer is ready.
// Identical snapshots are sent once per connection.
func (c *Client) UpdatePresence(s domain.PresenceSnapshot) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil || !conn.ready.Load() {
		return
	}
	if conn.lastSent != nil && conn.lastSent.Equal(s) {
		return
	}

	cmd := command{
		Cmd:   "SET_ACTIVITY",
		Args:  activityArgs{PID: c.pid, Activity: toActivity(s)},
		Nonce: uuid.NewString(),
	}
	if err := conn.send(opFrame, cmd); err != nil {
		c.logger.Debug("presence write failed", ports.Source("UpdatePresence"), ports.Err(err))
		c.drop(conn, ErrorCodePipeClosed, err.Error())
		return
	}
	sent := s
	conn.lastSent = &sent
}

// RunCallbacks reconnects when due, then delivers queued events on the calling goroutine.
func (c *Client) RunCallbacks() {
	c.mu.Lock()
	due := c.initialized && !c.closed && c.appID != "" && c.conn == nil && !time.Now().Before(c.retryAt)
	c.mu.Unlock()
	if due {
		c.connect()
	}

	c.mu.Lock()
	events := c.events
	c.events = nil
	h := c.handlers
	c.mu.Unlock()

	for _, ev := range events {
		switch ev.kind {
		case eventReady:
			if h.Ready != nil {
				h.Ready()
			}
		case eventDisconnected:
			if h.Disconnected != nil {
				h.Disconnected(ev.code, ev.message)
			}
		case eventError:
			if h.Errored != nil {
				h.Errored(ev.code, ev.message)
			}
		}
	}
}

// Shutdown sends a close frame and releases the connection. It is idempotent.
func (c *Client) Shutdown() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	var err error
	if conn != nil {
		_ = conn.send(opClose, struct{}{})
		err = conn.close()
	}
	c.wg.Wait()
	return err
}

// Connected reports whether a connection is established.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *Client) connect() {
	src := ports.Source("Connect")

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.DialTimeout)
	defer cancel()

	nc, path, err := c.dial(ctx)
	if err == nil {
		if herr := encodeFrame(nc, opHandshake, handshake{V: 1, ClientID: c.appID}); herr != nil {
			_ = nc.Close()
			err = fmt.Errorf("handshake %s: %w", path, herr)
		}
	}
	if err != nil {
		c.mu.Lock()
		wait := c.bo.NextBackOff()
		c.retryAt = time.Now().Add(wait)
		c.mu.Unlock()
		c.logger.Error("discord ipc unavailable", src, ports.Err(err), ports.Duration("retry_in", wait))
		c.enqueue(event{kind: eventError, code: ErrorCodeUnavailable, message: err.Error()})
		return
	}

	conn := &connection{conn: nc}
	c.mu.Lock()
	c.bo.Reset()
	c.conn = conn
	c.mu.Unlock()
	c.logger.Info("connected to discord ipc", src, ports.String("path", path))

	c.wg.Add(1)
	go c.readLoop(conn)
}

func (c *Client) dial(ctx context.Context) (net.Conn, string, error) {
	paths := candidatePaths()
	if c.opts.Path != "" {
		paths = []string{c.opts.Path}
	}
	var lastErr error
	for _, p := range paths {
		nc, err := dialPath(ctx, p)
		if err == nil {
			return nc, p, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, "", fmt.Errorf("no discord ipc socket found: %w", lastErr)
}

func (c *Client) readLoop(conn *connection) {
	defer c.wg.Done()
	src := ports.Source("ReadLoop")

	for {
		op, body, err := readFrame(conn.conn)
		if err != nil {
			code := ErrorCodePipeClosed
			if errors.Is(err, errFrameCorrupt) {
				code = ErrorCodeReadCorrupt
			}
			c.drop(conn, code, err.Error())
			return
		}

		switch op {
		case opPing:
			if err := conn.sendRaw(opPong, body); err != nil {
				c.drop(conn, ErrorCodePipeClosed, err.Error())
				return
			}
		case opClose:
			var ed errorData
			_ = json.Unmarshal(body, &ed)
			c.drop(conn, ed.Code, ed.Message)
			return
		case opFrame:
			var msg message
			if err := json.Unmarshal(body, &msg); err != nil {
				c.logger.Debug("ignoring undecodable frame", src, ports.Err(err))
				continue
			}
			switch {
			case msg.Cmd == "DISPATCH" && msg.Evt == "READY":
				conn.ready.Store(true)
				c.enqueue(event{kind: eventReady})
			case msg.Evt == "ERROR":
				var ed errorData
				_ = json.Unmarshal(msg.Data, &ed)
				c.enqueue(event{kind: eventError, code: ed.Code, message: ed.Message})
			default:
				c.logger.Debug("frame", src, ports.String("cmd", msg.Cmd), ports.String("evt", msg.Evt))
			}
		}
	}
}

// drop forgets conn if it is still current and queues a disconnected event.
func (c *Client) drop(conn *connection, code int, msg string) {
	c.mu.Lock()
	current := c.conn == conn
	if current {
		c.conn = nil
		c.retryAt = time.Now().Add(c.bo.NextBackOff())
		if !c.closed {
			c.events = append(c.events, event{kind: eventDisconnected, code: code, message: msg})
		}
	}
	c.mu.Unlock()
	_ = conn.close()
}

func (c *Client) enqueue(ev event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func toActivity(s domain.PresenceSnapshot) *activity {
	if s.IsZero() {
		return nil
	}
	a := &activity{Details: s.Details, State: s.State}
	if !s.StartTime.IsZero() {
		a.Timestamps = &timestamps{Start: s.StartTime.Unix()}
	}
	if s.LargeImageKey != "" || s.LargeImageText != "" || s.SmallImageKey != "" || s.SmallImageText != "" {
		a.Assets = &assets{
			LargeImage: s.LargeImageKey,
			LargeText:  s.LargeImageText,
			SmallImage: s.SmallImageKey,
			SmallText:  s.SmallImageText,
		}
	}
	return a
}

type connection struct {
	conn      net.Conn
	writeMu   sync.Mutex
	ready     atomic.Bool
	closeOnce sync.Once
	closeErr  error

	// lastSent is only touched by UpdatePresence.
	lastSent *domain.PresenceSnapshot
}

func (c *connection) send(op uint32, v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return encodeFrame(c.conn, op, v)
}

func (c *connection) sendRaw(op uint32, body []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return writeFrame(c.conn, op, body)
}

func (c *connection) close() error {
	c.closeOnce.Do(func() { c.closeErr = c.conn.Close() })
	return c.closeErr
}

var _ ports.PresenceClient = (*Client)(nil)
