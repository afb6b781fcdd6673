package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/presenced/internal/domain"
	"github.com/bft-labs/presenced/internal/ports"
)

// Config holds what the controller needs to run.
type Config struct {
	// DataDir is handed to plugins.
	DataDir string

	// ClientID is used when no ClientIDSource is configured.
	ClientID string

	// Interval is the publish spacing. Zero selects DefaultPublishInterval.
	Interval time.Duration

	// ShutdownTimeout bounds Stop's wait for the loops. Zero waits forever.
	ShutdownTimeout time.Duration

	// Snapshot is pushed every cycle.
	Snapshot domain.PresenceSnapshot

	// StartTimestamp stamps Snapshot.StartTime at Start.
	StartTimestamp bool

	AutoRegister bool
	SteamID      string
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("%w: negative interval %s", domain.ErrInvalidConfig, c.Interval)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative shutdown timeout %s", domain.ErrInvalidConfig, c.ShutdownTimeout)
	}
	return nil
}

// Controller wires the presence client, the two loops and the plugins together.
type Controller struct {
	config     Config
	opts       options
	client     ports.PresenceClient
	input      ports.LineSource
	coord      *Coordinator
	dispatcher *Dispatcher
	logger     ports.Logger

	mu       sync.Mutex
	started  bool
	snapshot domain.PresenceSnapshot
}

// New creates a controller in the Stopped state.
func New(cfg Config, client ports.PresenceClient, input ports.LineSource, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: nil presence client", domain.ErrInvalidConfig)
	}
	if input == nil {
		return nil, fmt.Errorf("%w: nil line source", domain.ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	dispatcher := o.dispatcher
	if dispatcher == nil {
		dispatcher = NewDispatcher(o.logger)
	}

	return &Controller{
		config:     cfg,
		opts:       o,
		client:     client,
		input:      input,
		coord:      NewCoordinator(o.logger, o.emitter),
		dispatcher: dispatcher,
		logger:     o.logger,
	}, nil
}

// Start initializes the client and plugins and launches both loops.
// A controller runs once; a second Start returns domain.ErrAlreadyRunning.
// Cancelling ctx requests a stop; Stop must still be called.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return domain.ErrAlreadyRunning
	}
	src := ports.Source("Start")

	appID := c.config.ClientID
	if c.opts.clientIDs != nil {
		appID = c.opts.clientIDs.Load()
	}
	if appID == "" {
		c.logger.Warn("starting without a client id", src)
	}

	snapshot := c.config.Snapshot
	if c.config.StartTimestamp {
		snapshot.StartTime = c.opts.now()
	}

	if err := c.client.Initialize(appID, c.handlers(), c.config.AutoRegister, c.config.SteamID); err != nil {
		return fmt.Errorf("initialize presence client: %w", err)
	}

	pluginCfg := PluginConfig{
		DataDir:  c.config.DataDir,
		ClientID: appID,
		Logger:   c.logger,
	}
	for i, p := range c.opts.plugins {
		if err := p.Initialize(ctx, pluginCfg); err != nil {
			c.logger.Error("plugin initialization failed", src, ports.String("plugin", p.Name()), ports.Err(err))
			c.shutdownPlugins(c.opts.plugins[:i])
			if serr := c.client.Shutdown(); serr != nil {
				c.logger.Error("presence client shutdown failed", src, ports.Err(serr))
			}
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		c.logger.Info("plugin initialized", src, ports.String("plugin", p.Name()))
	}

	if err := c.coord.Arm(); err != nil {
		return err
	}
	c.started = true
	c.snapshot = snapshot

	runCtx := c.coord.Context()
	publisher := NewPublisher(c.client, snapshot, c.config.Interval, c.coord, c.logger)
	intake := NewIntake(c.input, c.dispatcher, c.coord, c.logger)
	pubDone, inDone := c.coord.PublisherDone(), c.coord.IntakeDone()

	go func() {
		applyPriority(PriorityLowest, c.logger)
		publisher.Run(runCtx, pubDone)
	}()
	go func() {
		applyPriority(PriorityHighest, c.logger)
		intake.Run(runCtx, inDone)
	}()

	go func() {
		select {
		case <-ctx.Done():
			c.RequestStop()
		case <-runCtx.Done():
		}
	}()

	c.logger.Info("presence publisher started", src,
		ports.Bool("client_id_set", appID != ""),
		ports.Duration("interval", publisher.interval),
	)
	return nil
}

// Stop requests a stop, waits for both loops, then releases plugins and the
// presence client. It returns domain.ErrShutdownTimeout when the loops did not
// confirm exit within the configured timeout; resources are released anyway.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.coord.State() == StateStopped {
		return domain.ErrNotRunning
	}
	src := ports.Source("Stop")

	c.coord.RequestStop("Stop() called")
	if err := c.input.Close(); err != nil {
		c.logger.Debug("closing console input failed", src, ports.Err(err))
	}

	err := c.coord.AwaitStoppedTimeout(c.config.ShutdownTimeout)

	c.shutdownPlugins(c.opts.plugins)

	if serr := c.client.Shutdown(); serr != nil {
		c.logger.Error("presence client shutdown failed", src, ports.Err(serr))
	}

	c.logger.Info("presence publisher stopped", src, ports.Bool("forced", err != nil))
	return err
}

// RequestStop asks both loops to exit. Only the first call has an effect.
func (c *Controller) RequestStop() bool {
	return c.coord.RequestStop("stop requested")
}

// Done is closed once a stop has been requested. Before Start the
// controller is not running, so the returned channel is already closed.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	if !started {
		return closedChan
	}
	return c.coord.Context().Done()
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Status returns the current run state.
func (c *Controller) Status() RunState {
	return c.coord.State()
}

// Dispatcher returns the console command registry.
func (c *Controller) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// Snapshot returns the presence snapshot built at Start.
func (c *Controller) Snapshot() domain.PresenceSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *Controller) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	if c.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ShutdownTimeout)
		defer cancel()
	}

	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			c.logger.Error("plugin shutdown failed", ports.String("plugin", p.Name()), ports.Err(err))
		} else {
			c.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}
}

// handlers only log; presence events never affect the run state.
func (c *Controller) handlers() ports.EventHandlers {
	return ports.EventHandlers{
		Ready: func() {
			c.logger.Info("presence client ready", ports.Source("ReadyCallback"))
		},
		Disconnected: func(code int, message string) {
			c.logger.Warn("presence client disconnected",
				ports.Source("DisconnectedCallback"),
				ports.Int("code", code),
				ports.String("message", message),
			)
		},
		Errored: func(code int, message string) {
			c.logger.Error("presence client error",
				ports.Source("ErrorCallback"),
				ports.Int("code", code),
				ports.String("message", message),
			)
		},
	}
}
