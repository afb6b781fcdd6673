package app

import (
	"time"

	logAdapter "github.com/bft-labs/presenced/internal/adapters/log"
	"github.com/bft-labs/presenced/internal/ports"
)

// Option configures optional behavior of a Controller.
type Option func(*options)

type options struct {
	logger     ports.Logger
	emitter    EventEmitter
	plugins    []Plugin
	dispatcher *Dispatcher
	clientIDs  ports.ClientIDSource
	now        func() time.Time
}

func defaultOptions() options {
	return options{
		logger: logAdapter.NewNoopLogger(),
		now:    time.Now,
	}
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(logger ports.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventEmitter receives run state transitions.
func WithEventEmitter(emitter EventEmitter) Option {
	return func(o *options) {
		o.emitter = emitter
	}
}

// WithPlugin registers a plugin. Plugins are initialized in registration
// order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithDispatcher supplies the console command registry.
func WithDispatcher(d *Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithClientIDSource loads the application identifier at Start.
// It takes precedence over Config.ClientID.
func WithClientIDSource(src ports.ClientIDSource) Option {
	return func(o *options) {
		o.clientIDs = src
	}
}

// WithClock overrides the time source used to stamp the presence start time.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
