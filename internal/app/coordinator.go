package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bft-labs/presenced/internal/domain"
	"github.com/bft-labs/presenced/internal/ports"
)

// DefaultShutdownTimeout bounds the controller's wait for both loops.
const DefaultShutdownTimeout = 30 * time.Second

// RunState is the shared state polled by both loops.
type RunState int32

const (
	StateStopped RunState = iota
	StateRunning
	StateStopRequested
)

// String returns a human-readable representation of the state.
func (s RunState) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	case StateStopRequested:
		return "StopRequested"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when the run state changes.
type EventEmitter interface {
	OnStateChange(previous, current RunState, reason string)
}

// Coordinator owns the run state and the completion signals of the publisher
// and intake loops.
type Coordinator struct {
	state atomic.Int32

	mu        sync.Mutex
	publisher *Signal
	intake    *Signal
	ctx       context.Context
	cancel    context.CancelFunc

	logger       ports.Logger
	eventEmitter EventEmitter
}

// NewCoordinator creates a coordinator in the Stopped state.
func NewCoordinator(logger ports.Logger, emitter EventEmitter) *Coordinator {
	return &Coordinator{
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current run state.
func (c *Coordinator) State() RunState {
	return RunState(c.state.Load())
}

// Running reports whether loops should keep iterating.
func (c *Coordinator) Running() bool {
	return c.State() == StateRunning
}

// Arm prepares a new run: fresh signals, a fresh stop context, state Running.
// It fails with domain.ErrAlreadyRunning unless the coordinator is Stopped.
func (c *Coordinator) Arm() error {
	c.mu.Lock()
	if !c.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		c.mu.Unlock()
		return domain.ErrAlreadyRunning
	}
	c.publisher = NewSignal()
	c.intake = NewSignal()
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.mu.Unlock()

	c.transitioned(StateStopped, StateRunning, "armed")
	return nil
}

// Context is cancelled when a stop is requested. Loops use it to cut
// their waits short.
func (c *Coordinator) Context() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// PublisherDone returns the publisher loop's completion signal for the current run.
func (c *Coordinator) PublisherDone() *Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publisher
}

// IntakeDone returns the intake loop's completion signal for the current run.
func (c *Coordinator) IntakeDone() *Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intake
}

// RequestStop moves Running to StopRequested. Only the first call in a run
// succeeds; later calls return false and change nothing.
func (c *Coordinator) RequestStop(reason string) bool {
	if !c.state.CompareAndSwap(int32(StateRunning), int32(StateStopRequested)) {
		return false
	}

	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	c.transitioned(StateRunning, StateStopRequested, reason)
	return true
}

// AwaitStopped blocks until both loops have fired their completion signals,
// then moves to Stopped. There is no timeout.
func (c *Coordinator) AwaitStopped() error {
	return c.AwaitStoppedTimeout(0)
}

// AwaitStoppedTimeout is AwaitStopped bounded by timeout. On expiry it forces
// the state to Stopped and returns domain.ErrShutdownTimeout. A timeout <= 0
// waits forever.
func (c *Coordinator) AwaitStoppedTimeout(timeout time.Duration) error {
	c.mu.Lock()
	publisher, intake := c.publisher, c.intake
	c.mu.Unlock()
	if publisher == nil || intake == nil {
		return domain.ErrNotRunning
	}

	done := make(chan struct{})
	go func() {
		<-publisher.Done()
		<-intake.Done()
		close(done)
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	reason := "loops exited"
	var err error
	select {
	case <-done:
	case <-expired:
		c.logger.Warn("shutdown timeout, forcing exit",
			ports.Duration("timeout", timeout),
			ports.Bool("publisher_done", publisher.IsSet()),
			ports.Bool("intake_done", intake.IsSet()),
		)
		reason = "shutdown timeout"
		err = domain.ErrShutdownTimeout
	}

	c.mu.Lock()
	previous := c.State()
	c.state.Store(int32(StateStopped))
	c.publisher, c.intake = nil, nil
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	if previous != StateStopped {
		c.transitioned(previous, StateStopped, reason)
	}
	return err
}

func (c *Coordinator) transitioned(from, to RunState, reason string) {
	if c.eventEmitter != nil {
		c.eventEmitter.OnStateChange(from, to, reason)
	}

	c.logger.Info("state transition",
		ports.Source("Coordinator"),
		ports.String("from", from.String()),
		ports.String("to", to.String()),
		ports.String("reason", reason),
	)
}
