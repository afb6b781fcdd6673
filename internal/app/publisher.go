package app

import (
	"context"
	"time"

	"github.com/bft-labs/presenced/internal/domain"
	"github.com/bft-labs/presenced/internal/ports"
)

// DefaultPublishInterval is the minimum spacing between presence pushes.
const DefaultPublishInterval = 100 * time.Millisecond

// Publisher pumps adapter callbacks and pushes the presence snapshot on a
// fixed cadence while the coordinator is Running.
type Publisher struct {
	client   ports.PresenceClient
	snapshot domain.PresenceSnapshot
	interval time.Duration
	coord    *Coordinator
	logger   ports.Logger
}

// NewPublisher creates a publisher. A non-positive interval selects DefaultPublishInterval.
func NewPublisher(
	client ports.PresenceClient,
	snapshot domain.PresenceSnapshot,
	interval time.Duration,
	coord *Coordinator,
	logger ports.Logger,
) *Publisher {
	if interval <= 0 {
		interval = DefaultPublishInterval
	}
	return &Publisher{
		client:   client,
		snapshot: snapshot,
		interval: interval,
		coord:    coord,
		logger:   logger,
	}
}

// Run loops until the coordinator leaves Running or ctx is done, then fires done.
func (p *Publisher) Run(ctx context.Context, done *Signal) {
	defer done.Fire()

	src := ports.Source("StatusPublisher")
	cycles := 0

	for p.coord.Running() && ctx.Err() == nil {
		p.client.RunCallbacks()
		p.client.UpdatePresence(p.snapshot)
		cycles++
		p.logger.Debug("presence published", src, ports.Int("cycle", cycles))

		// The timer starts after the push so cycles never run closer than the interval.
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	p.logger.Info("status publisher stopped", src, ports.Int("cycles", cycles))
}
