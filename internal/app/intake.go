package app

import (
	"context"
	"errors"
	"io"

	"github.com/bft-labs/presenced/internal/ports"
)

// Intake reads console lines and hands them to a Dispatcher while the
// coordinator is Running.
type Intake struct {
	source     ports.LineSource
	dispatcher *Dispatcher
	coord      *Coordinator
	logger     ports.Logger
}

// NewIntake creates an intake loop.
func NewIntake(source ports.LineSource, dispatcher *Dispatcher, coord *Coordinator, logger ports.Logger) *Intake {
	return &Intake{
		source:     source,
		dispatcher: dispatcher,
		coord:      coord,
		logger:     logger,
	}
}

// Run loops until the coordinator leaves Running, ctx is done, or the line
// source ends, then fires done. End of input does not request a stop.
func (in *Intake) Run(ctx context.Context, done *Signal) {
	defer done.Fire()

	src := ports.Source("CommandIntake")
	lines := 0

	for in.coord.Running() && ctx.Err() == nil {
		line, err := in.source.ReadLine(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
			case errors.Is(err, io.EOF):
				in.logger.Info("console input ended", src)
			default:
				in.logger.Debug("console input closed", src, ports.Err(err))
			}
			break
		}

		lines++
		if err := in.dispatcher.Dispatch(ctx, line); err != nil {
			in.logger.Error("command failed", src, ports.Err(err))
		}
	}

	in.logger.Info("command intake stopped", src, ports.Int("lines", lines))
}
