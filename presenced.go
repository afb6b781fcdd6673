// Package presenced publishes a Discord Rich Presence status until asked to stop.
//
// Example usage:
//
//	cfg := presenced.DefaultConfig()
//	cfg.Details = "Writing Go"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := presenced.Run(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
package presenced

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bft-labs/presenced/internal/adapters/console"
	"github.com/bft-labs/presenced/internal/adapters/fs"
	"github.com/bft-labs/presenced/internal/adapters/ipc"
	logAdapter "github.com/bft-labs/presenced/internal/adapters/log"
	"github.com/bft-labs/presenced/internal/app"
	"github.com/bft-labs/presenced/internal/cliconfig"
	"github.com/bft-labs/presenced/internal/domain"
	"github.com/bft-labs/presenced/internal/instance"
	"github.com/bft-labs/presenced/internal/ports"
	"github.com/bft-labs/presenced/plugins/clientidwatcher"
)

// Config holds the configuration of a presenced process.
type Config = cliconfig.Config

// ErrAlreadyRunning is returned by Run when another process holds the instance lock.
var ErrAlreadyRunning = domain.ErrAlreadyRunning

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Run takes the instance lock, publishes presence and reads stdin until ctx
// is cancelled or a console command requests a stop. cfg must be validated.
func Run(ctx context.Context, cfg Config) error {
	level, err := logAdapter.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, closer, err := logAdapter.OpenZerologAdapter(logAdapter.Options{
		Level:   level,
		Console: os.Stderr,
		File:    cfg.LogPath(),
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	src := ports.Source("Run")

	lockPath, err := instance.DefaultPath("presenced")
	if err != nil {
		return err
	}
	guard, err := instance.Acquire(lockPath)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRunning) {
			logger.Error("another instance is already running", src, ports.String("lock", lockPath))
		}
		return err
	}
	defer guard.Release()

	logger.Info("configuration", src,
		ports.String("data_dir", cfg.DataDir),
		ports.String("log_level", cfg.LogLevel),
		ports.Duration("interval", cfg.Interval),
		ports.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		ports.String("ipc_path", cfg.IPCPath),
	)

	input := console.NewStdin()
	logger.Info("console attached", src, ports.Bool("interactive", input.Interactive()))

	client := ipc.NewClient(ipc.Options{
		Path:   cfg.IPCPath,
		Logger: logger,
	})

	c, err := app.New(app.Config{
		DataDir:         cfg.DataDir,
		Interval:        cfg.Interval,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Snapshot:        cfg.Snapshot(),
		StartTimestamp:  cfg.StartTimestamp,
		AutoRegister:    cfg.AutoRegister,
		SteamID:         cfg.SteamID,
	}, client, input,
		app.WithLogger(logger),
		app.WithClientIDSource(fs.NewClientIDFile(cfg.DataDir, logger)),
		clientidwatcher.WithClientIDWatcher(clientidwatcher.DefaultConfig()),
	)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	<-c.Done()
	if ctx.Err() != nil {
		logger.Info("received signal, stopping", src)
	} else {
		logger.Info("stop requested", src)
	}

	if err := c.Stop(); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}
