// Package clientidwatcher reports edits of the stored client ID while presenced runs.
// The running presence connection keeps its identifier; a restart applies the new one.
package clientidwatcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/presenced/internal/adapters/fs"
	"github.com/bft-labs/presenced/internal/app"
	"github.com/bft-labs/presenced/internal/ports"
)

// Plugin watches <data-dir>/Storage for writes to clientId.txt.
type Plugin struct {
	mu sync.Mutex

	debounceDelay time.Duration
	onChange      func(clientID string)

	store    *fs.ClientIDFile
	current  string
	logger   ports.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the watcher.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// OnChange, if set, is called with every reloaded identifier that differs
	// from the one in use.
	OnChange func(clientID string)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a watcher plugin.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		debounceDelay: cfg.DebounceDelay,
		onChange:      cfg.OnChange,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "clientidwatcher"
}

// Initialize starts watching the storage folder.
func (p *Plugin) Initialize(ctx context.Context, cfg app.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	p.current = cfg.ClientID
	p.store = fs.NewClientIDFile(cfg.DataDir, cfg.Logger)
	p.mu.Unlock()

	if cfg.DataDir == "" {
		p.logger.Warn("client id watcher disabled: no data directory", ports.Source(p.Name()))
		return nil
	}

	if err := os.MkdirAll(p.store.Dir(), 0o755); err != nil {
		p.logger.Error("client id watcher: failed to create storage directory", ports.Source(p.Name()), ports.Err(err))
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("client id watcher: failed to create watcher", ports.Source(p.Name()), ports.Err(err))
		return nil
	}
	if err := watcher.Add(p.store.Dir()); err != nil {
		watcher.Close()
		p.logger.Error("client id watcher: failed to watch directory",
			ports.Source(p.Name()), ports.String("dir", p.store.Dir()), ports.Err(err))
		return nil
	}

	// Not derived from ctx: Start's context only lives for the call.
	watchCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	p.logger.Info("client id watcher started", ports.Source(p.Name()), ports.String("dir", p.store.Dir()))
	return nil
}

// Shutdown stops the watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// watchLoop watches for client ID file changes.
func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fs.ClientIDFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("client id watcher: watcher error", ports.Source(p.Name()), ports.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.reload()
	})
}

func (p *Plugin) reload() {
	id := p.store.Load()

	p.mu.Lock()
	previous := p.current
	onChange := p.onChange
	p.mu.Unlock()

	if id == previous {
		p.logger.Debug("client id unchanged", ports.Source(p.Name()))
		return
	}

	p.logger.Warn("client id changed, restart to apply",
		ports.Source(p.Name()),
		ports.String("running", previous),
		ports.String("stored", id),
	)
	if onChange != nil {
		onChange(id)
	}
}

var _ app.Plugin = (*Plugin)(nil)
