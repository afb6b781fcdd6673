package clientidwatcher

import "github.com/bft-labs/presenced/internal/app"

// WithClientIDWatcher returns a controller Option that enables the watcher.
//
// Usage:
//
//	c, err := app.New(cfg, client, input,
//	    clientidwatcher.WithClientIDWatcher(clientidwatcher.DefaultConfig()),
//	)
func WithClientIDWatcher(cfg Config) app.Option {
	return app.WithPlugin(New(cfg))
}
