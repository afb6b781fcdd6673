package app

import (
	"context"

	"github.com/bft-labs/presenced/internal/ports"
)

// Plugin is an optional component started with the controller and stopped
// after both loops have exited.
type Plugin interface {
	// Name returns a short identifier used in logs.
	Name() string

	// Initialize is called during Start, in registration order.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called during Stop, in reverse registration order.
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin gets to see of the controller.
type PluginConfig struct {
	DataDir  string
	ClientID string
	Logger   ports.Logger
}

// BasePlugin provides no-op Initialize and Shutdown for embedding.
type BasePlugin struct{}

// Initialize does nothing.
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }

// Shutdown does nothing.
func (BasePlugin) Shutdown(context.Context) error { return nil }
