//go:build !linux

package app

import "github.com/bft-labs/presenced/internal/ports"

func applyPriority(Priority, ports.Logger) {}
