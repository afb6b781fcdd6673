//go:build linux

package app

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/bft-labs/presenced/internal/ports"
)

var niceValues = map[Priority]int{
	PriorityLowest:  19,
	PriorityHighest: -20,
}

// applyPriority pins the calling goroutine to its OS thread and renices that
// thread. The thread stays locked so it is discarded when the goroutine exits
// instead of returning to the pool with a modified priority.
func applyPriority(p Priority, logger ports.Logger) {
	nice, ok := niceValues[p]
	if !ok {
		return
	}

	runtime.LockOSThread()
	if err := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), nice); err != nil {
		// Raising priority needs CAP_SYS_NICE.
		logger.Debug("scheduling hint not applied",
			ports.Source("Scheduler"),
			ports.String("priority", p.String()),
			ports.Int("nice", nice),
			ports.Err(err),
		)
	}
}
