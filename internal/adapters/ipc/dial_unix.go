//go:build !windows

package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// candidatePaths lists the socket paths a Discord client may listen on.
func candidatePaths() []string {
	base := "/tmp"
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if v := os.Getenv(env); v != "" {
			base = v
			break
		}
	}
	paths := make([]string, 0, socketSlots)
	for i := 0; i < socketSlots; i++ {
		paths = append(paths, filepath.Join(base, fmt.Sprintf("discord-ipc-%d", i)))
	}
	return paths
}

func dialPath(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}
