//go:build linux

package ipc

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/adrg/xdg"
)

// register installs a desktop entry so Discord can launch the application
// through the discord-<appID> URL scheme.
func register(appID, steamID string) (string, error) {
	launch := ""
	if steamID != "" {
		launch = "xdg-open steam://rungameid/" + steamID
	} else {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("resolve executable: %w", err)
		}
		launch = exe
	}

	name := "discord-" + appID + ".desktop"
	path, err := xdg.DataFile(filepath.Join("applications", name))
	if err != nil {
		return "", fmt.Errorf("resolve desktop entry path: %w", err)
	}

	entry := fmt.Sprintf("[Desktop Entry]\nName=Game %s\nExec=%s %%u\nType=Application\nNoDisplay=true\nCategories=Discord;Games;\nMimeType=x-scheme-handler/discord-%s;\n",
		appID, launch, appID)
	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return "", fmt.Errorf("write desktop entry: %w", err)
	}

	// Best effort; the entry alone is enough for most desktops.
	_ = exec.Command("xdg-mime", "default", name, "x-scheme-handler/discord-"+appID).Run()
	return path, nil
}
