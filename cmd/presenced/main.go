package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/presenced"
	logAdapter "github.com/bft-labs/presenced/internal/adapters/log"
	"github.com/bft-labs/presenced/internal/cliconfig"
	"github.com/bft-labs/presenced/internal/ports"
)

// Exit codes.
const (
	exitFailure        = 1
	exitAlreadyRunning = 2
)

const helpDescription = `
Keep a Discord Rich Presence status up to date from the command line.

presenced publishes a fixed status every interval over Discord's local IPC
socket and reads operator input from stdin until it receives SIGINT/SIGTERM.

The application client ID is read from <data-dir>/Storage/clientId.txt. The
file is created empty on first run; put your numeric application ID in it.
Settings come from flags, PRESENCED_* environment variables and
<data-dir>/config.toml, in that order of precedence.
`

var exampleUsage = strings.TrimSpace(`
  presenced
  presenced --details "Writing Go" --state "in vim" --start-timestamp
  presenced --config ./config.toml --log-level debug
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	bootLog := logAdapter.NewZerologAdapter()

	root := &cobra.Command{
		Use:           "presenced",
		Short:         "Publish a Discord Rich Presence status",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if err := loadConfig(&cfg, cfgPath, changed); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return presenced.Run(ctx, cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: <data-dir>/config.toml)")
	root.Flags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding Storage/clientId.txt and output.log")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "minimum log level (debug, info, warn, error)")
	root.Flags().BoolVar(&cfg.LogFile, "log-file", cfg.LogFile, "also write logs to <data-dir>/output.log")

	root.Flags().DurationVar(&cfg.Interval, "interval", cfg.Interval, "spacing between presence updates")
	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "how long to wait for a clean stop (0 waits forever)")
	root.Flags().StringVar(&cfg.IPCPath, "ipc-path", cfg.IPCPath, "Discord IPC socket or pipe (default: discovered)")

	root.Flags().StringVar(&cfg.Details, "details", cfg.Details, "first line of the status")
	root.Flags().StringVar(&cfg.State, "state", cfg.State, "second line of the status")
	root.Flags().StringVar(&cfg.LargeImageKey, "large-image-key", cfg.LargeImageKey, "asset key of the large image")
	root.Flags().StringVar(&cfg.LargeImageText, "large-image-text", cfg.LargeImageText, "hover text of the large image")
	root.Flags().StringVar(&cfg.SmallImageKey, "small-image-key", cfg.SmallImageKey, "asset key of the small image")
	root.Flags().StringVar(&cfg.SmallImageText, "small-image-text", cfg.SmallImageText, "hover text of the small image")
	root.Flags().BoolVar(&cfg.StartTimestamp, "start-timestamp", cfg.StartTimestamp, "show time elapsed since start")

	root.Flags().BoolVar(&cfg.AutoRegister, "auto-register", cfg.AutoRegister, "register the discord-<appid> URL handler")
	root.Flags().StringVar(&cfg.SteamID, "steam-id", cfg.SteamID, "Steam app ID used by the URL handler")
	if err := root.Flags().MarkHidden("steam-id"); err != nil {
		bootLog.Info("failed to hide steam-id flag", ports.Err(err))
	}

	if err := root.Execute(); err != nil {
		if errors.Is(err, presenced.ErrAlreadyRunning) {
			os.Exit(exitAlreadyRunning)
		}
		bootLog.Error("presenced", ports.Source("Main"), ports.Err(err))
		os.Exit(exitFailure)
	}
}

// loadConfig layers the config file and PRESENCED_* variables under the flags.
func loadConfig(cfg *cliconfig.Config, cfgPath string, changed map[string]bool) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		dir := cfg.DataDir
		if v := os.Getenv(cliconfig.EnvPrefix + "DATA_DIR"); v != "" && !changed["data-dir"] {
			dir = v
		}
		cfgFile = cliconfig.DefaultConfigPath(dir)
	}

	if cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	} else if cfgPath != "" {
		return fmt.Errorf("config file %s not found", cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}
