package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ConfigFileName is looked up inside the data directory.
const ConfigFileName = "config.toml"

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
// Snapshot text fields are pointers so a file can set them to "".
type FileConfig struct {
	DataDir         string  `toml:"data_dir"`
	LogLevel        string  `toml:"log_level"`
	LogFile         *bool   `toml:"log_file"`
	Interval        string  `toml:"interval"`
	ShutdownTimeout string  `toml:"shutdown_timeout"`
	IPCPath         string  `toml:"ipc_path"`
	Details         *string `toml:"details"`
	State           *string `toml:"state"`
	LargeImageKey   *string `toml:"large_image_key"`
	LargeImageText  *string `toml:"large_image_text"`
	SmallImageKey   *string `toml:"small_image_key"`
	SmallImageText  *string `toml:"small_image_text"`
	StartTimestamp  *bool   `toml:"start_timestamp"`
	AutoRegister    *bool   `toml:"auto_register"`
	SteamID         string  `toml:"steam_id"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns <data-dir>/config.toml.
func DefaultConfigPath(dataDir string) string {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	return filepath.Join(dataDir, ConfigFileName)
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data-dir", fc.DataDir, &cfg.DataDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("ipc-path", fc.IPCPath, &cfg.IPCPath)
	s.setString("steam-id", fc.SteamID, &cfg.SteamID)

	if err := s.setDuration("interval", fc.Interval, &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setOptionalString("details", fc.Details, &cfg.Details)
	s.setOptionalString("state", fc.State, &cfg.State)
	s.setOptionalString("large-image-key", fc.LargeImageKey, &cfg.LargeImageKey)
	s.setOptionalString("large-image-text", fc.LargeImageText, &cfg.LargeImageText)
	s.setOptionalString("small-image-key", fc.SmallImageKey, &cfg.SmallImageKey)
	s.setOptionalString("small-image-text", fc.SmallImageText, &cfg.SmallImageText)

	s.setBool("log-file", fc.LogFile, &cfg.LogFile)
	s.setBool("start-timestamp", fc.StartTimestamp, &cfg.StartTimestamp)
	s.setBool("auto-register", fc.AutoRegister, &cfg.AutoRegister)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
