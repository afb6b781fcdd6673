package cliconfig

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/bft-labs/presenced/internal/domain"
)

// Defaults for the presence snapshot.
const (
	DefaultDetails        = "Being Lewd"
	DefaultLargeImageKey  = "nekoemblem"
	DefaultLargeImageText = "Neko Boi OS Logo"
)

// LogFileName is written inside the data directory when file logging is on.
const LogFileName = "output.log"

// Config holds CLI configuration for presenced.
type Config struct {
	DataDir  string
	LogLevel string
	LogFile  bool

	Interval        time.Duration
	ShutdownTimeout time.Duration
	IPCPath         string

	Details        string
	State          string
	LargeImageKey  string
	LargeImageText string
	SmallImageKey  string
	SmallImageText string
	StartTimestamp bool

	AutoRegister bool
	SteamID      string
}

// DefaultDataDir returns the per-user data directory.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "presenced")
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		DataDir:         DefaultDataDir(),
		LogLevel:        "info",
		LogFile:         true,
		Interval:        100 * time.Millisecond,
		ShutdownTimeout: 30 * time.Second,
		Details:         DefaultDetails,
		LargeImageKey:   DefaultLargeImageKey,
		LargeImageText:  DefaultLargeImageText,
		AutoRegister:    true,
	}
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "verbose": true, "info": true,
	"warn": true, "error": true, "fatal": true, "panic": true, "disabled": true,
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("%w: unknown log level %q", domain.ErrInvalidConfig, c.LogLevel)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", domain.ErrInvalidConfig)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown timeout must not be negative", domain.ErrInvalidConfig)
	}
	for _, r := range c.SteamID {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: steam id must be numeric", domain.ErrInvalidConfig)
		}
	}
	return nil
}

// LogPath returns the log file path, or "" when file logging is off.
func (c Config) LogPath() string {
	if !c.LogFile {
		return ""
	}
	return filepath.Join(c.DataDir, LogFileName)
}

// Snapshot builds the presence snapshot. StartTime is left for the controller.
func (c Config) Snapshot() domain.PresenceSnapshot {
	return domain.PresenceSnapshot{
		Details:        c.Details,
		State:          c.State,
		LargeImageKey:  c.LargeImageKey,
		LargeImageText: c.LargeImageText,
		SmallImageKey:  c.SmallImageKey,
		SmallImageText: c.SmallImageText,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setOptionalString sets a string from a pointer so files can clear a default.
func (s *configSetter) setOptionalString(flag string, value *string, dst *string) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
