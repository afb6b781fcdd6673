package cliconfig

import "os"

// EnvPrefix is prepended to the upper-cased TOML key of every setting.
const EnvPrefix = "PRESENCED_"

// ApplyEnvConfig applies PRESENCED_* environment variables to cfg.
// Values override the file but not flags that were set explicitly.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data-dir", os.Getenv(EnvPrefix+"DATA_DIR"), &cfg.DataDir)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)
	s.setString("ipc-path", os.Getenv(EnvPrefix+"IPC_PATH"), &cfg.IPCPath)
	s.setString("steam-id", os.Getenv(EnvPrefix+"STEAM_ID"), &cfg.SteamID)

	s.setString("details", os.Getenv(EnvPrefix+"DETAILS"), &cfg.Details)
	s.setString("state", os.Getenv(EnvPrefix+"STATE"), &cfg.State)
	s.setString("large-image-key", os.Getenv(EnvPrefix+"LARGE_IMAGE_KEY"), &cfg.LargeImageKey)
	s.setString("large-image-text", os.Getenv(EnvPrefix+"LARGE_IMAGE_TEXT"), &cfg.LargeImageText)
	s.setString("small-image-key", os.Getenv(EnvPrefix+"SMALL_IMAGE_KEY"), &cfg.SmallImageKey)
	s.setString("small-image-text", os.Getenv(EnvPrefix+"SMALL_IMAGE_TEXT"), &cfg.SmallImageText)

	if err := s.setDuration("interval", os.Getenv(EnvPrefix+"INTERVAL"), &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv(EnvPrefix+"SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setBoolFromString("log-file", os.Getenv(EnvPrefix+"LOG_FILE"), &cfg.LogFile)
	s.setBoolFromString("start-timestamp", os.Getenv(EnvPrefix+"START_TIMESTAMP"), &cfg.StartTimestamp)
	s.setBoolFromString("auto-register", os.Getenv(EnvPrefix+"AUTO_REGISTER"), &cfg.AutoRegister)

	return nil
}
