package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.tunewaverc, $XDG_CONFIG_HOME/tunewave/config.toml, ~/.config/tunewave/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Path returns the config file that Load would read, or "" if none exists.
func Path() string {
	return findConfigFile()
}

// DefaultPath returns where 'config init' writes a new config file.
func DefaultPath() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "tunewave", "config.toml"), nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".tunewaverc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "tunewave", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Server
	envString("TUNEWAVE_SERVER_ADDR", &cfg.Server.Addr)
	envInt("TUNEWAVE_SERVER_STREAM_INTERVAL", &cfg.Server.StreamInterval)

	// Player
	envString("TUNEWAVE_PLAYER_BINARY", &cfg.Player.Binary)
	envString("TUNEWAVE_PLAYER_SOCKET", &cfg.Player.Socket)
	envInt("TUNEWAVE_PLAYER_IPC_TIMEOUT", &cfg.Player.IPCTimeout)
	envInt("TUNEWAVE_PLAYER_READY_TIMEOUT", &cfg.Player.ReadyTimeout)
	envString("TUNEWAVE_PLAYER_URL_TEMPLATE", &cfg.Player.URLTemplate)
	if v := os.Getenv("TUNEWAVE_PLAYER_EXTRA_ARGS"); v != "" {
		cfg.Player.ExtraArgs = strings.Fields(v)
	}
	envBool("TUNEWAVE_PLAYER_STOP_ON_EXIT", &cfg.Player.StopOnExit)

	// Catalog
	envInt("TUNEWAVE_CATALOG_SEARCH_LIMIT", &cfg.Catalog.SearchLimit)
	envInt("TUNEWAVE_CATALOG_TIMEOUT", &cfg.Catalog.Timeout)
	envString("TUNEWAVE_CATALOG_REDIS_URL", &cfg.Catalog.RedisURL)
	envInt("TUNEWAVE_CATALOG_CACHE_TTL", &cfg.Catalog.CacheTTL)

	// Client
	envString("TUNEWAVE_SERVER", &cfg.Client.Server)
	envInt("TUNEWAVE_CLIENT_TIMEOUT", &cfg.Client.Timeout)
	envInt("TUNEWAVE_CLIENT_SEARCH_TIMEOUT", &cfg.Client.SearchTimeout)

	// Tail
	envInt("TUNEWAVE_TAIL_INTERVAL", &cfg.Tail.Interval)
	envBool("TUNEWAVE_TAIL_AUTO_ADVANCE", &cfg.Tail.AutoAdvance)
	envInt("TUNEWAVE_TAIL_LOADING_WINDOW", &cfg.Tail.LoadingWindow)

	// TUI
	envString("TUNEWAVE_TUI_THEME", &cfg.TUI.Theme)
	envInt("TUNEWAVE_TUI_REFRESH_INTERVAL", &cfg.TUI.RefreshInterval)

	// Log
	envString("TUNEWAVE_LOG_LEVEL", &cfg.Log.Level)
	envString("TUNEWAVE_LOG_FILE", &cfg.Log.File)
	envString("TUNEWAVE_LOG_FORMAT", &cfg.Log.Format)
}
