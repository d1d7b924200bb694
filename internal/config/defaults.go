package config

import (
	"os"
	"path/filepath"

	"github.com/tessro/tunewave/internal/core"
)

// DefaultSocket is the mpv IPC socket path used when none is configured.
var DefaultSocket = filepath.Join(os.TempDir(), "mpv_socket")

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:5000",
			StreamInterval: 1000,
		},
		Player: PlayerConfig{
			Binary:       "mpv",
			Socket:       DefaultSocket,
			IPCTimeout:   1500,
			ReadyTimeout: 5000,
			URLTemplate:  core.DefaultURLTemplate,
		},
		Catalog: CatalogConfig{
			SearchLimit: 25,
			Timeout:     30000,
			CacheTTL:    600,
		},
		Client: ClientConfig{
			Server:        "http://127.0.0.1:5000",
			Timeout:       10000,
			SearchTimeout: 45000,
		},
		Tail: TailConfig{
			Interval:      1000,
			LoadingWindow: 15000,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Server
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.StreamInterval == 0 {
		c.Server.StreamInterval = d.Server.StreamInterval
	}

	// Player
	if c.Player.Binary == "" {
		c.Player.Binary = d.Player.Binary
	}
	if c.Player.Socket == "" {
		c.Player.Socket = d.Player.Socket
	}
	if c.Player.IPCTimeout == 0 {
		c.Player.IPCTimeout = d.Player.IPCTimeout
	}
	if c.Player.ReadyTimeout == 0 {
		c.Player.ReadyTimeout = d.Player.ReadyTimeout
	}
	if c.Player.URLTemplate == "" {
		c.Player.URLTemplate = d.Player.URLTemplate
	}

	// Catalog
	if c.Catalog.SearchLimit == 0 {
		c.Catalog.SearchLimit = d.Catalog.SearchLimit
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = d.Catalog.Timeout
	}
	if c.Catalog.CacheTTL == 0 {
		c.Catalog.CacheTTL = d.Catalog.CacheTTL
	}

	// Client
	if c.Client.Server == "" {
		c.Client.Server = d.Client.Server
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = d.Client.Timeout
	}
	if c.Client.SearchTimeout == 0 {
		c.Client.SearchTimeout = d.Client.SearchTimeout
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}
	if c.Tail.LoadingWindow == 0 {
		c.Tail.LoadingWindow = d.Tail.LoadingWindow
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}
