package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Player  PlayerConfig  `toml:"player"`
	Catalog CatalogConfig `toml:"catalog"`
	Client  ClientConfig  `toml:"client"`
	Tail    TailConfig    `toml:"tail"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	StreamInterval int    `toml:"stream_interval"`
}

// PlayerConfig holds mpv renderer settings. Durations are milliseconds.
type PlayerConfig struct {
	Binary       string   `toml:"binary"`
	Socket       string   `toml:"socket"`
	IPCTimeout   int      `toml:"ipc_timeout"`
	ReadyTimeout int      `toml:"ready_timeout"`
	URLTemplate  string   `toml:"url_template"`
	ExtraArgs    []string `toml:"extra_args"`
	StopOnExit   bool     `toml:"stop_on_exit"`
}

// CatalogConfig holds search settings.
type CatalogConfig struct {
	SearchLimit int    `toml:"search_limit"`
	Timeout     int    `toml:"timeout"`
	RedisURL    string `toml:"redis_url"`
	CacheTTL    int    `toml:"cache_ttl"`
}

// ClientConfig holds settings for commands that talk to a running service.
type ClientConfig struct {
	Server        string `toml:"server"`
	Timeout       int    `toml:"timeout"`
	SearchTimeout int    `toml:"search_timeout"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Interval      int  `toml:"interval"`
	AutoAdvance   bool `toml:"auto_advance"`
	LoadingWindow int  `toml:"loading_window"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"`
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// StreamEvery returns the websocket status push interval.
func (c ServerConfig) StreamEvery() time.Duration { return millis(c.StreamInterval) }

// IPCDeadline returns the per-call IPC timeout.
func (c PlayerConfig) IPCDeadline() time.Duration { return millis(c.IPCTimeout) }

// ReadyDeadline returns how long the supervisor waits for the socket.
func (c PlayerConfig) ReadyDeadline() time.Duration { return millis(c.ReadyTimeout) }

// SearchDeadline returns the catalog search timeout.
func (c CatalogConfig) SearchDeadline() time.Duration { return millis(c.Timeout) }

// RouteDeadline returns the HTTP handler timeout for catalog routes. It
// outlasts SearchDeadline so a slow search ends in the catalog, not in the
// router.
func (c CatalogConfig) RouteDeadline() time.Duration { return c.SearchDeadline() + CatalogGrace }

// TTL returns the search cache lifetime.
func (c CatalogConfig) TTL() time.Duration { return time.Duration(c.CacheTTL) * time.Second }

// RequestTimeout returns the HTTP client timeout.
func (c ClientConfig) RequestTimeout() time.Duration { return millis(c.Timeout) }

// SearchRequestTimeout returns the HTTP client timeout for search and
// trending calls.
func (c ClientConfig) SearchRequestTimeout() time.Duration { return millis(c.SearchTimeout) }

// PollEvery returns the status poll interval.
func (c TailConfig) PollEvery() time.Duration { return millis(c.Interval) }

// Window returns the loading suppression window.
func (c TailConfig) Window() time.Duration { return millis(c.LoadingWindow) }

// RefreshEvery returns the TUI refresh interval.
func (c TUIConfig) RefreshEvery() time.Duration { return millis(c.RefreshInterval) }
