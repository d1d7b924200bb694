package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// MaxSearchLimit caps catalog.search_limit.
const MaxSearchLimit = 50

// CatalogGrace is how much longer the server lets a catalog route run than
// the catalog search itself.
const CatalogGrace = 5 * time.Second

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.Catalog.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("catalog: %w", err))
	}
	if err := c.Client.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("client: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if err := c.validateTimeouts(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// validateTimeouts checks that a client waits for search longer than the
// server lets the search route run.
func (c *Config) validateTimeouts() error {
	if c.Client.SearchTimeout <= 0 || c.Catalog.Timeout <= 0 {
		return nil
	}
	if c.Client.SearchRequestTimeout() <= c.Catalog.RouteDeadline() {
		return fmt.Errorf("client.search_timeout (%dms) must exceed catalog.timeout (%dms) plus %s",
			c.Client.SearchTimeout, c.Catalog.Timeout, CatalogGrace)
	}
	return nil
}

// Validate checks ServerConfig for errors.
func (c *ServerConfig) Validate() error {
	if c.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Addr); err != nil {
			return fmt.Errorf("invalid addr: %w", err)
		}
	}
	if c.StreamInterval < 0 {
		return errors.New("stream_interval must be non-negative")
	}
	return nil
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	if c.IPCTimeout < 0 {
		return errors.New("ipc_timeout must be non-negative")
	}
	if c.ReadyTimeout < 0 {
		return errors.New("ready_timeout must be non-negative")
	}
	if c.URLTemplate != "" && strings.Count(c.URLTemplate, "%s") != 1 {
		return fmt.Errorf("invalid url_template: %s (must contain exactly one %%s)", c.URLTemplate)
	}
	return nil
}

// Validate checks CatalogConfig for errors.
func (c *CatalogConfig) Validate() error {
	if c.SearchLimit < 0 || c.SearchLimit > MaxSearchLimit {
		return fmt.Errorf("search_limit must be between 1 and %d", MaxSearchLimit)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	if c.CacheTTL < 0 {
		return errors.New("cache_ttl must be non-negative")
	}
	if c.RedisURL != "" {
		if _, err := url.Parse(c.RedisURL); err != nil {
			return fmt.Errorf("invalid redis_url: %w", err)
		}
	}
	return nil
}

// Validate checks ClientConfig for errors.
func (c *ClientConfig) Validate() error {
	if c.Server != "" {
		u, err := url.Parse(c.Server)
		if err != nil {
			return fmt.Errorf("invalid server: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid server: %s (must be an http or https URL)", c.Server)
		}
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	if c.SearchTimeout < 0 {
		return errors.New("search_timeout must be non-negative")
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	if c.LoadingWindow < 0 {
		return errors.New("loading_window must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "latte", "frappe", "macchiato", "mocha":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, latte, frappe, macchiato, or mocha)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	switch c.Format {
	case "", "auto", "console", "json":
		// valid
	default:
		return fmt.Errorf("invalid log format: %s (must be auto, console, or json)", c.Format)
	}
	return nil
}
