package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	paths := []struct {
		key   string
		value *string
	}{
		{"control.ctrl_dir", &c.Control.CtrlDir},
		{"control.socket", &c.Control.Socket},
		{"control.local_dir", &c.Control.LocalDir},
	}
	for _, p := range paths {
		if *p.value == "" {
			continue
		}
		expanded, err := expandHome(*p.value)
		if err != nil {
			return fmt.Errorf("%s: %w", p.key, err)
		}
		*p.value = filepath.Clean(expanded)
	}
	c.Control.Interface = strings.TrimSpace(c.Control.Interface)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Control.Socket == "" && c.Control.CtrlDir == "" {
		return errors.New("control.ctrl_dir or control.socket must be set")
	}
	if strings.ContainsRune(c.Control.Interface, '/') {
		return fmt.Errorf("control.interface %q must be a interface name, not a path", c.Control.Interface)
	}
	if c.Control.RequestTimeoutMS <= 0 {
		return errors.New("control.request_timeout_ms must be positive")
	}
	if c.Events.TickIntervalMS <= 0 {
		return errors.New("events.tick_interval_ms must be positive")
	}
	if c.Events.PollTimeoutMS <= 0 {
		return errors.New("events.poll_timeout_ms must be positive")
	}
	// a longer poll would delay cancellation by more than one tick
	if c.Events.PollTimeoutMS > c.Events.TickIntervalMS {
		return fmt.Errorf(
			"events.poll_timeout_ms (%d) must not exceed events.tick_interval_ms (%d)",
			c.Events.PollTimeoutMS, c.Events.TickIntervalMS,
		)
	}
	switch c.Logging.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be one of auto, text or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
