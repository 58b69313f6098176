// Package config loads, normalizes and validates the settings of the
// example programs: where the hostapd control socket is, how long to wait
// for replies, how often to poll for events and how to log.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/thiagokokada/hostapd-go/helpers"
)

// Control contains the control socket location and request settings.
type Control struct {
	// Directory with one socket per interface ('ctrl_interface' in
	// hostapd.conf).
	CtrlDir   string `toml:"ctrl_dir"`
	Interface string `toml:"interface"`
	// Socket overrides CtrlDir/Interface when set.
	Socket           string `toml:"socket"`
	LocalDir         string `toml:"local_dir"`
	RequestTimeoutMS int    `toml:"request_timeout_ms"`
}

// Events contains the event loop timing.
type Events struct {
	TickIntervalMS int `toml:"tick_interval_ms"`
	PollTimeoutMS  int `toml:"poll_timeout_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

type Config struct {
	// File the configuration was read from, empty for defaults.
	File string `toml:"-"`

	Control Control `toml:"control"`
	Events  Events  `toml:"events"`
	Logging Logging `toml:"logging"`
}

// Load reads the configuration at path over the defaults. Without a path
// the default location is tried and a missing file there means defaults.
// [Config.File] tells which file was read, if any.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("error while parsing config %s: %w", path, err)
		}
		cfg.File = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("error while reading config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SocketPath returns the control socket to connect to. Without an explicit
// socket or interface, the first interface found in the control directory
// is used, like hostapd_cli does.
func (c *Config) SocketPath() (string, error) {
	if c.Control.Socket != "" {
		return c.Control.Socket, nil
	}

	iface := c.Control.Interface
	if iface == "" {
		ifaces, err := helpers.Interfaces(c.Control.CtrlDir)
		if err != nil {
			return "", err
		}
		if len(ifaces) == 0 {
			return "", fmt.Errorf("no control socket found in %s", c.Control.CtrlDir)
		}
		iface = ifaces[0]
	}
	return filepath.Join(c.Control.CtrlDir, iface), nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Control.RequestTimeoutMS) * time.Millisecond
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Events.TickIntervalMS) * time.Millisecond
}

func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.Events.PollTimeoutMS) * time.Millisecond
}

// Encode writes the configuration as TOML, e.g. to create a sample file.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}

// expandHome replaces a leading '~' with the home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error while looking up home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
