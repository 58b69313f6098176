// Package cli has the flags and setup shared by the example programs:
// configuration loading, flag overrides, logging and client creation.
package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/hostapd-go"
	"github.com/thiagokokada/hostapd-go/internal/config"
	"github.com/thiagokokada/hostapd-go/internal/logging"
)

// Context holds the persistent flags of a command tree and lazily loads the
// configuration they point to.
type Context struct {
	configFlag    string
	socketFlag    string
	ctrlDirFlag   string
	interfaceFlag string
	timeoutFlag   time.Duration
	logLevelFlag  string

	once   sync.Once
	config *config.Config
	logger *slog.Logger
	err    error
}

// NewContext registers the persistent flags on root.
func NewContext(root *cobra.Command) *Context {
	c := &Context{}
	flags := root.PersistentFlags()
	flags.StringVarP(&c.configFlag, "config", "c", "", "Configuration file path")
	flags.StringVarP(&c.ctrlDirFlag, "ctrl-dir", "p", "", "hostapd control directory (ctrl_interface)")
	flags.StringVarP(&c.interfaceFlag, "interface", "i", "", "Interface name, defaults to the first socket in the control directory")
	flags.StringVarP(&c.socketFlag, "socket", "s", "", "Path to the control socket, overrides --ctrl-dir and --interface")
	flags.DurationVarP(&c.timeoutFlag, "timeout", "t", 0, "Reply timeout")
	flags.StringVar(&c.logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	return c
}

// Config returns the loaded configuration with flag overrides applied.
func (c *Context) Config() (*config.Config, error) {
	c.once.Do(c.load)
	return c.config, c.err
}

// Logger returns the configured logger, or a no-op one if loading failed.
func (c *Context) Logger() *slog.Logger {
	c.once.Do(c.load)
	if c.logger == nil {
		return logging.Nop()
	}
	return c.logger
}

func (c *Context) load() {
	cfg, err := config.Load(strings.TrimSpace(c.configFlag))
	if err != nil {
		c.err = err
		return
	}

	if c.ctrlDirFlag != "" {
		cfg.Control.CtrlDir = c.ctrlDirFlag
	}
	if c.interfaceFlag != "" {
		cfg.Control.Interface = c.interfaceFlag
	}
	if c.socketFlag != "" {
		cfg.Control.Socket = c.socketFlag
	}
	if c.timeoutFlag > 0 {
		cfg.Control.RequestTimeoutMS = int(c.timeoutFlag.Milliseconds())
	}
	if c.logLevelFlag != "" {
		cfg.Logging.Level = strings.ToLower(c.logLevelFlag)
	}
	if err := cfg.Validate(); err != nil {
		c.err = err
		return
	}

	logger, err := logging.New(logging.Options{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})
	if err != nil {
		c.err = err
		return
	}

	if cfg.File != "" {
		logger.Debug("loaded configuration", "file", cfg.File)
	} else {
		logger.Debug("no configuration file, using defaults")
	}

	c.config = cfg
	c.logger = logger
}

// Open a client to the configured control socket.
func (c *Context) Open() (*hostapd.Client, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	socket, err := cfg.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("error while looking up control socket: %w", err)
	}

	c.Logger().Debug("using control socket", "path", socket)
	return hostapd.OpenWithOptions(socket, hostapd.Options{
		LocalDir: cfg.Control.LocalDir,
		Timeout:  cfg.RequestTimeout(),
		Logger:   c.Logger(),
	})
}

// WithClient opens a client, runs fn and closes the client.
func (c *Context) WithClient(fn func(*hostapd.Client) error) error {
	client, err := c.Open()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}
