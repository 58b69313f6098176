package config

import "github.com/thiagokokada/hostapd-go/helpers"

const (
	defaultConfigPath       = "~/.config/hostapd-go/config.toml"
	defaultRequestTimeoutMS = 10000
	defaultTickIntervalMS   = 1000
	defaultPollTimeoutMS    = 100
	defaultLogFormat        = "auto"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults. The control
// directory honours HOSTAPD_CTRL_DIR.
func Default() Config {
	return Config{
		Control: Control{
			CtrlDir:          helpers.CtrlDir(),
			RequestTimeoutMS: defaultRequestTimeoutMS,
		},
		Events: Events{
			TickIntervalMS: defaultTickIntervalMS,
			PollTimeoutMS:  defaultPollTimeoutMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
