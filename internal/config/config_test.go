package config

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOSTAPD_CTRL_DIR", "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Empty(t, cfg.File)

	require.Equal(t, "/var/run/hostapd", cfg.Control.CtrlDir)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout())
	require.Equal(t, time.Second, cfg.TickInterval())
	require.Equal(t, 100*time.Millisecond, cfg.PollTimeout())
	require.Equal(t, "auto", cfg.Logging.Format)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[control]
ctrl_dir = "/run/hostapd"
interface = "wlan1"
request_timeout_ms = 500

[events]
tick_interval_ms = 250
poll_timeout_ms = 50

[logging]
format = "JSON"
level = "Debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.File)

	socket, err := cfg.SocketPath()
	require.NoError(t, err)
	require.Equal(t, "/run/hostapd/wlan1", socket)
	require.Equal(t, 500*time.Millisecond, cfg.RequestTimeout())
	require.Equal(t, 250*time.Millisecond, cfg.TickInterval())
	require.Equal(t, 50*time.Millisecond, cfg.PollTimeout())
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[control"},
		{"unknown field", "[control]\nsocket_path = \"/x\"\n"},
		{"poll longer than tick", "[events]\ntick_interval_ms = 100\npoll_timeout_ms = 200\n"},
		{"negative timeout", "[control]\nrequest_timeout_ms = -1\n"},
		{"interface path", "[control]\ninterface = \"../wlan0\"\n"},
		{"log format", "[logging]\nformat = \"xml\"\n"},
		{"log level", "[logging]\nlevel = \"trace\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, ".config", "hostapd-go", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("[control]\ninterface = \"wlan2\"\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, path, cfg.File)
	require.Equal(t, "wlan2", cfg.Control.Interface)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/ap")
	tests := []struct {
		path string
		want string
	}{
		{"~", "/home/ap"},
		{"~/run/hostapd", "/home/ap/run/hostapd"},
		{"~ap/run", "~ap/run"},
		{"/var/run/hostapd", "/var/run/hostapd"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := expandHome(tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSocketPath(t *testing.T) {
	cfg := Default()
	cfg.Control.Socket = "/tmp/custom.sock"
	socket, err := cfg.SocketPath()
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.sock", socket)

	dir, err := os.MkdirTemp("/tmp", "hostapd-go-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	cfg = Default()
	cfg.Control.CtrlDir = dir
	_, err = cfg.SocketPath()
	require.Error(t, err)

	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Net: "unixgram", Name: filepath.Join(dir, "wlan0")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	socket, err = cfg.SocketPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "wlan0"), socket)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Control.Interface = "wlan0"

	content, err := cfg.Encode()
	require.NoError(t, err)

	loaded, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.Equal(t, cfg.Control.Interface, loaded.Control.Interface)
	require.Equal(t, cfg.Events, loaded.Events)
}
