package helpers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Default value of 'ctrl_interface' in hostapd.conf.
const DefaultCtrlDir = "/var/run/hostapd"

var ErrorEmptyInterface = errors.New("interface name is empty")

// Returns the hostapd control directory, from HOSTAPD_CTRL_DIR or
// [DefaultCtrlDir].
func CtrlDir() string {
	if dir := os.Getenv("HOSTAPD_CTRL_DIR"); dir != "" {
		return dir
	}
	return DefaultCtrlDir
}

// Returns the hostapd control socket path for a interface, e.g. 'wlan0'.
func GetSocket(iface string) (string, error) {
	if iface == "" {
		return "", fmt.Errorf("%w, did you forget to pass one?", ErrorEmptyInterface)
	}
	return filepath.Join(CtrlDir(), iface), nil
}

// Returns the interfaces with a control socket in dir, sorted by name.
// hostapd creates one socket per configured interface.
func Interfaces(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error while reading control directory: %w", err)
	}

	var ifaces []string
	for _, e := range entries {
		if e.Type()&fs.ModeSocket == 0 {
			continue
		}
		ifaces = append(ifaces, e.Name())
	}
	return ifaces, nil
}
