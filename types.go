package hostapd

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

var ErrInvalidHardwareAddr = errors.New("invalid hardware address")

// HardwareAddr is a 6 byte station address (EUI-48).
// Its textual form is six lower-case hex pairs separated by ':', e.g.
// '02:00:00:00:00:01', which is also the form hostapd uses on the wire.
type HardwareAddr [6]byte

// Parse a hardware address in the form 'aa:bb:cc:dd:ee:ff' or
// 'aa-bb-cc-dd-ee-ff' (case-insensitive).
func ParseHardwareAddr(s string) (a HardwareAddr, err error) {
	// net.ParseMAC also accepts dotted and 8/20 octet forms, both are
	// invalid for a station address
	if len(s) != 17 || strings.Contains(s, ".") {
		return a, fmt.Errorf("%w: %q", ErrInvalidHardwareAddr, s)
	}
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != len(a) {
		return a, fmt.Errorf("%w: %q", ErrInvalidHardwareAddr, s)
	}
	copy(a[:], hw)
	return a, nil
}

func (a HardwareAddr) String() string {
	return fmt.Sprintf(
		"%02x:%02x:%02x:%02x:%02x:%02x",
		a[0], a[1], a[2], a[3], a[4], a[5],
	)
}

func (a HardwareAddr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *HardwareAddr) UnmarshalText(text []byte) error {
	v, err := ParseHardwareAddr(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// StationInfo is the reply of 'STA', 'STA-FIRST' and 'STA-NEXT' commands.
// Attributes keep the order hostapd sent them, e.g. 'flags', 'aid',
// 'rx_packets'.
type StationInfo struct {
	Address    HardwareAddr
	Attributes []Attribute
}

type Attribute struct {
	Key   string
	Value string
}

// Get returns the value of the first attribute named key.
func (s StationInfo) Get(key string) (string, bool) {
	for _, a := range s.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
