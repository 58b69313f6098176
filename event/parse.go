package event

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thiagokokada/hostapd-go"
)

var (
	ErrEmptyIdentifier = errors.New("empty event identifier")
	ErrInvalidAddress  = errors.New("invalid station address")
)

// Parse a raw notification, e.g. '<3>AP-STA-CONNECTED 02:00:00:00:00:01'.
//
// The optional '<N>' priority marker is stripped. A known identifier without
// an address is returned as [Other] instead of failing, only an empty
// identifier or a malformed address are errors.
func Parse(raw string) (Event, error) {
	msg := raw
	if strings.HasPrefix(msg, "<") {
		// without '>' the whole message is the identifier region
		if i := strings.IndexByte(msg, '>'); i >= 0 {
			msg = msg[i+1:]
		}
	}
	msg = strings.TrimRight(msg, "\n")

	parts := strings.Split(msg, " ")
	ident, args := parts[0], parts[1:]
	if strings.TrimSpace(ident) == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyIdentifier, raw)
	}

	switch ident {
	case IdentStationConnected, IdentStationDisconnected:
		if len(args) == 0 {
			break
		}
		addr, err := hostapd.ParseHardwareAddr(args[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
		}
		if ident == IdentStationConnected {
			return StationConnected{Address: addr}, nil
		}
		return StationDisconnected{Address: addr}, nil
	}

	if len(args) == 0 {
		args = nil
	}
	return Other{Ident: ident, Args: args}, nil
}
