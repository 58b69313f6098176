package hostapd

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const replyFail = "FAIL\n"

// ErrNoStation is returned when hostapd does not know the requested station.
var ErrNoStation = errors.New("station not found")

// Ping command, expects 'PONG'.
func (c *Client) Ping(ctx context.Context) error {
	return c.expect(ctx, "PING", replyPong)
}

// Station command, similar to 'hostapd_cli sta <addr>'.
// Returns the raw multi-line reply, see [ParseStationInfo].
func (c *Client) Station(ctx context.Context, addr HardwareAddr) (string, error) {
	reply, err := c.Request(ctx, "STA "+addr.String())
	if err != nil {
		return "", err
	}
	if reply == "" || reply == replyFail {
		return "", fmt.Errorf("%w: %s", ErrNoStation, addr)
	}
	return reply, nil
}

// Stations lists every associated station, similar to 'hostapd_cli all_sta'.
// It walks the station table with 'STA-FIRST' and 'STA-NEXT'.
func (c *Client) Stations(ctx context.Context) ([]StationInfo, error) {
	var stations []StationInfo

	command := "STA-FIRST"
	for {
		reply, err := c.Request(ctx, command)
		if err != nil {
			return stations, err
		}
		// An empty reply marks the end of the table, 'FAIL' that the
		// previous station left in the meantime
		if reply == "" || reply == replyFail {
			return stations, nil
		}

		sta, err := ParseStationInfo(reply)
		if err != nil {
			return stations, err
		}
		stations = append(stations, sta)
		command = "STA-NEXT " + sta.Address.String()
	}
}

// Status command, similar to 'hostapd_cli status'.
// Returns the 'key=value' pairs in the order hostapd sent them.
func (c *Client) Status(ctx context.Context) ([]Attribute, error) {
	reply, err := c.Request(ctx, "STATUS")
	if err != nil {
		return nil, err
	}
	if reply == replyFail {
		return nil, fmt.Errorf("%w to STATUS: %q", ErrUnexpectedReply, reply)
	}
	return parseAttributes(strings.Split(reply, "\n")), nil
}

// ParseStationInfo parses a 'STA' reply. The first line is the station
// address, the remaining lines are 'key=value' attributes.
func ParseStationInfo(reply string) (s StationInfo, err error) {
	lines := strings.Split(reply, "\n")
	s.Address, err = ParseHardwareAddr(strings.TrimSpace(lines[0]))
	if err != nil {
		return s, fmt.Errorf("error while parsing station reply: %w", err)
	}
	s.Attributes = parseAttributes(lines[1:])
	return s, nil
}

func parseAttributes(lines []string) (attrs []Attribute) {
	for _, line := range lines {
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			// lines without '=' are kept as bare keys
			attrs = append(attrs, Attribute{Key: line})
			continue
		}
		attrs = append(attrs, Attribute{Key: key, Value: value})
	}
	return attrs
}
