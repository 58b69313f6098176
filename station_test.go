package hostapd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thiagokokada/hostapd-go/internal/fakehostapd"
)

func TestStation(t *testing.T) {
	d := fakehostapd.New(t)
	d.AddStation("02:00:00:00:00:01", "flags=[AUTH][ASSOC][AUTHORIZED]", "aid=1")
	c := newClient(t, d, time.Second)
	ctx := context.Background()

	addr := HardwareAddr{0x02, 0, 0, 0, 0, 0x01}
	reply, err := c.Station(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, "02:00:00:00:00:01\nflags=[AUTH][ASSOC][AUTHORIZED]\naid=1\n", reply)

	_, err = c.Station(ctx, HardwareAddr{0x02, 0, 0, 0, 0, 0x02})
	require.ErrorIs(t, err, ErrNoStation)
}

func TestStations(t *testing.T) {
	d := fakehostapd.New(t)
	c := newClient(t, d, time.Second)
	ctx := context.Background()

	stations, err := c.Stations(ctx)
	require.NoError(t, err)
	require.Empty(t, stations)

	d.AddStation("02:00:00:00:00:01", "aid=1")
	d.AddStation("02:00:00:00:00:02", "aid=2", "signal=-40")

	stations, err = c.Stations(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 2)
	require.Equal(t, HardwareAddr{0x02, 0, 0, 0, 0, 0x02}, stations[1].Address)

	signal, ok := stations[1].Get("signal")
	require.True(t, ok)
	require.Equal(t, "-40", signal)
	_, ok = stations[0].Get("signal")
	require.False(t, ok)

	require.Equal(t, []string{
		"STA-FIRST",
		"STA-FIRST",
		"STA-NEXT 02:00:00:00:00:01",
		"STA-NEXT 02:00:00:00:00:02",
	}, d.Commands())
}

func TestStatus(t *testing.T) {
	d := fakehostapd.New(t)
	c := newClient(t, d, time.Second)

	attrs, err := c.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Attribute{
		{Key: "state", Value: "ENABLED"},
		{Key: "channel", Value: "6"},
		{Key: "ssid[0]", Value: "test"},
	}, attrs)
}

func TestParseStationInfo(t *testing.T) {
	s, err := ParseStationInfo("02:00:00:00:00:01\nflags=[AUTH]\nconnected_time=42\nwpa=2=x\nbare\n")
	require.NoError(t, err)
	require.Equal(t, HardwareAddr{0x02, 0, 0, 0, 0, 0x01}, s.Address)
	require.Equal(t, []Attribute{
		{Key: "flags", Value: "[AUTH]"},
		{Key: "connected_time", Value: "42"},
		{Key: "wpa", Value: "2=x"},
		{Key: "bare"},
	}, s.Attributes)

	_, err = ParseStationInfo("FAIL\n")
	require.ErrorIs(t, err, ErrInvalidHardwareAddr)
}
