package hostapd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHardwareAddr(t *testing.T) {
	want := HardwareAddr{0x02, 0x00, 0x00, 0xab, 0xcd, 0xef}
	for _, s := range []string{
		"02:00:00:ab:cd:ef",
		"02:00:00:AB:CD:EF",
		"02-00-00-ab-cd-ef",
		"02-00-00-Ab-cD-eF",
	} {
		t.Run(s, func(t *testing.T) {
			got, err := ParseHardwareAddr(s)
			require.NoError(t, err)
			require.Equal(t, want, got)
			require.Equal(t, "02:00:00:ab:cd:ef", got.String())
		})
	}
}

func TestParseHardwareAddrError(t *testing.T) {
	for _, s := range []string{
		"",
		"02:00:00:00:00",
		"02:00:00:00:00:01:02:03",
		"0200.0000.0001",
		"02:00:00-00:00:01",
		"02:00:00:00:00:zz",
		"2:00:00:00:00:001",
	} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseHardwareAddr(s)
			require.ErrorIs(t, err, ErrInvalidHardwareAddr)
		})
	}
}

func TestHardwareAddrText(t *testing.T) {
	a := HardwareAddr{0x02, 0, 0, 0, 0, 0x01}

	text, err := a.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "02:00:00:00:00:01", string(text))

	var b HardwareAddr
	require.NoError(t, b.UnmarshalText(text))
	require.Equal(t, a, b)
	require.Error(t, b.UnmarshalText([]byte("nope")))
}
