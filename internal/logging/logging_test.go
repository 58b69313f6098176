package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: "json", Level: "info", Output: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("event", "ident", "AP-STA-CONNECTED")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "event", line["msg"])
	require.Equal(t, "AP-STA-CONNECTED", line["ident"])
}

func TestNewAutoWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: "auto", Level: "debug", Output: &buf})
	require.NoError(t, err)

	log.Debug("shown")
	// a bytes.Buffer is not a terminal
	require.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: "text", Level: "warn", Output: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown")
}

func TestNewError(t *testing.T) {
	_, err := New(Options{Format: "xml", Level: "info"})
	require.Error(t, err)

	_, err = New(Options{Format: "json", Level: "trace"})
	require.Error(t, err)
}
