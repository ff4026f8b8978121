package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN)

	l.Info("dropped %d", 1)
	l.Warn("kept %d", 2)
	l.Error("kept %d", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[WARN]")
	assert.Contains(t, lines[0], "kept 2")
	assert.Contains(t, lines[1], "[ERROR]")
}

func TestCallerAndNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG)
	l.Debug("hello")

	out := buf.String()
	assert.Contains(t, out, "logger_test.go:")
	assert.NotContains(t, out, "\033[")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, ERROR)
	assert.False(t, l.Enabled(INFO))
	l.SetLevel(DEBUG)
	assert.True(t, l.Enabled(INFO))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, level)

	level, err = ParseLevel("Warn")
	require.NoError(t, err)
	assert.Equal(t, WARN, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestShowDateTime(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)
	l.SetShowDateTime(true)
	l.Info("stamped")
	assert.Regexp(t, `^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} \[INFO\] `, buf.String())

	buf.Reset()
	l.SetShowDateTime(false)
	l.Info("bare")
	assert.True(t, strings.HasPrefix(buf.String(), "[INFO] "))
}
