package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	SetLogger(nil)
	require.False(t, Logger().Enabled(context.Background(), LevelCritical))
}

func TestNewNamesCustomLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelTrace)

	l.Log(context.Background(), LevelTrace, "fine grained")
	l.Log(context.Background(), LevelCritical, "broken palette")

	out := buf.String()
	require.Contains(t, out, "level=TRACE")
	require.Contains(t, out, "level=CRITICAL")
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(New(&buf, slog.LevelInfo))
	defer SetLogger(nil)

	Logger().Info("hello")
	require.Contains(t, buf.String(), "hello")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"critical", LevelCritical},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}
