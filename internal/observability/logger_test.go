package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "production", ""} {
		l, err := NewLogger(mode, "info")
		require.NoError(t, err, mode)
		require.NotNil(t, l)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger("dev", "loud")
	assert.Error(t, err)
}

func TestLogger_WithAttachesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("component", "test")

	l.Info("hello", "key", "value")
	l.Error("boom", "code", 7)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "hello", entries[0].Message)
	assert.Equal(t, "test", entries[0].ContextMap()["component"])
	assert.Equal(t, "value", entries[0].ContextMap()["key"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestLogger_OrNop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.OrNop().Info("discarded")
	})
}
