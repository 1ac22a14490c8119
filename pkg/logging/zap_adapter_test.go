package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kevin07696/store-billing/internal/adapters/ports"
)

func TestZapLoggerAdapter_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Debug("debug", ports.String("product_id", "premium"))
	logger.Info("info", ports.Int("count", 3))
	logger.Warn("warn", ports.Bool("async", true))
	logger.Error("error", ports.Err(errors.New("boom")))

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "premium", entries[0].ContextMap()["product_id"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.EqualValues(t, 3, entries[1].ContextMap()["count"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, true, entries[2].ContextMap()["async"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "boom", entries[3].ContextMap()["error"])
}

func TestZapLoggerAdapter_Named(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewZapLogger(zap.New(core)).Named("sandbox")

	logger.Info("connected")
	logger.Debug("filtered")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "sandbox", entries[0].LoggerName)
}

func TestNewZapLogger_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewZapLogger(nil).Info("discarded")
	})
}
