package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/draftsmith/draftsmith-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupReturnsConfiguredLogger(t *testing.T) {
	logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: "debug"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: "verbose"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestLoggerContextRoundTrip(t *testing.T) {
	t.Parallel()

	buf, testLogger := SetupTestLogger(t, nil)

	ctx := WithLogger(context.Background(), testLogger)
	got := FromContext(ctx)
	require.Same(t, testLogger, got)

	got.Info("hello", "key", "value")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	_, fallback := SetupTestLogger(t, nil)

	// Empty context yields the fallback
	got := FromContextOrDefault(context.Background(), fallback)
	assert.Same(t, fallback, got)

	// Context logger wins over the fallback
	_, ctxLogger := SetupTestLogger(t, nil)
	ctx := WithLogger(context.Background(), ctxLogger)
	got = FromContextOrDefault(ctx, fallback)
	assert.Same(t, ctxLogger, got)
}
