package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

// Setup mutates the slog default, so these tests do not run in parallel.
func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	t.Run("respects level", func(t *testing.T) {
		buf := &logger.TestLogBuffer{}
		l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn"}, buf)
		require.NoError(t, err)
		require.NotNil(t, l)

		l.Info("hidden message")
		l.Warn("visible message", slog.Int64("task_id", 5))

		logger.AssertLogNotContains(t, buf, "hidden message")
		logger.AssertLogContains(t, buf, "visible message")

		entries, err := buf.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "WARN", entries[0]["level"])
		assert.Equal(t, float64(5), entries[0]["task_id"])
	})

	t.Run("becomes default", func(t *testing.T) {
		buf := &logger.TestLogBuffer{}
		_, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "debug"}, buf)
		require.NoError(t, err)

		slog.Debug("through default")
		logger.AssertLogContains(t, buf, "through default")
	})

	t.Run("invalid level falls back to info with warning", func(t *testing.T) {
		buf := &logger.TestLogBuffer{}
		l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "loud"}, buf)
		require.NoError(t, err)

		logger.AssertLogContains(t, buf, "invalid log level configured")
		assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
	})
}

func TestContextPropagation(t *testing.T) {
	t.Parallel()

	buf, l := logger.NewTestLogger(t)
	ctx := logger.WithLogger(context.Background(), l.With(slog.String("request_id", "abc")))

	logger.FromContext(ctx).Info("scoped")
	logger.AssertLogContains(t, buf, `"request_id":"abc"`)

	fallback := slog.New(slog.NewJSONHandler(&logger.TestLogBuffer{}, nil))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
	assert.NotNil(t, logger.FromContext(context.Background()))

	assert.Equal(t, context.Background(), logger.WithLogger(context.Background(), nil))
}

func TestForComponent(t *testing.T) {
	t.Parallel()

	buf, l := logger.NewTestLogger(t)
	ctx := logger.WithLogger(context.Background(), l.With(slog.String("request_id", "abc")))

	logger.ForComponent(ctx, nil, "reminder_store").Info("scoped")
	logger.AssertLogContains(t, buf, `"request_id":"abc"`)
	logger.AssertLogContains(t, buf, `"component":"reminder_store"`)

	fallback := slog.New(slog.NewJSONHandler(&logger.TestLogBuffer{}, nil))
	assert.Same(t, fallback, logger.ForComponent(context.Background(), fallback, "reminder_store"))
	assert.NotNil(t, logger.ForComponent(context.Background(), nil, "reminder_store"))
}
