package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunnys/nexus/core/logger"
)

func decodeRecord(t *testing.T, line []byte) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(line, &record))
	return record
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults to text at info level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		log.Debug("hidden")
		log.Info("shown")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=shown")
	})

	t.Run("development enables debug text output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("nexus"), logger.WithOutput(&buf))

		log.Debug("visible")

		out := buf.String()
		assert.Contains(t, out, "msg=visible")
		assert.Contains(t, out, "app=nexus")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production emits json with app attrs", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("nexus"), logger.WithOutput(&buf))

		log.Debug("hidden")
		log.Info("shown", logger.Component("dispatch"))

		record := decodeRecord(t, buf.Bytes())
		assert.Equal(t, "shown", record["msg"])
		assert.Equal(t, "nexus", record["app"])
		assert.Equal(t, "production", record["env"])
		assert.Equal(t, "dispatch", record["component"])
	})

	t.Run("staging emits json tagged with staging", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithStaging("nexus"), logger.WithOutput(&buf))

		log.Info("shown")

		record := decodeRecord(t, buf.Bytes())
		assert.Equal(t, "staging", record["env"])
	})

	t.Run("level override applies after environment presets", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithProduction("nexus"),
			logger.WithLevel(slog.LevelError),
			logger.WithOutput(&buf),
		)

		log.Info("hidden")
		log.Error("shown")

		record := decodeRecord(t, buf.Bytes())
		assert.Equal(t, "shown", record["msg"])
	})

	t.Run("static attrs appear on every record", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithAttr(logger.Version("v1.4.0")),
		)

		log.Info("shown")

		record := decodeRecord(t, buf.Bytes())
		assert.Equal(t, "v1.4.0", record["version"])
	})
}

func TestNew_ContextExtraction(t *testing.T) {
	t.Parallel()

	type traceKey struct{}

	t.Run("context values are injected", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextValue("trace_id", traceKey{}),
		)

		ctx := context.WithValue(context.Background(), traceKey{}, "9f86d081")
		log.InfoContext(ctx, "shown")

		record := decodeRecord(t, buf.Bytes())
		assert.Equal(t, "9f86d081", record["trace_id"])
	})

	t.Run("absent context values are skipped", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextValue("trace_id", traceKey{}),
		)

		log.InfoContext(context.Background(), "shown")

		record := decodeRecord(t, buf.Bytes())
		_, present := record["trace_id"]
		assert.False(t, present)
	})

	t.Run("custom extractors run per record", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
				if v, ok := ctx.Value(traceKey{}).(string); ok {
					return logger.TraceID(v), true
				}
				return slog.Attr{}, false
			}),
		)

		ctx := context.WithValue(context.Background(), traceKey{}, "41f8b3c2")
		log.InfoContext(ctx, "shown")

		record := decodeRecord(t, buf.Bytes())
		assert.Equal(t, "41f8b3c2", record["trace_id"])
	})

	t.Run("extraction survives derived loggers", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextValue("trace_id", traceKey{}),
		)

		derived := log.With(logger.Component("verify")).WithGroup("gates")
		ctx := context.WithValue(context.Background(), traceKey{}, "7b2d11aa")
		derived.InfoContext(ctx, "shown", slog.String("gate", "cooldown"))

		record := decodeRecord(t, buf.Bytes())
		assert.Equal(t, "verify", record["component"])
		// Extracted attrs follow the active group, like any record attr.
		gates, ok := record["gates"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "cooldown", gates["gate"])
		assert.Equal(t, "7b2d11aa", gates["trace_id"])
	})
}
