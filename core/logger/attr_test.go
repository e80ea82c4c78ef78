package logger_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunnys/nexus/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("inv", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "inv", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

// ============================================================================
// Error Handling Tests
// ============================================================================

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

// ============================================================================
// Performance and Timing Tests
// ============================================================================

func TestDuration(t *testing.T) {
	t.Parallel()
	d := 5 * time.Second
	attr := logger.Duration(d)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, d, attr.Value.Duration())
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	start := time.Now().Add(-500 * time.Millisecond)
	attr := logger.Elapsed(start)
	require.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), 500*time.Millisecond)
}

// ============================================================================
// Identifier Tests
// ============================================================================

func TestID(t *testing.T) {
	t.Parallel()

	attr := logger.ID("user_id", "123")
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, "123", attr.Value.Any())

	attr = logger.ID("count", 42)
	require.Equal(t, "count", attr.Key)
	assert.EqualValues(t, 42, attr.Value.Any())

	empty := logger.ID("key", nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestTraceID(t *testing.T) {
	t.Parallel()
	attr := logger.TraceID("9f86d081")
	require.Equal(t, "trace_id", attr.Key)
	assert.Equal(t, "9f86d081", attr.Value.String())

	empty := logger.TraceID("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestCorrelationID(t *testing.T) {
	t.Parallel()
	attr := logger.CorrelationID("corr-789")
	require.Equal(t, "correlation_id", attr.Key)
	assert.Equal(t, "corr-789", attr.Value.String())

	empty := logger.CorrelationID("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

// ============================================================================
// Command Runtime Tests
// ============================================================================

func TestCommand(t *testing.T) {
	t.Parallel()
	attr := logger.Command("daily")
	require.Equal(t, "command", attr.Key)
	assert.Equal(t, "daily", attr.Value.String())

	empty := logger.Command("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestCallerID(t *testing.T) {
	t.Parallel()
	attr := logger.CallerID("1096605997433847861")
	require.Equal(t, "caller_id", attr.Key)
	assert.Equal(t, "1096605997433847861", attr.Value.String())

	empty := logger.CallerID("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestCategory(t *testing.T) {
	t.Parallel()
	attr := logger.Category("slash")
	require.Equal(t, "category", attr.Key)
	assert.Equal(t, "slash", attr.Value.String())
}

// ============================================================================
// Generic Metadata Tests
// ============================================================================

func TestComponent(t *testing.T) {
	t.Parallel()
	attr := logger.Component("dispatch")
	require.Equal(t, "component", attr.Key)
	assert.Equal(t, "dispatch", attr.Value.String())
}

func TestEvent(t *testing.T) {
	t.Parallel()
	attr := logger.Event("startup")
	require.Equal(t, "event", attr.Key)
	assert.Equal(t, "startup", attr.Value.String())
}

func TestAction(t *testing.T) {
	t.Parallel()
	attr := logger.Action("register")
	require.Equal(t, "action", attr.Key)
	assert.Equal(t, "register", attr.Value.String())
}

func TestResult(t *testing.T) {
	t.Parallel()
	attr := logger.Result("success")
	require.Equal(t, "result", attr.Key)
	assert.Equal(t, "success", attr.Value.String())
}

func TestCount(t *testing.T) {
	t.Parallel()
	attr := logger.Count("loaded", 12)
	require.Equal(t, "loaded", attr.Key)
	assert.Equal(t, int64(12), attr.Value.Int64())
}

func TestVersion(t *testing.T) {
	t.Parallel()
	attr := logger.Version("v1.4.0")
	require.Equal(t, "version", attr.Key)
	assert.Equal(t, "v1.4.0", attr.Value.String())
}

func TestKey(t *testing.T) {
	t.Parallel()
	attr := logger.Key("queue_depth", 3)
	require.Equal(t, "queue_depth", attr.Key)
	assert.EqualValues(t, 3, attr.Value.Any())

	empty := logger.Key("queue_depth", nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestRetryCount(t *testing.T) {
	t.Parallel()
	attr := logger.RetryCount(2)
	require.Equal(t, "retry_count", attr.Key)
	assert.Equal(t, int64(2), attr.Value.Int64())
}

// ============================================================================
// Debugging Tests
// ============================================================================

func TestStack(t *testing.T) {
	t.Parallel()
	attr := logger.Stack()
	require.Equal(t, "stack", attr.Key)
	assert.Contains(t, attr.Value.String(), "goroutine")
}

func TestCaller(t *testing.T) {
	t.Parallel()
	attr := logger.Caller()
	require.Equal(t, "caller", attr.Key)
	assert.True(t, strings.Contains(attr.Value.String(), "attr_test.go"))
}
