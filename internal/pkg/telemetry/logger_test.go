package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLoggerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "storefront", "test")

	ctx := constants.WithRequestID(context.Background(), "req-42")
	logger.InfoContext(ctx, "hello", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "storefront", line["service"])
	assert.Equal(t, "test", line["env"])
	assert.NotContains(t, line, "trace_id")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "storefront", "test")
	logger.Info("dropped")
	assert.Zero(t, buf.Len())
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "otel:4317", stripScheme("http://otel:4317"))
	assert.Equal(t, "otel:4317", stripScheme("https://otel:4317"))
	assert.Equal(t, "otel:4317", stripScheme("otel:4317"))
}
