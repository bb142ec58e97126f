package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew_JSONWithAppFields(t *testing.T) {
	// Setup
	var buf bytes.Buffer
	l := New(Options{App: "attendance", Version: "v1", Environment: "test", Output: &buf})

	// Act
	l.Info("Checked in", "employee_id", "EMP-1")

	// Assert
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "attendance", entry["app"])
	assert.Equal(t, "EMP-1", entry["employee_id"])
	assert.Contains(t, buf.String(), "Checked in")
}

func TestNew_TraceIDs(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{App: "attendance", Output: &buf})
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	l.InfoContext(ctx, "traced")

	assert.Contains(t, buf.String(), span.SpanContext().TraceID().String())
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Output: &buf})

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestSetupConsole(t *testing.T) {
	var buf bytes.Buffer
	SetupConsole(&buf, false)

	log.Debug().Msg("quiet")
	log.Info().Str("date", "2026-03-02").Msg("marked")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "marked")
	assert.Contains(t, buf.String(), "2026-03-02")
}
