package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}

func TestEnrichLogger(t *testing.T) {
	logger, buf := newBufLogger()

	enriched := EnrichLogger(logger, "proj-abc123", 4, 3)
	enriched.Info("snapshot")

	out := buf.String()
	assert.Contains(t, out, "proj-abc123")
	assert.Contains(t, out, `"nodes":4`)
	assert.Contains(t, out, `"edges":3`)
}

func TestEnrichLogger_NilLogger(t *testing.T) {
	assert.Nil(t, EnrichLogger(nil, "proj", 0, 0))
}

func TestLogHelpers_EmitFields(t *testing.T) {
	logger, buf := newBufLogger()

	LogNodeCreated(logger, "EchoAgent-a1b2c3", "EchoAgent", "agent")
	assert.Contains(t, buf.String(), "EchoAgent-a1b2c3")
	buf.Reset()

	LogConnection(logger, "edge-x", "tool-1", "agent-1", "toolAttachment")
	assert.Contains(t, buf.String(), "toolAttachment")
	buf.Reset()

	LogConnectionRefused(logger, "a", "b", errors.New("index out of range"))
	assert.Contains(t, buf.String(), "connection refused")
	buf.Reset()

	LogProjectSaved(logger, "proj-1", 12.5)
	assert.Contains(t, buf.String(), "project saved")
	buf.Reset()

	LogProjectLoaded(logger, "proj-1", 2, 1)
	assert.Contains(t, buf.String(), "project loaded")
	buf.Reset()

	LogStoreError(logger, "flush", errors.New("disk full"))
	assert.Contains(t, buf.String(), "disk full")
}

func TestLogHelpers_NilLoggerSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		LogNodeCreated(nil, "n", "c", "agent")
		LogConnection(nil, "e", "s", "t", "")
		LogConnectionRefused(nil, "s", "t", errors.New("x"))
		LogProjectSaved(nil, "p", 0)
		LogProjectLoaded(nil, "p", 0, 0)
		LogStoreError(nil, "op", errors.New("x"))
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	elapsed := done()
	assert.GreaterOrEqual(t, elapsed, float64(0))
}
