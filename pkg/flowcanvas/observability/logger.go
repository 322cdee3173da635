// Package observability provides structured logging, metrics, and
// tracing for the canvas core.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds canvas context to a logger. Returns a new logger
// with project_id, node and edge count fields.
func EnrichLogger(logger *slog.Logger, projectID string, nodes, edges int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("project_id", projectID),
		slog.Int("nodes", nodes),
		slog.Int("edges", edges),
	)
}

// LogNodeCreated logs a node dropped onto the canvas.
func LogNodeCreated(logger *slog.Logger, nodeID, componentID string, category string) {
	if logger == nil {
		return
	}
	logger.Debug("node created",
		slog.String("node_id", nodeID),
		slog.String("component_id", componentID),
		slog.String("category", category),
	)
}

// LogConnection logs a classified connection.
func LogConnection(logger *slog.Logger, edgeID, source, target string, connectionType string) {
	if logger == nil {
		return
	}
	logger.Debug("connection classified",
		slog.String("edge_id", edgeID),
		slog.String("source", source),
		slog.String("target", target),
		slog.String("connection_type", connectionType),
	)
}

// LogConnectionRefused logs a structurally unsafe connection attempt.
func LogConnectionRefused(logger *slog.Logger, source, target string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("connection refused",
		slog.String("source", source),
		slog.String("target", target),
		slog.String("error", err.Error()),
	)
}

// LogProjectSaved logs a project snapshot.
func LogProjectSaved(logger *slog.Logger, projectID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("project saved",
		slog.String("project_id", projectID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogProjectLoaded logs a project becoming current.
func LogProjectLoaded(logger *slog.Logger, projectID string, nodes, edges int) {
	if logger == nil {
		return
	}
	logger.Info("project loaded",
		slog.String("project_id", projectID),
		slog.Int("nodes", nodes),
		slog.Int("edges", edges),
	)
}

// LogStoreError logs a persistence failure (non-fatal; the in-memory
// graph stays authoritative).
func LogStoreError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("persistence failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation. Returns a
// function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
