package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records canvas metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordNodeCreated records a node dropped onto the canvas.
	RecordNodeCreated(ctx context.Context, category string)

	// RecordConnection records a classified connection by type.
	// Refused connections are recorded with refused=true.
	RecordConnection(ctx context.Context, connectionType string, refused bool)

	// RecordProjectSave records a project flush with its duration and
	// serialized size.
	RecordProjectSave(ctx context.Context, duration time.Duration, sizeBytes int64, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	nodesCreated metric.Int64Counter
	connections  metric.Int64Counter
	projectSaves metric.Int64Counter
	saveLatency  metric.Float64Histogram
	saveSize     metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("flowcanvas")

	nodesCreated, err := meter.Int64Counter("flowcanvas.nodes.created",
		metric.WithDescription("Number of nodes created on the canvas"),
	)
	if err != nil {
		return nil, err
	}

	connections, err := meter.Int64Counter("flowcanvas.connections",
		metric.WithDescription("Number of connections classified"),
	)
	if err != nil {
		return nil, err
	}

	projectSaves, err := meter.Int64Counter("flowcanvas.project.saves",
		metric.WithDescription("Number of project flushes"),
	)
	if err != nil {
		return nil, err
	}

	saveLatency, err := meter.Float64Histogram("flowcanvas.project.save_latency_ms",
		metric.WithDescription("Project flush latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	saveSize, err := meter.Int64Histogram("flowcanvas.project.size_bytes",
		metric.WithDescription("Serialized project size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		nodesCreated: nodesCreated,
		connections:  connections,
		projectSaves: projectSaves,
		saveLatency:  saveLatency,
		saveSize:     saveSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		return NoopMetrics{}
	}
	return m
}

// RecordNodeCreated implements MetricsRecorder.
func (m *otelMetrics) RecordNodeCreated(ctx context.Context, category string) {
	m.nodesCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
	))
}

// RecordConnection implements MetricsRecorder.
func (m *otelMetrics) RecordConnection(ctx context.Context, connectionType string, refused bool) {
	if connectionType == "" {
		connectionType = "generic"
	}
	m.connections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("connection_type", connectionType),
		attribute.Bool("refused", refused),
	))
}

// RecordProjectSave implements MetricsRecorder.
func (m *otelMetrics) RecordProjectSave(ctx context.Context, duration time.Duration, sizeBytes int64, err error) {
	m.projectSaves.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", err == nil),
	))
	m.saveLatency.Record(ctx, float64(duration.Milliseconds()))
	if sizeBytes > 0 {
		m.saveSize.Record(ctx, sizeBytes)
	}
}
