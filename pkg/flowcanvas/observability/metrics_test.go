package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a test meter provider and returns a reader
// to collect from.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}
	return reader, cleanup
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func newTestRecorder(t *testing.T) MetricsRecorder {
	m, err := newOtelMetrics()
	require.NoError(t, err)
	return m
}

func TestMetrics_RecordNodeCreated(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := newTestRecorder(t)
	recorder.RecordNodeCreated(context.Background(), "agent")
	recorder.RecordNodeCreated(context.Background(), "tool")

	rm := collectMetrics(t, reader)
	m := findMetric(rm, "flowcanvas.nodes.created")
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)
}

func TestMetrics_RecordConnection(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := newTestRecorder(t)
	recorder.RecordConnection(context.Background(), "toolAttachment", false)
	recorder.RecordConnection(context.Background(), "", false) // generic
	recorder.RecordConnection(context.Background(), "", true)  // refused

	rm := collectMetrics(t, reader)
	m := findMetric(rm, "flowcanvas.connections")
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
}

func TestMetrics_RecordProjectSave(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := newTestRecorder(t)
	recorder.RecordProjectSave(context.Background(), 5*time.Millisecond, 2048, nil)
	recorder.RecordProjectSave(context.Background(), time.Millisecond, 0, errors.New("disk full"))

	rm := collectMetrics(t, reader)

	saves := findMetric(rm, "flowcanvas.project.saves")
	require.NotNil(t, saves)

	latency := findMetric(rm, "flowcanvas.project.save_latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)

	// Size histogram only records when a size was measured.
	size := findMetric(rm, "flowcanvas.project.size_bytes")
	require.NotNil(t, size)
	sizeHist, ok := size.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	var sizeCount uint64
	for _, dp := range sizeHist.DataPoints {
		sizeCount += dp.Count
	}
	assert.Equal(t, uint64(1), sizeCount)
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
}
