package prometheus

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/metmap/pkg/errors"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

// metricValue returns the value of the counter, gauge or histogram sample
// count of the series name{labels}.
func metricValue(t *testing.T, c MetricsCollector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if !labelsMatch(m.GetLabel(), labels) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("series %s%v not found", name, labels)
	return 0
}

func labelsMatch(pairs []*dto.LabelPair, want map[string]string) bool {
	if len(pairs) != len(want) {
		return false
	}
	for _, p := range pairs {
		if want[p.GetName()] != p.GetValue() {
			return false
		}
	}
	return true
}

func TestNewMetricsCollector_ValidConfig(t *testing.T) {
	assert.NotNil(t, newTestCollector(t))
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMetricsError))
}

func TestNewMetricsCollector_WithGoMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	n, err := testutil.GatherAndCount(c.Gatherer(), "go_goroutines")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegisterCounter_Success(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("events_total", "events", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)
	assert.Equal(t, 3.0, metricValue(t, c, "test_unit_events_total", map[string]string{"kind": "a"}))
}

func TestRegisterCounter_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("events_total", "events", "kind").WithLabelValues("a").Inc()
	c.RegisterCounter("events_total", "events", "kind").WithLabelValues("a").Inc()
	assert.Equal(t, 2.0, metricValue(t, c, "test_unit_events_total", map[string]string{"kind": "a"}))
}

func TestRegister_TypeMismatchReturnsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("shared", "counter first")
	g := c.RegisterGauge("shared", "then gauge")
	assert.IsType(t, noopGaugeVec{}, g)
	assert.NotPanics(t, func() { g.WithLabelValues().Set(1) })
}

func TestRegisterGauge_Success(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("size", "size", "model")
	g.WithLabelValues("m1").Set(10)
	g.WithLabelValues("m1").Dec()
	assert.Equal(t, 9.0, metricValue(t, c, "test_unit_size", map[string]string{"model": "m1"}))
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("latency_seconds", "latency", nil, "op")
	h.WithLabelValues("x").Observe(0.2)
	h.WithLabelValues("x").Observe(3)
	assert.Equal(t, 2.0, metricValue(t, c, "test_unit_latency_seconds", map[string]string{"op": "x"}))
}

func TestMustRegisterAndUnregister(t *testing.T) {
	c := newTestCollector(t)
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_total", Help: "extra"})
	c.MustRegister(extra)
	extra.Inc()
	assert.Equal(t, 1.0, metricValue(t, c, "extra_total", nil))
	assert.True(t, c.Unregister(extra))
}

func TestWriteTextfile(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("runs_total", "runs", "status").WithLabelValues("success").Inc()

	path := filepath.Join(t.TempDir(), "metmap.prom")
	require.NoError(t, c.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `test_unit_runs_total{status="success"} 1`)
}

func TestWriteTextfile_BadPath(t *testing.T) {
	c := newTestCollector(t)
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "metmap.prom"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeMetricsError))
}

func TestTimer_ObserveDuration(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timer_seconds", "timer", nil)
	timer := NewTimer(h.WithLabelValues())
	time.Sleep(time.Millisecond)
	assert.Greater(t, timer.ObserveDuration(), time.Duration(0))
	assert.Equal(t, 1.0, metricValue(t, c, "test_unit_timer_seconds", nil))

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
