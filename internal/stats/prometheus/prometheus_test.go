package prometheus

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/discochess/picklejar/internal/stats"
)

var (
	dumpGzip = stats.Labels{Op: stats.OpDump, Compression: "gzip", Pickler: "gob"}
	loadNone = stats.Labels{Op: stats.OpLoad, Compression: "none", Pickler: "json"}
)

// find returns the sample of family name carrying the given op label.
func find(t *testing.T, reg *prometheus.Registry, name, op string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "op" && lp.GetValue() == op {
					return m
				}
			}
		}
	}
	t.Fatalf("metric %s{op=%q} not found", name, op)
	return nil
}

func TestNew_DefaultRegistry(t *testing.T) {
	// Create with nil registry - should use default.
	c := New(nil)
	if c == nil {
		t.Fatal("New(nil) returned nil")
	}
	if c.registry == nil {
		t.Error("registry should not be nil")
	}
}

func TestNew_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	if c.registry != reg {
		t.Error("registry should be the custom registry")
	}
}

func TestCollector_IncCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter(stats.MetricCalls, 5, dumpGzip)
	c.IncCounter(stats.MetricCalls, 3, dumpGzip)
	c.IncCounter(stats.MetricCalls, 1, loadNone)

	if val := find(t, reg, stats.MetricCalls, stats.OpDump).GetCounter().GetValue(); val != 8 {
		t.Errorf("dump counter value = %v, want 8", val)
	}
	if val := find(t, reg, stats.MetricCalls, stats.OpLoad).GetCounter().GetValue(); val != 1 {
		t.Errorf("load counter value = %v, want 1", val)
	}
}

func TestCollector_Labels(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.IncCounter(stats.MetricBytes, 10, dumpGzip)

	m := find(t, reg, stats.MetricBytes, stats.OpDump)
	got := map[string]string{}
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	if got["compression"] != "gzip" || got["pickler"] != "gob" {
		t.Errorf("labels = %v", got)
	}
}

func TestCollector_SetGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.SetGauge(stats.MetricInflight, 42, dumpGzip)

	if val := find(t, reg, stats.MetricInflight, stats.OpDump).GetGauge().GetValue(); val != 42 {
		t.Errorf("gauge value = %v, want 42", val)
	}
}

func TestCollector_ObserveHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveHistogram(stats.MetricDuration, 0.5, loadNone)
	c.ObserveHistogram(stats.MetricDuration, 1.5, loadNone)
	c.ObserveHistogram(stats.MetricDuration, 2.5, loadNone)

	if count := find(t, reg, stats.MetricDuration, stats.OpLoad).GetHistogram().GetSampleCount(); count != 3 {
		t.Errorf("histogram count = %v, want 3", count)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncCounter(stats.MetricCalls, 1, dumpGzip)
				c.SetGauge(stats.MetricInflight, int64(j), dumpGzip)
				c.ObserveHistogram(stats.MetricDuration, float64(j), dumpGzip)
			}
		}()
	}
	wg.Wait()

	// 10 goroutines * 100 increments.
	if val := find(t, reg, stats.MetricCalls, stats.OpDump).GetCounter().GetValue(); val != 1000 {
		t.Errorf("counter value = %v, want 1000", val)
	}
	if count := find(t, reg, stats.MetricDuration, stats.OpDump).GetHistogram().GetSampleCount(); count != 1000 {
		t.Errorf("histogram count = %v, want 1000", count)
	}
}

func TestCollector_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()

	// Pre-register a vector with the same name and labels.
	existing := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: stats.MetricFailures,
		Help: stats.MetricFailures,
	}, stats.LabelNames)
	reg.MustRegister(existing)
	existing.WithLabelValues(dumpGzip.Values()...).Add(100)

	c := New(reg)
	c.IncCounter(stats.MetricFailures, 5, dumpGzip)

	// Should be 105 (100 from original + 5 from collector).
	if val := find(t, reg, stats.MetricFailures, stats.OpDump).GetCounter().GetValue(); val != 105 {
		t.Errorf("counter value = %v, want 105", val)
	}
}
