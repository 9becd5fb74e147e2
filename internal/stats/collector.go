// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Call metrics.
	MetricCalls    = "picklejar_calls_total"
	MetricFailures = "picklejar_failures_total"
	MetricBytes    = "picklejar_bytes_total"
	MetricDuration = "picklejar_call_duration_seconds"

	// MetricInflight is the number of dump/load calls currently running.
	MetricInflight = "picklejar_inflight_calls"
)

// Operation label values.
const (
	OpDump = "dump"
	OpLoad = "load"
)

// Labels identify the call a metric sample belongs to.
type Labels struct {
	Op          string
	Compression string
	Pickler     string
}

// LabelNames are the label keys, in the order Values returns them.
var LabelNames = []string{"op", "compression", "pickler"}

// Values returns the label values in LabelNames order.
func (l Labels) Values() []string {
	return []string{l.Op, l.Compression, l.Pickler}
}

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64, labels Labels)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64, labels Labels)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64, labels Labels)
}
