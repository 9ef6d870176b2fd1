// Package vmadapters implements the recordstore metrics interface with VictoriaMetrics/metrics,
// for deployments that scrape a Prometheus text endpoint instead of pushing OTLP.
package vmadapters

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// MetricsCollector implements recordstore.MetricsCollector on a private metrics.Set.
//   - RecordDuration -> Histogram in seconds
//   - IncrementCounter -> Counter
//   - RecordValue -> Gauge holding the last recorded value
type MetricsCollector struct {
	set    *metrics.Set
	gauges *xsync.MapOf[string, *atomic.Uint64]
}

// NewMetricsCollector creates a collector with its own metrics.Set.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		set:    metrics.NewSet(),
		gauges: xsync.NewMapOf[string, *atomic.Uint64](),
	}
}

func (c *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	c.set.GetOrCreateHistogram(seriesName(metric, labels)).Update(duration.Seconds())
}

func (c *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	c.set.GetOrCreateCounter(seriesName(metric, labels)).Inc()
}

func (c *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	name := seriesName(metric, labels)

	bits, loaded := c.gauges.LoadOrCompute(name, func() *atomic.Uint64 {
		return new(atomic.Uint64)
	})
	bits.Store(math.Float64bits(value))

	if !loaded {
		c.set.GetOrCreateGauge(name, func() float64 {
			return math.Float64frombits(bits.Load())
		})
	}
}

// WritePrometheus writes all series in Prometheus text exposition format.
// With processMetrics set it also writes the go_* and process_* series.
func (c *MetricsCollector) WritePrometheus(w io.Writer, processMetrics bool) {
	c.set.WritePrometheus(w)

	if processMetrics {
		metrics.WriteProcessMetrics(w)
	}
}

// seriesName renders metric{k="v",...} with keys sorted, which is how metrics.Set identifies a series.
func seriesName(metric string, labels map[string]string) string {
	if len(labels) == 0 {
		return metric
	}

	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(metric)
	b.WriteByte('{')

	for i, key := range keys {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(labels[key]))
	}

	b.WriteByte('}')

	return b.String()
}

var _ recordstore.MetricsCollector = (*MetricsCollector)(nil)
