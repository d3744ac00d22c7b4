// Package metrics exposes prometheus counters for mrtdump's decode
// pipeline, grounded on pobradovic08-route-beacon-ri/internal/metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecordsDecoded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mrtdump",
		Name:      "records_decoded_total",
		Help:      "MRT records successfully decoded, by MRT type and subtype name.",
	}, []string{"type", "subtype"})

	RecordsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mrtdump",
		Name:      "records_skipped_total",
		Help:      "MRT records dropped by a filter before output, by MRT type.",
	}, []string{"type"})

	RecordsErrored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mrtdump",
		Name:      "records_errored_total",
		Help:      "MRT records whose body failed to decode, by MRT type.",
	}, []string{"type"})

	RecordBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mrtdump",
		Name:      "record_bytes",
		Help:      "Size in bytes of each MRT record's declared body length.",
		Buckets:   prometheus.ExponentialBuckets(32, 4, 10),
	}, []string{"type"})

	SinkWriteErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mrtdump",
		Name:      "sink_write_errors_total",
		Help:      "Errors writing a decoded record to an output sink.",
	}, []string{"sink"})

	FilesInFlight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "mrtdump",
		Name:      "files_in_flight",
		Help:      "Number of input files currently being read.",
	}, []string{})
)

// Register adds every metric to prometheus's default registry. Call
// once at startup before serving /metrics.
func Register() {
	prometheus.MustRegister(
		RecordsDecoded,
		RecordsSkipped,
		RecordsErrored,
		RecordBytes,
		SinkWriteErrors,
		FilesInFlight,
	)
}
