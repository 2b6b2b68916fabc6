package sales

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records import and reporting activity. A nil *Metrics is a no-op.
type Metrics struct {
	importRows     *prometheus.CounterVec
	imports        *prometheus.CounterVec
	reportDuration *prometheus.HistogramVec
}

// NewMetrics registers the sales metrics on the provided registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_import_rows_total",
		Help: "CSV import rows by outcome.",
	}, []string{"outcome"})
	imports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_imports_total",
		Help: "CSV imports by result.",
	}, []string{"result"})
	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sales_report_duration_seconds",
		Help:    "Duration of report and export requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})
	reg.MustRegister(importRows, imports, reportDuration)
	return &Metrics{
		importRows:     importRows,
		imports:        imports,
		reportDuration: reportDuration,
	}
}

// ObserveImport counts the rows of a parsed upload.
func (m *Metrics) ObserveImport(stats IngestStats) {
	if m == nil || m.importRows == nil {
		return
	}
	for outcome, n := range map[string]int{
		"kept":              stats.Kept,
		"dropped_missing":   stats.DroppedMissing,
		"dropped_duplicate": stats.DroppedDuplicate,
		"dropped_number":    stats.DroppedInvalidNumber,
		"dropped_date":      stats.DroppedInvalidDate,
		"dropped_nonpos":    stats.DroppedNonPositive,
	} {
		m.importRows.WithLabelValues(outcome).Add(float64(n))
	}
}

// IncImport counts one finished import attempt.
func (m *Metrics) IncImport(result string) {
	if m == nil || m.imports == nil {
		return
	}
	m.imports.WithLabelValues(result).Inc()
}

// ObserveReport records how long a report took.
func (m *Metrics) ObserveReport(report string, duration time.Duration) {
	if m == nil || m.reportDuration == nil {
		return
	}
	m.reportDuration.WithLabelValues(report).Observe(duration.Seconds())
}
