package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the sync service.
type Metrics struct {
	SyncPages      *prometheus.CounterVec
	RecordsCreated *prometheus.CounterVec
	RecordsUpdated *prometheus.CounterVec
	SkippedFields  *prometheus.CounterVec
	SyncDuration   *prometheus.HistogramVec
}

// NewMetrics creates and registers sync metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SyncPages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdek_sync_pages_total",
				Help: "Total pages fetched from the provider by entity",
			},
			[]string{"entity"},
		),
		RecordsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdek_sync_records_created_total",
				Help: "Total reference records created by entity",
			},
			[]string{"entity"},
		),
		RecordsUpdated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdek_sync_records_updated_total",
				Help: "Total reference records updated in place by entity",
			},
			[]string{"entity"},
		),
		SkippedFields: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdek_sync_skipped_fields_total",
				Help: "Total numeric fields skipped due to parse failures",
			},
			[]string{"entity", "field"},
		),
		SyncDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cdek_sync_duration_seconds",
				Help:    "Duration of a full sync pass by entity",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity"},
		),
	}
}
