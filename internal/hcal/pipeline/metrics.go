package pipeline

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/banshee-data/hcal.cluster/internal/hcal/clustering"
	"github.com/banshee-data/hcal.cluster/internal/hcal/geometry"
)

// Rejection reasons used as the "reason" label.
const (
	ReasonInvalidEnergy = "invalid_energy"
	ReasonUnknownCell   = "unknown_cell"
	ReasonOther         = "other"
)

// Metrics holds the pipeline's prometheus collectors.
type Metrics struct {
	EventsProcessed  prometheus.Counter
	EventsFailed     prometheus.Counter
	ClustersProduced prometheus.Counter
	HitsRejected     *prometheus.CounterVec
	MergeIterations  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		EventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hcal_cluster_events_processed_total",
			Help: "Total number of events clustered",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hcal_cluster_events_failed_total",
			Help: "Total number of events that could not be clustered",
		}),
		ClustersProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hcal_cluster_clusters_total",
			Help: "Total number of clusters produced",
		}),
		HitsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hcal_cluster_hits_rejected_total",
				Help: "Total number of hits excluded from clustering",
			},
			[]string{"reason"},
		),
		MergeIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hcal_cluster_merge_iterations",
			Help:    "Merge iterations per event",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	for _, c := range []prometheus.Collector{
		m.EventsProcessed, m.EventsFailed, m.ClustersProduced, m.HitsRejected, m.MergeIterations,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RejectionReason maps a hit error onto a metric label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, clustering.ErrInvalidHitEnergy):
		return ReasonInvalidEnergy
	case errors.Is(err, geometry.ErrUnknownCellID):
		return ReasonUnknownCell
	default:
		return ReasonOther
	}
}

func (m *Metrics) observe(res *Result) {
	if m == nil {
		return
	}
	m.EventsProcessed.Inc()
	m.ClustersProduced.Add(float64(len(res.Clusters)))
	m.MergeIterations.Observe(float64(res.Iterations))
	for _, r := range res.Rejected {
		m.HitsRejected.WithLabelValues(RejectionReason(r)).Inc()
	}
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.EventsFailed.Inc()
}
