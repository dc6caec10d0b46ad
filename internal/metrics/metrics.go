// Package metrics records reconciliation counters in a private Prometheus
// registry that can be written out as a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

const DefaultNamespace = "arrayctl"

type Config struct {
	Namespace string
	// Buckets for job_wait_seconds; prometheus.DefBuckets are too short for array jobs.
	Buckets []float64
}

var defaultJobBuckets = []float64{1, 2, 5, 10, 30, 60, 120, 300, 600}

type Metrics struct {
	registry *prometheus.Registry

	reconciliations *prometheus.CounterVec
	arrayCalls      *prometheus.CounterVec
	jobPolls        *prometheus.CounterVec
	jobWait         prometheus.Histogram
}

var _ ports.Metrics = (*Metrics)(nil)

func New(cfg Config) (*Metrics, error) {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = defaultJobBuckets
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reconciliations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliations_total",
				Help:      "Reconciliations by resource kind, verdict and result",
			},
			[]string{"kind", "verdict", "result"},
		),
		arrayCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "array_calls_total",
				Help:      "Calls made to the array by operation and result",
			},
			[]string{"operation", "result"},
		),
		jobPolls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_polls_total",
				Help:      "Job status polls by observed phase",
			},
			[]string{"phase"},
		),
		jobWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_wait_seconds",
				Help:      "Time spent waiting for asynchronous jobs",
				Buckets:   buckets,
			},
		),
	}

	for _, c := range []prometheus.Collector{m.reconciliations, m.arrayCalls, m.jobPolls, m.jobWait} {
		if err := m.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to register metric")
		}
	}
	return m, nil
}

func (m *Metrics) ObserveReconcile(kind domain.ResourceKind, verdict domain.Verdict, result string) {
	m.reconciliations.WithLabelValues(string(kind), string(verdict), result).Inc()
}

func (m *Metrics) ObserveArrayCall(operation, result string) {
	m.arrayCalls.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) ObserveJobPoll(phase domain.JobPhase) {
	m.jobPolls.WithLabelValues(string(phase)).Inc()
}

func (m *Metrics) ObserveJobWait(d time.Duration) {
	m.jobWait.Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile atomically replaces path with the current metric values.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write metrics textfile")
	}
	return nil
}
