package threadpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of a Pool. A nil *Metrics records nothing.
type Metrics struct {
	JobsSubmitted prometheus.Counter
	JobsExecuted  prometheus.Counter
	QueuedJobs    prometheus.Gauge
	Workers       prometheus.Gauge
	BusyWorkers   prometheus.Gauge
	JobDuration   prometheus.Histogram
}

// NewMetrics creates the pool collectors and registers them with reg.
// It panics if a collector with the same name is already registered, like promauto does.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		JobsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "threadpool",
			Name:      "jobs_submitted_total",
			Help:      "Total number of jobs accepted by Execute",
		}),
		JobsExecuted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "threadpool",
			Name:      "jobs_executed_total",
			Help:      "Total number of jobs that returned",
		}),
		QueuedJobs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "threadpool",
			Name:      "queued_jobs",
			Help:      "Jobs waiting in the queue for a free worker",
		}),
		Workers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "threadpool",
			Name:      "workers",
			Help:      "Worker goroutines currently alive",
		}),
		BusyWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "threadpool",
			Name:      "busy_workers",
			Help:      "Workers currently running a job",
		}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "threadpool",
			Name:      "job_duration_seconds",
			Help:      "Histogram of job execution time",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) jobSubmitted() {
	if m == nil {
		return
	}
	m.JobsSubmitted.Inc()
	m.QueuedJobs.Inc()
}

func (m *Metrics) jobStarted() {
	if m == nil {
		return
	}
	m.QueuedJobs.Dec()
	m.BusyWorkers.Inc()
}

func (m *Metrics) jobExecuted(d time.Duration) {
	if m == nil {
		return
	}
	m.BusyWorkers.Dec()
	m.JobsExecuted.Inc()
	m.JobDuration.Observe(d.Seconds())
}

func (m *Metrics) workerStarted() {
	if m == nil {
		return
	}
	m.Workers.Inc()
}

func (m *Metrics) workerStopped() {
	if m == nil {
		return
	}
	m.Workers.Dec()
}
