package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	Registry *prometheus.Registry

	CounterStoreFailures *prometheus.CounterVec
	CounterSessionsSaved prometheus.Counter
	CounterSetsRecorded  prometheus.Counter
	CounterRequests      *prometheus.CounterVec
}

func NewTestManager() *Manager {
	return NewManager("liftlog", "test")
}

func NewManager(namespace, subsystem string) *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Manager{
		Registry: reg,
		CounterStoreFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_failures_total",
			Help:      "Storage operations that failed and fell back to a default",
		}, []string{"op"}),
		CounterSessionsSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_saved_total",
			Help:      "Session upserts written to the store",
		}),
		CounterSetsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sets_recorded_total",
			Help:      "Sets recorded in workout sessions",
		}),
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "HTTP requests by method and status",
		}, []string{"method", "status"}),
	}
}
