package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestManagerCounters verifies counters are registered on the private registry.
func TestManagerCounters(t *testing.T) {
	m := NewTestManager()

	m.CounterStoreFailures.WithLabelValues("read").Inc()
	m.CounterStoreFailures.WithLabelValues("read").Inc()
	m.CounterSessionsSaved.Inc()

	if got := testutil.ToFloat64(m.CounterStoreFailures.WithLabelValues("read")); got != 2 {
		t.Errorf("store failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CounterSessionsSaved); got != 1 {
		t.Errorf("sessions saved = %v, want 1", got)
	}

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("no metric families gathered")
	}
}

// TestManagersAreIndependent verifies two managers do not share registries.
func TestManagersAreIndependent(t *testing.T) {
	a := NewTestManager()
	b := NewTestManager()
	a.CounterSetsRecorded.Inc()
	if got := testutil.ToFloat64(b.CounterSetsRecorded); got != 0 {
		t.Errorf("second manager counter = %v, want 0", got)
	}
}
