package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestRegistry_CountersAreRegistered(t *testing.T) {
	preg := prometheus.NewRegistry()
	r := NewRegistry(preg)

	r.Fetches.WithLabelValues("user.status", "ok").Inc()
	r.Fetches.WithLabelValues("user.status", "error").Add(2)

	mf := gather(t, preg, "cftracker_fetches_total")
	require.NotNil(t, mf, "fetch counter should be gatherable")
	require.Len(t, mf.GetMetric(), 2)

	var total float64
	for _, m := range mf.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	require.Equal(t, 3.0, total)
}

func TestRegistry_DoubleRegisterPanics(t *testing.T) {
	preg := prometheus.NewRegistry()
	NewRegistry(preg)

	require.Panics(t, func() { NewRegistry(preg) })
}
