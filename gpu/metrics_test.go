package gpu

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	require.NotNil(t, m)

	// Labelled vectors only appear in Gather once a label value exists.
	m.Observe("A", time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 2)
}

func TestObserveIncrementsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Observe("A", 5*time.Millisecond)
	m.Observe("A", 10*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var sawCounter, sawHistogram bool
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if metric.GetCounter() != nil {
				sawCounter = true
				require.Equal(t, float64(2), metric.GetCounter().GetValue())
			}
			if metric.GetHistogram() != nil {
				sawHistogram = true
				require.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
			}
		}
	}
	require.True(t, sawCounter)
	require.True(t, sawHistogram)
}

func TestObserveOnNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() { m.Observe("A", time.Millisecond) })
}

func TestTrackRecordsElapsed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	done := m.Track("Bi1")
	done()

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "kimchi_msm_dispatches_total" {
			found = true
			require.Equal(t, float64(1), f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	require.True(t, found)
}
