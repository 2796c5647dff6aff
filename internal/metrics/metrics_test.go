package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SetOnline(1, 2)
		m.Relayed("typing")
		m.Dropped(3)
		m.Push("call", true)
		m.Pairing("issued")
	})
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Relayed("typing")
	m.Relayed("typing")
	m.Push("call", false)
	m.SetOnline(3, 4)
	m.Dropped(0)
	m.Dropped(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.relayed.WithLabelValues("typing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.push.WithLabelValues("call", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.onlineUsers))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dropped))
}
