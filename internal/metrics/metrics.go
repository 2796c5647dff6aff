// Package metrics exposes the realtime layer's prometheus collectors.
// All methods are nil-safe so components can run without instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pulse"

type Metrics struct {
	onlineUsers prometheus.Gauge
	sessions    prometheus.Gauge
	relayed     *prometheus.CounterVec
	dropped     prometheus.Counter
	push        *prometheus.CounterVec
	pairing     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		onlineUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_users",
			Help:      "Users with a live session in the registry.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Open websocket sessions, identified or not.",
		}),
		relayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relayed_events_total",
			Help:      "Events handed to at least one live session.",
		}, []string{"event"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_frames_total",
			Help:      "Frames dropped on a full send buffer.",
		}),
		push: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_attempts_total",
			Help:      "Push notifications per token by kind and outcome.",
		}, []string{"kind", "outcome"}),
		pairing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairing_tokens_total",
			Help:      "Pairing token lifecycle events.",
		}, []string{"event"}),
	}
	reg.MustRegister(m.onlineUsers, m.sessions, m.relayed, m.dropped, m.push, m.pairing)
	return m
}

func (m *Metrics) SetOnline(users, sessions int) {
	if m == nil {
		return
	}
	m.onlineUsers.Set(float64(users))
	m.sessions.Set(float64(sessions))
}

func (m *Metrics) Relayed(event string) {
	if m == nil {
		return
	}
	m.relayed.WithLabelValues(event).Inc()
}

func (m *Metrics) Dropped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.dropped.Add(float64(n))
}

func (m *Metrics) Push(kind string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.push.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Pairing(event string) {
	if m == nil {
		return
	}
	m.pairing.WithLabelValues(event).Inc()
}
