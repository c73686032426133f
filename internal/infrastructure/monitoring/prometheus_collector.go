package monitoring

import (
	"meetlive/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector implements ports.MetricsCollector.
type PrometheusCollector struct {
	// Gauges
	sessionsActive        prometheus.Gauge
	participantsConnected prometheus.Gauge
	entryRequestsPending  prometheus.Gauge

	// Counters
	sessionsCreatedTotal prometheus.Counter
	messagesRelayedTotal *prometheus.CounterVec
	relayDroppedTotal    prometheus.Counter
	broadcastsTotal      *prometheus.CounterVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		sessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "meetlive_sessions_active",
			Help: "Number of live sessions",
		}),

		participantsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "meetlive_participants_connected",
			Help: "Number of admitted members across all sessions",
		}),

		entryRequestsPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "meetlive_entry_requests_pending",
			Help: "Number of entry requests awaiting an owner decision",
		}),

		sessionsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meetlive_sessions_created_total",
			Help: "Total number of sessions created",
		}),

		messagesRelayedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meetlive_messages_relayed_total",
			Help: "Total number of negotiation messages relayed",
		}, []string{"kind"}),

		relayDroppedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meetlive_relay_dropped_total",
			Help: "Total number of relay messages dropped as unroutable",
		}),

		broadcastsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meetlive_broadcasts_total",
			Help: "Total number of room broadcasts by event",
		}, []string{"event"}),
	}
}

func (p *PrometheusCollector) SessionCreated() {
	p.sessionsActive.Inc()
	p.sessionsCreatedTotal.Inc()
}

func (p *PrometheusCollector) SessionDestroyed() {
	p.sessionsActive.Dec()
}

func (p *PrometheusCollector) ParticipantJoined() {
	p.participantsConnected.Inc()
}

func (p *PrometheusCollector) ParticipantLeft() {
	p.participantsConnected.Dec()
}

func (p *PrometheusCollector) EntryRequested() {
	p.entryRequestsPending.Inc()
}

func (p *PrometheusCollector) EntryResolved() {
	p.entryRequestsPending.Dec()
}

func (p *PrometheusCollector) MessageRelayed(kind domain.SignalKind) {
	p.messagesRelayedTotal.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusCollector) RelayDropped() {
	p.relayDroppedTotal.Inc()
}

func (p *PrometheusCollector) Broadcast(event string) {
	p.broadcastsTotal.WithLabelValues(event).Inc()
}
