package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grove"

// Metrics holds the collectors of one world instance on its own registry.
type Metrics struct {
	registry      *prometheus.Registry
	actions       *prometheus.CounterVec
	actionLatency *prometheus.HistogramVec
	storeOps      *prometheus.CounterVec
	casConflicts  *prometheus.CounterVec
	roster        prometheus.Gauge
	chatFlushes   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Player actions by name and result.",
		}, []string{"action", "result"}),
		actionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Load-mutate-persist cycle latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_ops_total",
			Help:      "Store calls by op and result.",
		}, []string{"op", "result"}),
		casConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_cas_conflicts_total",
			Help:      "Compare-and-swap version conflicts by key kind.",
		}, []string{"kind"}),
		roster: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "biome_players",
			Help:      "Players registered in the canonical biome.",
		}),
		chatFlushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_flushes_total",
			Help:      "Chat ring snapshot writes by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.actions,
		m.actionLatency,
		m.storeOps,
		m.casConflicts,
		m.roster,
		m.chatFlushes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAction(action, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, result).Inc()
	m.actionLatency.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (m *Metrics) StoreOp(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOps.WithLabelValues(op, result).Inc()
}

func (m *Metrics) CASConflict(kind string) {
	if m == nil {
		return
	}
	m.casConflicts.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetRoster(n int) {
	if m == nil {
		return
	}
	m.roster.Set(float64(n))
}

func (m *Metrics) ChatFlush(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.chatFlushes.WithLabelValues(result).Inc()
}
