// Package metrics, sync çekirdeği ve gallery server'ı için Prometheus metriklerini tanımlar.
//
// Metrikler bir prometheus.Registerer'a kaydedilir. Varsayılan
// prometheus.DefaultRegisterer'dır; testler kendi registry'lerini verir
// (aynı isimli metriği iki kez kaydetmek panic'e yol açar).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config, metrik isim alanı ve registry ayarları.
type Config struct {
	Namespace string
	Buckets   []float64
	Registry  prometheus.Registerer
}

// Option, Config'i değiştiren fonksiyonel opsiyon.
type Option func(*Config)

// WithNamespace, metrik isim alanını ayarlar (varsayılan "gallery").
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithRegistry, metriklerin kaydedileceği registry'yi ayarlar.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithBuckets, süre histogramlarının bucket'larını ayarlar.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func newConfig(opts []Option) Config {
	c := Config{
		Namespace: "gallery",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ActionMetrics, Action Executor'ın aksiyon sonuçlarını sayar.
// executor.Metrics interface'ini karşılar.
type ActionMetrics struct {
	started   *prometheus.CounterVec
	settled   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	rejected  *prometheus.CounterVec
	anomalies *prometheus.CounterVec
}

// NewActionMetrics, executor metriklerini oluşturur ve kaydeder.
func NewActionMetrics(opts ...Option) *ActionMetrics {
	c := newConfig(opts)
	factory := promauto.With(c.Registry)

	return &ActionMetrics{
		started: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.Namespace,
			Subsystem: "sync",
			Name:      "actions_started_total",
			Help:      "Actions that passed the pending-action guard",
		}, []string{"kind"}),

		settled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.Namespace,
			Subsystem: "sync",
			Name:      "actions_settled_total",
			Help:      "Actions that reached a terminal state",
		}, []string{"kind", "result"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.Namespace,
			Subsystem: "sync",
			Name:      "action_duration_seconds",
			Help:      "Time from optimistic apply to terminal state",
			Buckets:   c.Buckets,
		}, []string{"kind"}),

		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.Namespace,
			Subsystem: "sync",
			Name:      "actions_rejected_total",
			Help:      "Triggers rejected because an action was already pending",
		}, []string{"kind"}),

		anomalies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.Namespace,
			Subsystem: "sync",
			Name:      "anomalies_total",
			Help:      "Anomalies reported to diagnostics",
		}, []string{"kind", "class"}),
	}
}

func (m *ActionMetrics) ActionStarted(kind string) {
	m.started.WithLabelValues(kind).Inc()
}

func (m *ActionMetrics) ActionSettled(kind, result string, d time.Duration) {
	m.settled.WithLabelValues(kind, result).Inc()
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *ActionMetrics) ActionRejected(kind string) {
	m.rejected.WithLabelValues(kind).Inc()
}

func (m *ActionMetrics) AnomalyReported(kind, class string) {
	m.anomalies.WithLabelValues(kind, class).Inc()
}

// ServerMetrics, gallery server tarafının mutation ve WebSocket metrikleri.
type ServerMetrics struct {
	mutations     *prometheus.CounterVec
	onlineClients prometheus.Gauge
}

// NewServerMetrics, server metriklerini oluşturur ve kaydeder.
func NewServerMetrics(opts ...Option) *ServerMetrics {
	c := newConfig(opts)
	factory := promauto.With(c.Registry)

	return &ServerMetrics{
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.Namespace,
			Subsystem: "server",
			Name:      "mutations_total",
			Help:      "Mutations served, by operation and response __typename",
		}, []string{"op", "typename"}),

		onlineClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: c.Namespace,
			Subsystem: "server",
			Name:      "ws_clients",
			Help:      "Connected WebSocket clients",
		}),
	}
}

// MutationServed, bir mutation yanıtını discriminant'ıyla sayar.
func (m *ServerMetrics) MutationServed(op, typename string) {
	m.mutations.WithLabelValues(op, typename).Inc()
}

// SetOnlineClients, bağlı WebSocket client sayısını günceller.
func (m *ServerMetrics) SetOnlineClients(n int) {
	m.onlineClients.Set(float64(n))
}
