package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. Vision calls are slow, so the upper
	// buckets reach a minute.
	latencyBuckets = []float64{
		10, 50, 100,
		250, 500, 1000,
		2500, 5000, 10000,
		20000, 40000, 60000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportlens_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"route", "method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sportlens_request_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route"},
	)

	AnalysesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportlens_analyses_total",
			Help: "Image analyses by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	ProviderLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sportlens_provider_latency_ms",
			Help:    "Provider call latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"provider", "model"},
	)

	VideoForwardsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportlens_video_forwards_total",
			Help: "Video uploads forwarded to the video backend by outcome",
		},
		[]string{"status"},
	)

	RateLimitedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sportlens_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limit",
		},
		[]string{"route"},
	)
)

type MetricsConfig struct {
	EnableLatency  bool // HTTP latency histogram
	EnableUpstream bool // provider and video backend series
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:  true,
		EnableUpstream: true,
	}
}

var (
	Config   = DefaultMetricsConfig()
	initOnce sync.Once
)

// Initialize sets the series switches. Collectors are registered only once,
// so servers built in tests can call it repeatedly.
func Initialize(cfg MetricsConfig) {
	Config = cfg
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

func Gatherer() prometheus.Gatherer {
	return registry
}
