package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "flow_seal_proxy"

// Recorder owns a private Prometheus registry and the service metrics.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	webhooksTotal           *prometheus.CounterVec
	upstreamRequestsTotal   *prometheus.CounterVec
	upstreamDurationSeconds *prometheus.HistogramVec
	tagWritesTotal          *prometheus.CounterVec
	subscriptionsFoundTotal prometheus.Counter
}

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.webhooksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "webhooks_total",
			Help:      "Order-created webhooks handled, by region and HTTP status.",
		},
		[]string{"region", "status"},
	)

	r.upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound requests to Seal and Shopify, by host and status code.",
		},
		[]string{"host", "status"},
	)

	r.upstreamDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of outbound requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"host"},
	)

	r.tagWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tag_writes_total",
			Help:      "Tag write attempts, by target and result.",
		},
		[]string{"target", "result"},
	)

	r.subscriptionsFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "subscriptions_found_total",
			Help:      "Subscriptions returned by Seal across all webhooks.",
		},
	)

	r.registry.MustRegister(
		r.webhooksTotal,
		r.upstreamRequestsTotal,
		r.upstreamDurationSeconds,
		r.tagWritesTotal,
		r.subscriptionsFoundTotal,
	)

	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Webhook counts one handled webhook.
func (r *Recorder) Webhook(region string, status int) {
	if r == nil {
		return
	}
	if region == "" {
		region = "unknown"
	}
	r.webhooksTotal.WithLabelValues(region, strconv.Itoa(status)).Inc()
}

// Upstream records one outbound request. A status of 0 means a transport error.
func (r *Recorder) Upstream(host string, status int, d time.Duration) {
	if r == nil {
		return
	}
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	r.upstreamRequestsTotal.WithLabelValues(host, label).Inc()
	r.upstreamDurationSeconds.WithLabelValues(host).Observe(d.Seconds())
}

// TagWrite counts one tag write outcome (ok, skipped, user_errors, error).
func (r *Recorder) TagWrite(target, result string) {
	if r == nil {
		return
	}
	r.tagWritesTotal.WithLabelValues(target, result).Inc()
}

// SubscriptionsFound adds n subscriptions to the running total.
func (r *Recorder) SubscriptionsFound(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.subscriptionsFoundTotal.Add(float64(n))
}
