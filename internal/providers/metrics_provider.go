package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"invitebot/internal/models"
	"invitebot/internal/structures"
	"time"
)

// Join results reported by IncJoins.
const (
	JoinAttributed = "attributed"
	JoinAmbiguous  = "ambiguous"
	JoinUnknown    = "unknown"
	JoinFailed     = "failed"
)

// Outcomes reported by IncCommands and IncRoleGrants.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeRefused  = "refused"
	OutcomeFailed   = "failed"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncJoins(result string)
	IncCommands(command, outcome string)
	IncRoleGrants(label, outcome string)
	ObserveInviteFetchDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	joinsTotal          *prometheus.CounterVec
	commandsTotal       *prometheus.CounterVec
	roleGrantsTotal     *prometheus.CounterVec
	inviteFetchDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncJoins(result string) {
	m.joinsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncCommands(command, outcome string) {
	m.commandsTotal.WithLabelValues(command, outcome).Inc()
}

func (m *MetricsProvider) IncRoleGrants(label, outcome string) {
	m.roleGrantsTotal.WithLabelValues(label, outcome).Inc()
}

func (m *MetricsProvider) ObserveInviteFetchDuration(duration time.Duration) {
	m.inviteFetchDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, store *models.SnapshotStore, attributions *models.AttributionLog) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invitebot_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invitebot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invitebot_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invitebot_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		joinsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invitebot_joins_total",
			Help: "Member joins by attribution result",
		}, []string{"result"}),

		commandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invitebot_commands_total",
			Help: "Chat commands handled by outcome",
		}, []string{"command", "outcome"}),

		roleGrantsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invitebot_role_grants_total",
			Help: "Tier role grants by label and outcome",
		}, []string{"label", "outcome"}),

		inviteFetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "invitebot_invite_fetch_duration_seconds",
			Help:    "Duration of guild invite listing calls in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "invitebot_tracked_guilds",
		Help: "Number of guilds with an invite baseline",
	}, func() float64 {
		return float64(store.Len())
	})

	promauto.NewCounterFunc(prometheus.CounterOpts{
		Name: "invitebot_attributions_recorded_total",
		Help: "Attributions recorded since start",
	}, func() float64 {
		return float64(attributions.Total())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncJoins(_ string)                                {}
func (n *noopMetrics) IncCommands(_, _ string)                          {}
func (n *noopMetrics) IncRoleGrants(_, _ string)                        {}
func (n *noopMetrics) ObserveInviteFetchDuration(_ time.Duration)       {}
