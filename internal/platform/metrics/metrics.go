package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the swap workflow.
type Metrics struct {
	SessionsStarted  prometheus.Counter
	SwapsDenied      *prometheus.CounterVec
	StageOutcomes    *prometheus.CounterVec
	SessionsLocked   prometheus.Counter
	SwapsCompleted   prometheus.Counter
	WebhookRejected  *prometheus.CounterVec
	MirrorFailures   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	LedgerChainIndex prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "swapsecure_sessions_started_total",
			Help: "Swap sessions created after passing eligibility.",
		}),
		SwapsDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "swapsecure_swaps_denied_total",
			Help: "Swap starts denied by the eligibility policy, by reason.",
		}, []string{"reason"}),
		StageOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "swapsecure_stage_outcomes_total",
			Help: "Verification stage evaluations, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		SessionsLocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "swapsecure_sessions_locked_total",
			Help: "Sessions that hit a terminal lockout.",
		}),
		SwapsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "swapsecure_swaps_completed_total",
			Help: "Swap sessions that reached COMPLETED.",
		}),
		WebhookRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "swapsecure_webhook_rejected_total",
			Help: "Vendor webhook deliveries rejected, by reason.",
		}, []string{"reason"}),
		MirrorFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "swapsecure_mirror_failures_total",
			Help: "External ledger mirror calls that failed, by operation.",
		}, []string{"operation"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swapsecure_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		LedgerChainIndex: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "swapsecure_audit_chain_index",
			Help: "Index of the newest audit block.",
		}),
	}
}
