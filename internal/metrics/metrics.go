package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nareo"

// Metrics holds the Prometheus collectors of the service
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Reviews          *prometheus.CounterVec
	Conflicts        prometheus.Counter
	ActivityRecorded prometheus.Counter
	ActivityRetries  prometheus.Counter
	GoalsCompleted   prometheus.Counter
	FreezesUsed      prometheus.Counter
	FreezesGranted   prometheus.Counter
	Milestones       *prometheus.CounterVec
	Reminders        *prometheus.CounterVec
	JobRuns          *prometheus.CounterVec
}

// New registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Reviews: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Recorded item reviews by rating.",
		}, []string{"rating"}),
		Conflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_conflicts_total",
			Help:      "Item updates rejected because of a concurrent modification.",
		}),
		ActivityRecorded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_recorded_total",
			Help:      "Daily activity increments applied.",
		}),
		ActivityRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_retries_total",
			Help:      "Daily activity increments retried after a storage error.",
		}),
		GoalsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_goals_completed_total",
			Help:      "Daily goals reached.",
		}),
		FreezesUsed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_freezes_used_total",
			Help:      "Streak freezes consumed.",
		}),
		FreezesGranted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_freezes_granted_total",
			Help:      "Streak freezes granted by the weekly job.",
		}),
		Milestones: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_milestones_total",
			Help:      "Streak milestones awarded by threshold.",
		}, []string{"days"}),
		Reminders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_reminders_total",
			Help:      "Streak-at-risk reminders by outcome.",
		}, []string{"result"}),
		JobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job runs by job and outcome.",
		}, []string{"job", "result"}),
	}
}

// NewNop returns collectors registered on a private registry, for tests
// and tools that do not expose /metrics
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
