package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_logins_total",
			Help: "Password login attempts by outcome",
		},
		[]string{"outcome"},
	)

	leadsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_leads_created_total",
			Help: "Leads created by capture channel",
		},
		[]string{"channel"},
	)

	activitiesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_activities_recorded_total",
			Help: "Lead activities recorded by type",
		},
		[]string{"type"},
	)

	assignmentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_assignments_created_total",
			Help: "Lead assignments created",
		},
	)

	emailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_emails_total",
			Help: "Outbound emails by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordLogin(outcome string) {
	loginsTotal.WithLabelValues(outcome).Inc()
}

func RecordLeadCreated(channel string) {
	leadsCreated.WithLabelValues(channel).Inc()
}

func RecordActivity(activityType string) {
	activitiesRecorded.WithLabelValues(activityType).Inc()
}

func RecordAssignment() {
	assignmentsCreated.Inc()
}

func RecordEmail(outcome string) {
	emailsTotal.WithLabelValues(outcome).Inc()
}
