package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "membership_requests_submitted_total", Help: "Membership requests submitted"},
		[]string{"kind"},
	)
	RequestsAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "membership_requests_accepted_total", Help: "Membership requests accepted"},
		[]string{"kind"},
	)
	RequestsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "membership_requests_rejected_total", Help: "Membership requests rejected"},
		[]string{"kind"},
	)
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackathon_status_transitions_total", Help: "Hackathon status transitions applied"},
		[]string{"to"},
	)

	ProcessedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_processed_total", Help: "Total processed outbox events"},
	)
	FailedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_failed_total", Help: "Total failed outbox events"},
	)
	DLQEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_dlq_total", Help: "Total events inserted into DLQ"},
	)
)

func Register() {
	prometheus.MustRegister(
		RequestsSubmitted, RequestsAccepted, RequestsRejected, StatusTransitions,
		ProcessedEvents, FailedEvents, DLQEvents,
	)
}
