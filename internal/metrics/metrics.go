package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventmanagement"

// Registry holds every metric the server exports.
var Registry = prometheus.NewRegistry()

// RegistrationsTotal counts register calls by outcome
// (free, checkout, already_registered, rejected).
var RegistrationsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of event registration attempts by outcome",
	},
	[]string{"outcome"},
)

// CheckoutSessionsTotal counts hosted checkout creations (created, upstream_error).
var CheckoutSessionsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_sessions_total",
		Help:      "Total number of checkout session creation attempts",
	},
	[]string{"result"},
)

// WebhookEventsTotal counts payment webhook deliveries by outcome.
var WebhookEventsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_webhook_events_total",
		Help:      "Total number of payment webhook deliveries by outcome",
	},
	[]string{"outcome"}, // fulfilled|duplicate|ignored|invalid_signature|invalid_metadata|error
)

var NotificationsCreatedTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of in-app notifications created",
	},
)

// ReviewsCreatedTotal counts stored reviews by target (event, organizer).
var ReviewsCreatedTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created by target",
	},
	[]string{"target"},
)

// EmailsTotal counts transactional emails by template and result.
var EmailsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of transactional emails by template and result",
	},
	[]string{"template", "result"},
)

// Init registers the Go runtime and process collectors.
func Init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
