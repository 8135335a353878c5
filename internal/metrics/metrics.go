// Package metrics registers the application's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginsTotal counts sign-in attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agroclima_logins_total",
		Help: "Sign-in attempts by outcome.",
	}, []string{"outcome"})

	// EntitlementChecksTotal counts premium-access evaluations by result.
	EntitlementChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agroclima_entitlement_checks_total",
		Help: "Premium access evaluations by result.",
	}, []string{"result"})

	// SubscriptionEventsTotal counts ledger events (created, canceled,
	// partial_failure).
	SubscriptionEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agroclima_subscription_events_total",
		Help: "Subscription ledger events by kind.",
	}, []string{"event"})
)
