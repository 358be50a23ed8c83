// Package metrics declares the Prometheus metrics exposed on /metrics.
// All metrics register themselves with the default registry at init time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "filmbox"

// LoginsTotal counts login attempts by result ("success" / "failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts token verifications performed by the
// identity middleware, by result ("valid" / "expired" / "invalid").
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// PurchasesTotal counts purchase attempts by outcome
// ("committed" / "insufficient_balance" / "already_owned" / "error").
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of film purchase attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PurchaseRevenue sums the amounts debited by committed purchases.
var PurchaseRevenue = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchase_revenue_total",
		Help:      "Total currency units debited by committed purchases.",
	},
)
