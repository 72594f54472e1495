package gitrepo

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// lastCheckoutTimestamp is a Gauge that captures the timestamp of the
	// last successful checkout
	lastCheckoutTimestamp *prometheus.GaugeVec
	// checkoutCount is a Counter vector of checkouts
	checkoutCount *prometheus.CounterVec
	// checkoutLatency is a Histogram vector that keeps track of checkout durations
	checkoutLatency *prometheus.HistogramVec
)

// EnableMetrics will enable metrics collection for checkouts.
// Available metrics are...
//   - git_last_checkout_timestamp - (tags: repo)
//     A Gauge that captures the timestamp of the last successful checkout per repo.
//   - git_checkout_count - (tags: repo,success)
//     A Counter for each checkout attempt, tagged with the result (success=true|false)
//   - git_checkout_latency_seconds - (tags: repo)
//     A Histogram that keeps track of the checkout latency per repo.
func EnableMetrics(metricsNamespace string, registerer prometheus.Registerer) {
	lastCheckoutTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "git_last_checkout_timestamp",
		Help:      "Timestamp of the last successful checkout",
	},
		[]string{
			// name of the repository
			"repo",
		},
	)

	checkoutCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "git_checkout_count",
		Help:      "Count of checkout operations",
	},
		[]string{
			// name of the repository
			"repo",
			// Whether the checkout was successful or not
			"success",
		},
	)

	checkoutLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "git_checkout_latency_seconds",
		Help:      "Latency for repo checkout",
		Buckets:   []float64{0.5, 1, 5, 10, 20, 30, 60, 90, 120, 150, 300},
	},
		[]string{
			// name of the repository
			"repo",
		},
	)

	registerer.MustRegister(
		lastCheckoutTimestamp,
		checkoutCount,
		checkoutLatency,
	)
}

// recordCheckout records a checkout attempt by updating all the relevant
// metrics
func recordCheckout(repo string, success bool) {
	// if metrics not enabled return
	if lastCheckoutTimestamp == nil || checkoutCount == nil {
		return
	}
	if success {
		lastCheckoutTimestamp.With(prometheus.Labels{
			"repo": repo,
		}).Set(float64(time.Now().Unix()))
	}
	checkoutCount.With(prometheus.Labels{
		"repo":    repo,
		"success": strconv.FormatBool(success),
	}).Inc()
}

func updateCheckoutLatency(repo string, start time.Time) {
	// if metrics not enabled return
	if checkoutLatency == nil {
		return
	}
	checkoutLatency.WithLabelValues(repo).Observe(time.Since(start).Seconds())
}
