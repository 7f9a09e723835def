// Package metrics exposes Prometheus metrics for the bridge service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agrochain_bridge"

// Ledger transaction metrics
var (
	// BlockchainTxTotal counts submitted admin transactions.
	BlockchainTxTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blockchain_tx_total",
			Help:      "Total ledger transactions submitted",
		},
		[]string{"operation", "status"}, // status: confirmed, failed, timeout
	)

	// BlockchainTxDuration observes broadcast-to-confirmation latency.
	BlockchainTxDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "blockchain_tx_duration_seconds",
			Help:      "Ledger transaction confirmation latency in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 90, 120},
		},
		[]string{"operation"},
	)

	// BlockchainGasUsed observes gas consumed per confirmed transaction.
	BlockchainGasUsed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "blockchain_gas_used",
			Help:      "Gas used per confirmed transaction",
			Buckets:   []float64{21000, 50000, 100000, 200000, 500000, 1000000, 2000000},
		},
		[]string{"operation"},
	)

	// BlockchainGasPrice tracks the last suggested gas price.
	BlockchainGasPrice = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "blockchain_gas_price_gwei",
			Help:      "Last suggested gas price in gwei",
		},
	)
)

// Claim evaluation metrics
var (
	// ClaimEvaluationsTotal counts claim evaluations by outcome.
	ClaimEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_evaluations_total",
			Help:      "Total claim evaluations",
		},
		[]string{"outcome"}, // triggered, not_triggered, rejected
	)

	// ClaimPayoutsTotal counts confirmed payout transactions.
	ClaimPayoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_payouts_total",
			Help:      "Total confirmed claim payouts",
		},
	)

	// PoliciesCreatedTotal counts confirmed policy creations.
	PoliciesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policies_created_total",
			Help:      "Total policies created through the bridge",
		},
	)

	// IDExtractionsTotal counts created-ID recoveries by source.
	IDExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "id_extractions_total",
			Help:      "Created-record ID extractions by source strategy",
		},
		[]string{"source"}, // event_topic, log_data, state_query, default
	)
)

// Weather provider metrics
var (
	// WeatherRequestsTotal counts provider round trips.
	WeatherRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Total weather provider requests",
		},
		[]string{"status"}, // ok, transport_error, malformed
	)

	// WeatherRequestDuration observes provider latency.
	WeatherRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_request_duration_seconds",
			Help:      "Weather provider request latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts API requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes API request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"method", "path"},
	)
)

// RecordBlockchainTx records one submitted transaction.
func RecordBlockchainTx(operation, status string, durationSeconds float64, gasUsed uint64) {
	BlockchainTxTotal.WithLabelValues(operation, status).Inc()
	if durationSeconds > 0 {
		BlockchainTxDuration.WithLabelValues(operation).Observe(durationSeconds)
	}
	if gasUsed > 0 {
		BlockchainGasUsed.WithLabelValues(operation).Observe(float64(gasUsed))
	}
}

// RecordClaimEvaluation records one claim evaluation outcome.
func RecordClaimEvaluation(outcome string) {
	ClaimEvaluationsTotal.WithLabelValues(outcome).Inc()
}

// RecordPayout records one confirmed payout.
func RecordPayout() {
	ClaimPayoutsTotal.Inc()
}

// RecordPolicyCreated records one confirmed policy creation with the
// ID extraction source used.
func RecordPolicyCreated(idSource string) {
	PoliciesCreatedTotal.Inc()
	IDExtractionsTotal.WithLabelValues(idSource).Inc()
}

// RecordWeatherRequest records one provider round trip.
func RecordWeatherRequest(status string, durationSeconds float64) {
	WeatherRequestsTotal.WithLabelValues(status).Inc()
	if durationSeconds > 0 {
		WeatherRequestDuration.Observe(durationSeconds)
	}
}

// RecordHTTPRequest records one API request.
func RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// UpdateGasPrice tracks the last suggested gas price.
func UpdateGasPrice(gasPriceGwei float64) {
	BlockchainGasPrice.Set(gasPriceGwei)
}
