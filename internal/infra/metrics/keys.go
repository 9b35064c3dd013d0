package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(keysIssued, keyValidations, keysOutstanding) }

var (
	keysIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_keys_issued_total",
			Help: "Access keys issued per plan.",
		},
		[]string{"plan"},
	)

	keyValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_key_validations_total",
			Help: "Validation attempts by outcome (ok/missing/format/not_found/used/expired/hour/store).",
		},
		[]string{"outcome"},
	)

	keysOutstanding = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "access_keys_outstanding",
			Help: "Unused, unexpired access keys currently in the store.",
		},
	)
)

func IncKeyIssued(plan string) {
	keysIssued.WithLabelValues(plan).Inc()
}

func IncKeyValidation(outcome string) {
	keyValidations.WithLabelValues(outcome).Inc()
}

func SetKeysOutstanding(n int) {
	keysOutstanding.Set(float64(n))
}
