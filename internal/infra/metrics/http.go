package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(httpRequests, pushDeliveries) }

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route pattern, method and status class.",
		},
		[]string{"route", "method", "status"},
	)

	pushDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_deliveries_total",
			Help: "Push notification deliveries by target kind and success.",
		},
		[]string{"kind", "success"},
	)
)

func IncHTTPRequest(route, method string, status int) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func IncPushDelivery(kind string, success bool) {
	pushDeliveries.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}
