package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	regOnce    sync.Once
	collectors []prometheus.Collector
)

// register enqueues collectors; each metrics file calls it from init().
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// MustRegister registers every enqueued collector with the default
// Prometheus registry exactly once.
func MustRegister() {
	regOnce.Do(func() {
		if len(collectors) > 0 {
			prometheus.MustRegister(collectors...)
		}
	})
}
