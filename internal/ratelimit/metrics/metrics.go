package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	rejections  *prometheus.CounterVec
	storeErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onegov_ratelimit_rejections_total",
			Help: "Requests refused by the rate limiter, by endpoint class",
		}, []string{"class"}),
		storeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onegov_ratelimit_store_errors_total",
			Help: "Rate limit checks that failed open because the bucket store errored",
		}),
	}
}

func (m *Metrics) IncRejection(class string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(class).Inc()
}

func (m *Metrics) IncStoreError() {
	if m == nil {
		return
	}
	m.storeErrors.Inc()
}
