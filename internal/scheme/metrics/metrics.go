package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks eligibility outcomes and catalog configuration faults.
type Metrics struct {
	Outcomes     *prometheus.CounterVec
	ConfigErrors *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onegov_eligibility_outcomes_total",
			Help: "Eligibility evaluations by resulting status",
		}, []string{"status"}),
		ConfigErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onegov_eligibility_config_errors_total",
			Help: "Evaluations aborted by a malformed scheme criterion",
		}, []string{"scheme_id"}),
	}
}

func (m *Metrics) IncOutcome(status string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(status).Inc()
}

func (m *Metrics) IncConfigError(schemeID string) {
	if m == nil {
		return
	}
	m.ConfigErrors.WithLabelValues(schemeID).Inc()
}
