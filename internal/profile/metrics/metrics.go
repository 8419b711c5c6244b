package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProfilesSaved      prometheus.Counter
	ProfileSaveFailure prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ProfilesSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onegov_profiles_saved_total",
			Help: "Total number of profile saves",
		}),
		ProfileSaveFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onegov_profile_save_failures_total",
			Help: "Total number of rejected or failed profile saves",
		}),
	}
}

func (m *Metrics) IncSaved() {
	if m == nil {
		return
	}
	m.ProfilesSaved.Inc()
}

func (m *Metrics) IncSaveFailure() {
	if m == nil {
		return
	}
	m.ProfileSaveFailure.Inc()
}
