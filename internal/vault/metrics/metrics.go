package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Uploads       *prometheus.CounterVec
	Verifications *prometheus.CounterVec
	MatchMissing  *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Uploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onegov_vault_uploads_total",
			Help: "Vault document uploads by kind",
		}, []string{"kind"}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onegov_vault_verifications_total",
			Help: "Officer verification decisions",
		}, []string{"decision"}),
		MatchMissing: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onegov_document_match_missing_total",
			Help: "Required document tags left unmatched at submission",
		}, []string{"tag"}),
	}
}

func (m *Metrics) IncUpload(kind string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncVerification(decision string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(decision).Inc()
}

func (m *Metrics) IncMatchMissing(tags []string) {
	if m == nil {
		return
	}
	for _, t := range tags {
		m.MatchMissing.WithLabelValues(t).Inc()
	}
}
