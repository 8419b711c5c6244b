package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Submissions  *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	Conflicts    *prometheus.CounterVec
	IssueRetries prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onegov_application_submissions_total",
			Help: "Applications opened by family",
		}, []string{"family"}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onegov_application_transitions_total",
			Help: "Applied lifecycle transitions",
		}, []string{"from", "to"}),
		Conflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onegov_application_conflicts_total",
			Help: "Rejected transitions by error code",
		}, []string{"code"}),
		IssueRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onegov_tracking_issue_retries_total",
			Help: "Tracking ids re-issued after a storage collision",
		}),
	}
}

func (m *Metrics) IncSubmission(family string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(family).Inc()
}

func (m *Metrics) IncTransition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncConflict(code string) {
	if m == nil {
		return
	}
	m.Conflicts.WithLabelValues(code).Inc()
}

func (m *Metrics) IncIssueRetry() {
	if m == nil {
		return
	}
	m.IssueRetries.Inc()
}
