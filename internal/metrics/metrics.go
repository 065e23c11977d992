// Package metrics defines the Prometheus counters for ad and proposal
// activity. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AdsTotal              *prometheus.CounterVec
	ProposalsCreatedTotal prometheus.Counter
	StatusChangesTotal    *prometheus.CounterVec
	AccessDeniedTotal     *prometheus.CounterVec
}

// New creates and registers all metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		AdsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swapboard",
				Name:      "ads_total",
				Help:      "Ad mutations by operation",
			},
			[]string{"op"}, // create/update/delete
		),
		ProposalsCreatedTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "swapboard",
				Name:      "proposals_created_total",
				Help:      "Exchange proposals created",
			},
		),
		StatusChangesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swapboard",
				Name:      "proposal_status_changes_total",
				Help:      "Proposal status updates by new status",
			},
			[]string{"status"},
		),
		AccessDeniedTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swapboard",
				Name:      "access_denied_total",
				Help:      "Rejected mutations by resource",
			},
			[]string{"resource"}, // ad/proposal
		),
	}
}

func (m *Metrics) AdMutation(op string) {
	if m == nil {
		return
	}
	m.AdsTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) ProposalCreated() {
	if m == nil {
		return
	}
	m.ProposalsCreatedTotal.Inc()
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.StatusChangesTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) Denied(resource string) {
	if m == nil {
		return
	}
	m.AccessDeniedTotal.WithLabelValues(resource).Inc()
}
