package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded on the orders counter.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

// Approval check results.
const (
	ResultApproved    = "approved"
	ResultNotApproved = "not_approved"
	ResultError       = "error"
)

// StorefrontMetrics records order submissions and approval-list checks.
type StorefrontMetrics struct {
	submissions    *prometheus.CounterVec
	approvalChecks *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Order submissions by payment method and outcome.",
	}, []string{"payment", "outcome"})
	approvalChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_checks_total",
		Help: "Approved-code membership checks by result.",
	}, []string{"result"})
	reg.MustRegister(submissions, approvalChecks)
	return &StorefrontMetrics{
		submissions:    submissions,
		approvalChecks: approvalChecks,
	}
}

// IncSubmission counts one order submission attempt outcome.
func (m *StorefrontMetrics) IncSubmission(payment, outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(payment), normalizeLabel(outcome)).Inc()
}

// IncApprovalCheck counts one approval check result.
func (m *StorefrontMetrics) IncApprovalCheck(result string) {
	if m == nil || m.approvalChecks == nil {
		return
	}
	m.approvalChecks.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
