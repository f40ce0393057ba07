package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AuthMetrics counts auth gate outcomes.
type AuthMetrics struct {
	rejections       *prometheus.CounterVec
	lookupFailures   prometheus.Counter
	authenticated    prometheus.Counter
	revocationsTotal prometheus.Counter
	rateLimited      *prometheus.CounterVec
}

// NewAuthMetrics registers the auth metrics on the provided registerer.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_rejections_total",
		Help: "Requests rejected by the auth gate, by reason.",
	}, []string{"reason"})
	lookupFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_revocation_lookup_failures_total",
		Help: "Revocation registry lookups that failed or timed out.",
	})
	authenticated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_authenticated_total",
		Help: "Requests that passed the auth gate with an identity.",
	})
	revocations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_revocations_total",
		Help: "Tokens revoked through sign-out.",
	})
	rateLimited := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_rate_limited_total",
		Help: "Signup and signin attempts blocked by a rate limit, by policy and scope.",
	}, []string{"policy", "scope"})
	reg.MustRegister(rejections, lookupFailures, authenticated, revocations, rateLimited)
	return &AuthMetrics{
		rejections:       rejections,
		lookupFailures:   lookupFailures,
		authenticated:    authenticated,
		revocationsTotal: revocations,
		rateLimited:      rateLimited,
	}
}

// IncRejection increments the rejection counter for reason.
func (m *AuthMetrics) IncRejection(reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncLookupFailure records a failed revocation lookup.
func (m *AuthMetrics) IncLookupFailure() {
	if m == nil || m.lookupFailures == nil {
		return
	}
	m.lookupFailures.Inc()
}

// IncAuthenticated records a request that resolved an identity.
func (m *AuthMetrics) IncAuthenticated() {
	if m == nil || m.authenticated == nil {
		return
	}
	m.authenticated.Inc()
}

// IncRevocation records a sign-out revocation.
func (m *AuthMetrics) IncRevocation() {
	if m == nil || m.revocationsTotal == nil {
		return
	}
	m.revocationsTotal.Inc()
}

// IncRateLimited records a request blocked by policy on scope (ip or email).
func (m *AuthMetrics) IncRateLimited(policy, scope string) {
	if m == nil || m.rateLimited == nil {
		return
	}
	m.rateLimited.WithLabelValues(normalizeLabel(policy), normalizeLabel(scope)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
