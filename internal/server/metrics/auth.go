package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	FlowSignup         = "signup"
	FlowLogin          = "login"
	FlowVerify         = "verify"
	FlowReset          = "reset"
	FlowChangePassword = "change_password"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeLocked   = "locked"
	OutcomeError    = "error"
)

// AuthMetrics counts outcomes of the account flows. A nil *AuthMetrics
// records nothing.
type AuthMetrics struct {
	outcomes *prometheus.CounterVec
}

func NewAuthMetrics(opts Options) (*AuthMetrics, error) {
	opts = opts.withDefaults()

	outcomes, err := register(opts.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: "account",
		Name:      "flow_outcomes_total",
		Help:      "Account flow results partitioned by flow and outcome.",
	}, []string{"flow", "outcome"}))
	if err != nil {
		return nil, err
	}

	return &AuthMetrics{outcomes: outcomes}, nil
}

func (m *AuthMetrics) Observe(flow, outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(flow, outcome).Inc()
}
