package auth

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisions     *prometheus.CounterVec //nolint:gochecknoglobals
	decisionsOnce sync.Once              //nolint:gochecknoglobals
)

func observeDecision(allowed bool) {
	decisionsOnce.Do(func() {
		decisions = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hrms_authz_decisions_total",
				Help: "Number of authorization gate decisions, differentiated by result.",
			},
			[]string{"result"},
		)
	})

	result := "deny"
	if allowed {
		result = "allow"
	}

	decisions.WithLabelValues(result).Inc()
}
