package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "cardgate", Subsystem: "auth", Name: "logins_total", Help: "Login attempts by outcome"},
		[]string{"outcome"},
	)
	tokenVerify = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "cardgate", Subsystem: "auth", Name: "token_verifications_total", Help: "Session token verifications by result"},
		[]string{"result"},
	)
	roleChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "cardgate", Subsystem: "rolecheck", Name: "requests_total", Help: "Role authority calls by outcome"},
		[]string{"outcome"},
	)
	roleCheckLatency = prometheus.NewSummary(
		prometheus.SummaryOpts{Namespace: "cardgate", Subsystem: "rolecheck", Name: "latency_seconds", Help: "Role authority call latency"},
	)
	upstreamLatency = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{Namespace: "cardgate", Subsystem: "oauth", Name: "upstream_latency_seconds", Help: "OAuth provider call latency"},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(logins, tokenVerify, roleChecks, roleCheckLatency, upstreamLatency)
}

func IncLogin(outcome string)                       { logins.WithLabelValues(outcome).Inc() }
func IncTokenVerify(result string)                  { tokenVerify.WithLabelValues(result).Inc() }
func IncRoleCheck(outcome string)                   { roleChecks.WithLabelValues(outcome).Inc() }
func ObserveRoleCheck(d time.Duration)              { roleCheckLatency.Observe(d.Seconds()) }
func ObserveUpstream(endpoint string, d time.Duration) {
	upstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}
