// Package metricx declares the Prometheus counters of the credential flows.
package metricx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "matchhub"

var (
	CodesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "codes_issued_total",
		Help:      "Verification codes issued, by purpose.",
	}, []string{"purpose"})

	CodeChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "code_checks_total",
		Help:      "Verification code checks, by purpose and outcome.",
	}, []string{"purpose", "outcome"})

	NotifyFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "notify_failures_total",
		Help:      "Code deliveries that failed after all retries, by purpose.",
	}, []string{"purpose"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts, by outcome.",
	}, []string{"outcome"})

	AccountsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "accounts_created_total",
		Help:      "Accounts created by confirmed registrations.",
	})

	PasswordChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "password_changes_total",
		Help:      "Successful password updates, by source (change or reset).",
	}, []string{"source"})
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeMismatch = "mismatch"
	OutcomeMissing  = "missing"
	OutcomeFailure  = "failure"
	OutcomeLocked   = "locked"
)
