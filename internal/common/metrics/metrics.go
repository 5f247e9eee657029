// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OTPChallengesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "otp_challenges_issued_total",
			Help: "Total number of OTP challenges issued",
		},
	)

	OTPVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "Total number of OTP verification attempts by result",
		},
		[]string{"result"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Total number of application submissions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	PipelineStageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_failures_total",
			Help: "Total number of submission pipeline stage failures",
		},
		[]string{"stage"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "submission_duration_seconds",
			Help: "Duration of submission pipeline runs in seconds",
		},
	)
)
