// internal/common/metrics/metrics.go
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	AuthoringRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luis_authoring_requests_total",
			Help: "Total number of authoring API requests by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	AuthoringRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "luis_authoring_request_duration_seconds",
			Help: "Duration of authoring API requests in seconds",
		},
		[]string{"operation"},
	)

	StepsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provision_steps_completed_total",
			Help: "Total number of provisioning steps completed",
		},
		[]string{"step"},
	)

	StepsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provision_steps_failed_total",
			Help: "Total number of provisioning steps failed",
		},
		[]string{"step", "error_code"},
	)

	ExamplesSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luis_examples_submitted_total",
			Help: "Example utterances submitted in batches by per-item result",
		},
		[]string{"result"},
	)
)

// Push sends everything in the default registry to a Prometheus pushgateway.
// A CLI run is too short-lived to be scraped.
func Push(ctx context.Context, gatewayURL, job string) error {
	if gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, job).Gatherer(prometheus.DefaultGatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
