package deploy

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/edvin/modelerd/internal/model"
)

var (
	deploymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deployments_total",
			Help: "Total number of deployment attempts by outcome",
		},
		[]string{"status", "target_type"},
	)

	deploymentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deployment_duration_seconds",
			Help:    "Time from deploy call to engine response",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target_type"},
	)
)

func observeDeployment(success bool, targetType model.TargetType, elapsed time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	deploymentsTotal.WithLabelValues(status, string(targetType)).Inc()
	deploymentDuration.WithLabelValues(string(targetType)).Observe(elapsed.Seconds())
}
