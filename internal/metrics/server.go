// Package metrics serves the Prometheus scrape endpoint on its own
// listener, keeping scrapers off the shell-facing API port.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var up = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "modelerd",
	Name:      "up",
	Help:      "Set to 1 while the daemon is running",
})

// NewServer creates the scrape listener. Health checks live on the
// API server's /healthz; this listener serves /metrics only.
func NewServer(addr string) *http.Server {
	up.Set(1)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}
