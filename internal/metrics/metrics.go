package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScenarioResults counts scenarios by suite and outcome.
	ScenarioResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ecohotels_e2e", Name: "scenarios_total", Help: "Scenarios by outcome."},
		[]string{"suite", "status"},
	)
	// ScenarioDuration is the run time of each scenario.
	ScenarioDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ecohotels_e2e", Name: "scenario_duration_seconds",
			Help:    "Scenario duration seconds.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"suite"},
	)
	// OverlaysDismissed counts closed popups by overlay name.
	OverlaysDismissed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ecohotels_e2e", Name: "overlays_dismissed_total", Help: "Popups and overlays closed."},
		[]string{"overlay"},
	)
	// LinkChecks counts footer link checks by status class.
	LinkChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ecohotels_e2e", Name: "link_checks_total", Help: "Link checks by HTTP status."},
		[]string{"status"},
	)
)

// InitRegistry returns a registry with the suite collectors registered.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(ScenarioResults, ScenarioDuration, OverlaysDismissed, LinkChecks)
	return reg
}

// WriteTextfile writes the registry in text exposition format for the node_exporter
// textfile collector.
func WriteTextfile(path string, reg *prometheus.Registry) error {
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// ObserveScenario counts a finished scenario and records its duration.
func ObserveScenario(suite, status string, dur time.Duration) {
	ScenarioResults.WithLabelValues(suite, status).Inc()
	ScenarioDuration.WithLabelValues(suite).Observe(dur.Seconds())
}

// ObserveOverlay counts a closed overlay.
func ObserveOverlay(name string) {
	OverlaysDismissed.WithLabelValues(name).Inc()
}

// ObserveLinkCheck records a link check. Status 0 means the request failed.
func ObserveLinkCheck(status int) {
	label := "error"
	if status > 0 {
		label = fmt.Sprintf("%dxx", status/100)
	}
	LinkChecks.WithLabelValues(label).Inc()
}
