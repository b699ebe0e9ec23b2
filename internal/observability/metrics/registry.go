package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReferencesDiscoveredTotal counts article references produced per source adapter
	ReferencesDiscoveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_references_discovered_total",
			Help: "Total number of article references discovered",
		},
		[]string{"source"},
	)

	// DiscoveryErrorsTotal counts failed discovery calls per source adapter
	DiscoveryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_discovery_errors_total",
			Help: "Total number of failed discovery calls",
		},
		[]string{"source"},
	)

	// ExtractionsTotal counts content extractions by extractor and status
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_extractions_total",
			Help: "Total number of content extractions by status",
		},
		[]string{"extractor", "status"},
	)

	// GateDecisionsTotal counts quality gate decisions
	GateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_gate_decisions_total",
			Help: "Total number of quality gate decisions",
		},
		[]string{"decision"},
	)

	// AnalysesTotal counts LLM analyses by outcome
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_analyses_total",
			Help: "Total number of LLM analyses by outcome",
		},
		[]string{"status"},
	)

	// RunDuration measures the duration of a whole pipeline run in seconds
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "digest_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"source"},
	)
)
