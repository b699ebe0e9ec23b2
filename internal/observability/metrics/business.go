package metrics

import "time"

// RecordDiscovery records the outcome of one Discover call.
func RecordDiscovery(source string, count int, err error) {
	if err != nil {
		DiscoveryErrorsTotal.WithLabelValues(source).Inc()
		return
	}
	ReferencesDiscoveredTotal.WithLabelValues(source).Add(float64(count))
}

// RecordExtraction records one extraction result. status is the entity content status.
func RecordExtraction(extractor, status string) {
	ExtractionsTotal.WithLabelValues(extractor, status).Inc()
}

// RecordGateDecision records whether the quality gate accepted an article.
func RecordGateDecision(accepted bool) {
	decision := "accepted"
	if !accepted {
		decision = "rejected"
	}
	GateDecisionsTotal.WithLabelValues(decision).Inc()
}

// RecordAnalysis records an analysis outcome: "success", "failure" or "skipped".
func RecordAnalysis(status string) {
	AnalysesTotal.WithLabelValues(status).Inc()
}

// RecordRun records the duration of a pipeline run.
func RecordRun(source string, duration time.Duration) {
	RunDuration.WithLabelValues(source).Observe(duration.Seconds())
}
