// Package observability groups the pipeline's structured logging, Prometheus
// metrics and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: slog logger construction and context propagation
//   - metrics: Prometheus collectors for discovery, extraction, gating and analysis
//   - tracing: the global tracer and SDK provider setup
package observability
