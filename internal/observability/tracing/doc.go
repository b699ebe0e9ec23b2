// Package tracing provides OpenTelemetry tracing for pipeline runs.
//
// Spans are created through GetTracer; cmd/digest installs an SDK tracer
// provider with Setup so span ids are generated and propagated in context.
package tracing
