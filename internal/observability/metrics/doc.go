// Package metrics provides the pipeline's Prometheus collectors and recorders.
//
// Collectors are registered with the default registry at init and are exposed
// by cmd/digest when -metrics-addr is set.
package metrics
