// Package otel provides OpenTelemetry metric bindings for client counters and
// histograms.
//
// [NewOTelExporter] registers an Int64ObservableCounter per client counter and
// Int64ObservableGauge instruments per histogram bucket. A single callback
// reads [payease.Client.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate client state.
package otel
