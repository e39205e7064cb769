// Package prometheus renders client metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [payease.Client] and exposes an
// [net/http.Handler] that renders every counter and histogram. Counter names
// are prefixed payease_*_total; the single histogram is
// payease_submit_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate client state.
package prometheus
