// Package prometheus provides Prometheus collectors for goSSO metrics.
//
// [NewPrometheusExporter] accepts a [goSSO.Server] and exposes an [http.Handler]
// that renders all goSSO counters and histograms in Prometheus text exposition format.
// Counter names are prefixed gosso_*_total; the single histogram is
// gosso_bearer_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate server state.
package prometheus
