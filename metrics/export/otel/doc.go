// Package otel provides OpenTelemetry metric exporter bindings for goSSO counters and
// histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each goSSO metric
// and Int64ObservableGauge per histogram bucket. A single callback reads
// [goSSO.Server.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate server state.
package otel
