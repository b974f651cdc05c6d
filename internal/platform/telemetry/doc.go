// Package telemetry groups the operational observability of the calibration
// binaries.
//
// Tracing lives in internal/platform/otel and is opt-in through the OTLP
// exporter settings. Operational metrics live in telemetry/metrics and cover:
//   - gRPC request counts and latency by method and status code
//   - readings recorded and readings rejected by error code
//   - metric comparisons computed
//   - stored sets reset because they failed validation on load
//
// Session state itself is never sent to telemetry; it stays in the SQLite
// session store.
package telemetry
