// Package metrics provides operational metrics collection.
//
// Metrics are exposed in Prometheus format on the optional metrics listener.
//
// # gRPC Interceptor
//
// The unary interceptor records for every calibration RPC:
//   - Request count by method and status code
//   - Request latency by method
//
// # Domain Counters
//
// The calibration service records readings accepted, readings rejected by
// validation reason, metrics computations and stores reset on load.
package metrics
