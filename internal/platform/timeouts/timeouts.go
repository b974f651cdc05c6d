// Package timeouts defines the timeout constants shared by the calibration
// binaries.
package timeouts

import "time"

// GRPCDial caps the wait time when the MCP adapter or report command dials
// the calibration service.
const GRPCDial = 2 * time.Second

// GRPCRequest caps a single calibration RPC issued by a client binary.
const GRPCRequest = 5 * time.Second

// HealthPoll is the interval between health checks while waiting for the
// calibration service to report SERVING.
const HealthPoll = 200 * time.Millisecond

// ReadHeader limits how long the metrics HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits graceful shutdown of servers and telemetry exporters.
const Shutdown = 5 * time.Second

// SQLiteBusy is the busy timeout handed to the SQLite driver.
const SQLiteBusy = 5 * time.Second

// ChildShutdown is how long the entrypoint waits for its child processes to
// exit after SIGTERM before killing them. It exceeds Shutdown so children can
// finish their own graceful stop.
const ChildShutdown = 10 * time.Second
