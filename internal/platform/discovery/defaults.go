// Package discovery centralizes local service address conventions.
package discovery

import (
	"strconv"
	"strings"
)

const (
	// ServiceCalibration is the calibration gRPC service identity.
	ServiceCalibration = "calibration"
)

// defaultHost is where the binaries expect each other; they run side by side
// on the operator's machine.
const defaultHost = "localhost"

var grpcPorts = map[string]int{
	ServiceCalibration: 8095,
}

// GRPCPort returns the conventional gRPC port for a service, or 0 when the
// service is unknown.
func GRPCPort(service string) int {
	return grpcPorts[strings.TrimSpace(service)]
}

// DefaultGRPCAddr returns the conventional gRPC address for a service.
func DefaultGRPCAddr(service string) string {
	port := GRPCPort(service)
	if port <= 0 {
		return ""
	}
	return defaultHost + ":" + strconv.Itoa(port)
}

// OrDefaultGRPCAddr returns value when set, otherwise the service convention.
func OrDefaultGRPCAddr(value, service string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return DefaultGRPCAddr(service)
}
