// Package bluetooth defines the services the device exposes over BLE. The
// radio stack itself is a collaborator behind Server; these services only
// decide what to publish.
package bluetooth

import (
	"strconv"
	"strings"
)

// Property flags of a GATT characteristic.
const (
	PropRead   = 1 << 0
	PropNotify = 1 << 1
)

// Characteristic is one value published by a service.
type Characteristic struct {
	UUID       string
	Properties int
}

// GATTService describes a service and its characteristics.
type GATTService struct {
	UUID            string
	Characteristics []Characteristic
}

// Server is the BLE stack a service registers with and publishes through.
type Server interface {
	AddService(svc *GATTService) error
	SetValue(service, characteristic, value string)
	Notify(service, characteristic, value string)
}

// Service is implemented by every BLE service of the device.
type Service interface {
	// Setup creates the GATTService and registers it with the server.
	Setup(server Server) error
	// ShouldAdvertise reports whether the service UUID belongs in the
	// advertisement.
	ShouldAdvertise() bool
	// Service returns the GATTService created by Setup.
	Service() *GATTService
	// OnSensorValues receives the interval's distances, MaxSensorValue
	// meaning no reading.
	OnSensorValues(left, right uint16)
	// OnButtonPressed is called once per press edge.
	OnButtonPressed()
}

// JoinList renders values separated by glue.
func JoinList(values []uint16, glue string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, glue)
}
