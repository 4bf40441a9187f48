package utils

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DeviceIDFromHardwareAddr derives the short device id from the last two
// bytes of a 48-bit hardware address, rendered as lowercase hex without
// leading zeros.
func DeviceIDFromHardwareAddr(hw net.HardwareAddr) (string, error) {
	if len(hw) < 6 {
		return "", fmt.Errorf("hardware address %q too short", hw.String())
	}
	id := uint16(hw[len(hw)-2])<<8 | uint16(hw[len(hw)-1])
	return strconv.FormatUint(uint64(id), 16), nil
}

// ResolveDeviceID returns the configured id when present, otherwise one
// derived from the first non-loopback interface with a hardware address.
func ResolveDeviceID(configured string) (string, error) {
	if id := strings.ToLower(strings.TrimSpace(configured)); id != "" {
		if _, err := strconv.ParseUint(id, 16, 16); err != nil {
			return "", fmt.Errorf("device id %q is not a 16-bit hex value", configured)
		}
		return id, nil
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) < 6 {
			continue
		}
		return DeviceIDFromHardwareAddr(iface.HardwareAddr)
	}
	return "", fmt.Errorf("no interface with a hardware address found")
}
