package utils

import (
	"bytes"
	"net"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{"": INFO, "debug": DEBUG, " Warn ": WARN, "ERROR": ERROR} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}

func TestLogger_NamedChildrenShareLevelAndOutput(t *testing.T) {
	var buf bytes.Buffer
	root := NewLogger(&buf, INFO)
	child := root.Named("writer").Named("csv")

	child.Debug("hidden")
	child.Info("flushed %d bytes", 42)
	root.SetLevel(ERROR)
	child.Warn("also hidden")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below the level were written: %q", out)
	}
	if !strings.Contains(out, "[INFO]") || !strings.Contains(out, "writer.csv: flushed 42 bytes") {
		t.Errorf("unexpected log line %q", out)
	}
}

func TestPlausibleTime(t *testing.T) {
	if PlausibleTime(time.Unix(0, 0), 0) {
		t.Error("1970 must not be plausible")
	}
	if !PlausibleTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), MinPlausibleYear) {
		t.Error("the cutoff year itself is plausible")
	}
	if PlausibleTime(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), 2024) {
		t.Error("configured cutoff ignored")
	}
}

func TestTrackTimestamp_HasNoColons(t *testing.T) {
	got := TrackTimestamp(time.Date(2024, 5, 1, 9, 3, 7, 0, time.UTC))
	if got != "2024-05-01T09.03.07" {
		t.Errorf("Expected 2024-05-01T09.03.07 but got %s", got)
	}
}

func TestDeviceIDFromHardwareAddr(t *testing.T) {
	hw, _ := net.ParseMAC("24:0a:c4:12:0b:ef")
	id, err := DeviceIDFromHardwareAddr(hw)
	if err != nil || id != "bef" {
		t.Errorf("Expected bef but got %q, %v", id, err)
	}
	if _, err := DeviceIDFromHardwareAddr(net.HardwareAddr{1, 2}); err == nil {
		t.Error("Expected an error for a short address")
	}
}

func TestResolveDeviceID_Configured(t *testing.T) {
	if id, err := ResolveDeviceID(" BEEF "); err != nil || id != "beef" {
		t.Errorf("Expected beef but got %q, %v", id, err)
	}
	if _, err := ResolveDeviceID("12345"); err == nil {
		t.Error("Expected an error for a value wider than 16 bits")
	}
	if _, err := ResolveDeviceID("xyz"); err == nil {
		t.Error("Expected an error for a non-hex value")
	}
}
