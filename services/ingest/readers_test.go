package ingest

import (
	"testing"
	"time"

	"obs-logger/models"
	"obs-logger/utils"
)

func TestGPSReader_Simulated_ShouldColdStartWithoutFix(t *testing.T) {
	r := NewGPSReader(utils.GPSConfig{UpdateRateHz: 1}, true)
	lat, lon := 48.0, 9.0

	for n := 0; n < coldStartFixes; n++ {
		if r.readFix(n, &lat, &lon).LocationValid {
			t.Fatalf("fix %d valid during cold start", n)
		}
	}
	fix := r.readFix(coldStartFixes, &lat, &lon)
	if !fix.LocationValid || fix.Latitude <= 48.0 || fix.Longitude <= 9.0 {
		t.Errorf("Expected a moving valid fix but got %+v", fix)
	}
}

func TestGPSReader_NotSimulated_ShouldReportNoFix(t *testing.T) {
	r := NewGPSReader(utils.GPSConfig{}, false)
	lat, lon := 48.0, 9.0
	if r.readFix(100, &lat, &lon).LocationValid {
		t.Error("Expected no fix without a receiver")
	}
}

func TestDistanceReader_Simulated_ShouldStayInRange(t *testing.T) {
	clock := &stepClock{uptime: 3 * time.Second}
	r := NewDistanceReader(utils.DistanceConfig{TriggerRateHz: 20}, true, clock)

	for i := 0; i < 200; i++ {
		s := r.trigger()
		if s.At != 3*time.Second {
			t.Fatalf("Expected trigger time from the clock but got %v", s.At)
		}
		for _, us := range []uint32{s.LeftMicros, s.RightMicros} {
			if us != 0 && !models.ValidFlightTime(us) {
				t.Fatalf("simulated flight time %d out of range", us)
			}
		}
	}
}

func TestSimulatedBattery_ShouldDischargeAndClamp(t *testing.T) {
	clock := &stepClock{}
	b := NewSimulatedBattery(clock, 10*time.Hour)

	if got := b.Volts(); got != cellFullVolts {
		t.Errorf("Expected a full cell at boot but got %.2f", got)
	}
	clock.uptime = 5 * time.Hour
	if got := b.Volts(); got < 3.74 || got > 3.76 {
		t.Errorf("Expected 3.75 V half way but got %.3f", got)
	}
	clock.uptime = 10 * time.Hour
	if got := b.Volts(); got != cellEmptyVolts {
		t.Errorf("Expected an empty cell at end of runtime but got %v", got)
	}
	clock.uptime = 20 * time.Hour
	if got := b.Volts(); got != cellEmptyVolts {
		t.Errorf("Expected an empty cell but got %.2f", got)
	}
}
