package controller

import (
	"testing"
	"time"

	"obs-logger/models"
)

func TestCloseInterval_ShouldCollectMeasurementsWithOffsets(t *testing.T) {
	clock := newManualClock()
	clock.uptime = 10 * time.Second
	sc := NewSamplingController(testConfig(), SamplingOptions{Clock: clock})

	sc.addDistance(&models.DistanceSample{At: 10*time.Second + 50*time.Millisecond, LeftMicros: 8700})
	sc.addDistance(&models.DistanceSample{At: 10*time.Second + 100*time.Millisecond, LeftMicros: 5800, RightMicros: 11600})
	clock.uptime = 11 * time.Second

	set := sc.CloseInterval()

	if len(set.Measurements) != 2 || set.Measurements[0].OffsetMillis != 50 || set.Measurements[1].OffsetMillis != 100 {
		t.Fatalf("unexpected measurements %+v", set.Measurements)
	}
	// 5800/58 - 30 and 11600/58 - 30
	if set.SensorValues != [2]uint16{70, 170} {
		t.Errorf("Expected closest distances [70 170] but got %v", set.SensorValues)
	}
	if set.Millis != 11000 || set.InvalidMeasurement {
		t.Errorf("unexpected interval metadata %+v", set)
	}

	next := sc.CloseInterval()
	if len(next.Measurements) != 0 || !next.InvalidMeasurement {
		t.Error("Expected an empty, invalid interval after reset")
	}
	if next.SensorValues != [2]uint16{models.MaxSensorValue, models.MaxSensorValue} {
		t.Errorf("Expected no readings but got %v", next.SensorValues)
	}
}

func TestCloseInterval_ShouldCapMeasurements(t *testing.T) {
	sc := NewSamplingController(testConfig(), SamplingOptions{Clock: newManualClock()})
	for i := 0; i < 10; i++ {
		sc.addDistance(&models.DistanceSample{LeftMicros: 3000})
	}
	if got := len(sc.CloseInterval().Measurements); got != 4 {
		t.Errorf("Expected 4 measurements but got %d", got)
	}
}

func TestCloseInterval_ShouldConfirmOnlyIntervalsWithAPress(t *testing.T) {
	var presses uint64
	sc := NewSamplingController(testConfig(), SamplingOptions{
		Clock:   newManualClock(),
		Presses: func() uint64 { return presses },
	})

	if sc.CloseInterval().Confirmed {
		t.Error("confirmed without a press")
	}
	presses++
	if !sc.CloseInterval().Confirmed {
		t.Error("press not reflected in the interval")
	}
	if sc.CloseInterval().Confirmed {
		t.Error("press counted twice")
	}
}

func TestCloseInterval_ShouldMarkPrivacyAreaAndKeepLatestFix(t *testing.T) {
	sc := NewSamplingController(testConfig(), SamplingOptions{
		Clock:   newManualClock(),
		Battery: func() float64 { return 3.9 },
	})

	sc.setGPS(fixAt(48.7758, 9.1829))
	inside := sc.CloseInterval()
	if !inside.InsidePrivacyArea {
		t.Error("sample at the area centre not marked")
	}
	if inside.BatteryLevel != 3.9 || inside.Factor != models.NominalFactor {
		t.Errorf("unexpected battery/factor %v/%v", inside.BatteryLevel, inside.Factor)
	}

	again := sc.CloseInterval()
	if !again.GPS.LocationValid || again.GPS.Latitude != 48.7758 {
		t.Error("latest fix not kept for the next interval")
	}

	sc.setGPS(fixAt(48.80, 9.20))
	if sc.CloseInterval().InsidePrivacyArea {
		t.Error("sample far from the area marked inside")
	}

	sc.setGPS(&models.GPSFix{Latitude: 48.7758, Longitude: 9.1829})
	if sc.CloseInterval().InsidePrivacyArea {
		t.Error("invalid fix marked inside")
	}
}

func TestCloseInterval_ShouldCallHook(t *testing.T) {
	sc := NewSamplingController(testConfig(), SamplingOptions{Clock: newManualClock()})
	var seen []*models.DataSet
	sc.OnInterval = func(set *models.DataSet) { seen = append(seen, set) }

	set := sc.CloseInterval()

	if len(seen) != 1 || seen[0] != set {
		t.Errorf("Expected the hook to see the closed interval")
	}
}
