package views

import (
	"errors"
	"time"

	"obs-logger/models"
	"obs-logger/services/storage"
	"obs-logger/utils"
)

var errInjected = errors.New("injected storage failure")

// fakeClock is a settable Clock. Uptime advances only when told to.
type fakeClock struct {
	now    time.Time
	uptime time.Duration
}

func (c *fakeClock) Now() time.Time          { return c.now.Add(c.uptime) }
func (c *fakeClock) Uptime() time.Duration   { return c.uptime }
func (c *fakeClock) Advance(d time.Duration) { c.uptime += d }

// unsetClock behaves like a real-time clock that was never set.
func unsetClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0).UTC()}
}

func setClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

// flakyStorage wraps a Memory and fails Append or Rename on request. Each
// successful Append advances the clock to simulate the SD write latency.
type flakyStorage struct {
	*storage.Memory
	failAppend bool
	failRename bool
	clock      *fakeClock
	latency    time.Duration
	appends    int
}

func newFlakyStorage() *flakyStorage {
	return &flakyStorage{Memory: storage.NewMemory()}
}

func (s *flakyStorage) Append(name string, data []byte) error {
	if s.failAppend {
		return errInjected
	}
	s.appends++
	if s.clock != nil {
		s.clock.Advance(s.latency)
	}
	return s.Memory.Append(name, data)
}

func (s *flakyStorage) Rename(from, to string) error {
	if s.failRename {
		return errInjected
	}
	return s.Memory.Rename(from, to)
}

func (s *flakyStorage) content(name string) string {
	data, err := s.Memory.Read(name)
	if err != nil {
		return ""
	}
	return string(data)
}

func newTestWriter(store storage.Storage, clock *fakeClock, soft, hard int, gate FlushGate) *TrackWriter {
	return NewTrackWriter(WriterOptions{
		Storage:   store,
		Filename:  "sensorData1.csv",
		SoftLimit: soft,
		HardLimit: hard,
		Gate:      gate,
		Finalizer: NewFinalizer(store, clock, "abcd", ".csv", utils.MinPlausibleYear),
		Clock:     clock,
	})
}

func testConfig(policy models.PrivacyPolicy, format string) *utils.Config {
	cfg := &utils.Config{}
	cfg.Device.ID = "abcd"
	cfg.Device.FirmwareVersion = "v0.9.0"
	cfg.Sensors.Distance.OffsetLeft = 30
	cfg.Sensors.Distance.OffsetRight = 31
	cfg.Sensors.Distance.MaxMeasurementsPerInterval = 5
	cfg.Storage.Format = format
	cfg.Privacy.Policy = policy
	cfg.Privacy.Areas = []models.PrivacyArea{{Name: "home", Latitude: 48.7758, Longitude: 9.1829, RadiusMeters: 200}}
	cfg.ApplyDefaults()
	return cfg
}

func testSample() *models.DataSet {
	return &models.DataSet{
		Time:   time.Date(2024, 5, 1, 10, 0, 5, 0, time.UTC),
		Millis: 123456,
		GPS: models.GPSFix{
			LocationValid: true,
			Latitude:      48.7758,
			Longitude:     9.1829,
			Altitude:      245.5,
			CourseValid:   true,
			Course:        90.5,
			SpeedValid:    true,
			Speed:         18.25,
			HDOPValid:     true,
			HDOP:          0.9,
			Satellites:    9,
		},
		BatteryLevel: 3.87,
		SensorValues: [2]uint16{150, models.MaxSensorValue},
		Factor:       0.58,
		Measurements: []models.Measurement{
			{OffsetMillis: 0, LeftMicros: 8700},
			{OffsetMillis: 50, LeftMicros: 8750, RightMicros: 12000},
		},
	}
}
