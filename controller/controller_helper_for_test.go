package controller

import (
	"time"

	"obs-logger/models"
	"obs-logger/utils"
)

type manualClock struct {
	now    time.Time
	uptime time.Duration
}

func (c *manualClock) Now() time.Time        { return c.now.Add(c.uptime) }
func (c *manualClock) Uptime() time.Duration { return c.uptime }

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func testConfig() *utils.Config {
	cfg := &utils.Config{}
	cfg.Device.ID = "beef"
	cfg.Sensors.Distance.Enabled = true
	cfg.Sensors.Distance.OffsetLeft = 30
	cfg.Sensors.Distance.OffsetRight = 30
	cfg.Sensors.Distance.MaxMeasurementsPerInterval = 4
	cfg.Privacy.Policy = models.AbsolutePrivacy
	cfg.Privacy.Areas = []models.PrivacyArea{{Name: "home", Latitude: 48.7758, Longitude: 9.1829, RadiusMeters: 100}}
	cfg.ApplyDefaults()
	return cfg
}

func fixAt(lat, lon float64) *models.GPSFix {
	return &models.GPSFix{LocationValid: true, Latitude: lat, Longitude: lon, Satellites: 8}
}
