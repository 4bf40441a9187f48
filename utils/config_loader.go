package utils

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"obs-logger/models"
)

// ─── Sensor-level configs ───────────────────────────────────────────────

type DeviceConfig struct {
	ID              string `yaml:"id"` // hex; derived from a hardware address when empty
	FirmwareVersion string `yaml:"firmware_version"`
}

type DistanceConfig struct {
	Enabled                    bool `yaml:"enabled"`
	OffsetLeft                 int  `yaml:"offset_left"`  // cm
	OffsetRight                int  `yaml:"offset_right"` // cm
	TriggerRateHz              int  `yaml:"trigger_rate_hz"`
	MaxMeasurementsPerInterval int  `yaml:"max_measurements_per_interval"`
	ChannelBuffer              int  `yaml:"channel_buffer"`
}

type GPSConfig struct {
	Enabled       bool   `yaml:"enabled"`
	SerialPort    string `yaml:"serial_port"`
	BaudRate      int    `yaml:"baud_rate"`
	UpdateRateHz  int    `yaml:"update_rate_hz"`
	ChannelBuffer int    `yaml:"channel_buffer"`
}

type SamplingConfig struct {
	IntervalMs    int `yaml:"interval_ms"`
	ChannelBuffer int `yaml:"channel_buffer"`
}

type SimulationConfig struct {
	Enabled         bool `yaml:"enabled"`
	DurationSeconds int  `yaml:"duration_seconds"`
}

type BluetoothConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ─── Storage and privacy configs ────────────────────────────────────────

// Track file formats.
const (
	FormatCSV = "csv"
	FormatGPX = "gpx"
)

type BufferConfig struct {
	SoftLimitBytes int `yaml:"soft_limit_bytes"`
	HardLimitBytes int `yaml:"hard_limit_bytes"`
}

type StorageConfig struct {
	BaseDir          string       `yaml:"base_dir"`
	BaseName         string       `yaml:"base_name"`
	CounterFile      string       `yaml:"counter_file"`
	Format           string       `yaml:"format"` // "csv" or "gpx"
	Buffer           BufferConfig `yaml:"buffer"`
	MinPlausibleYear int          `yaml:"min_plausible_year"`
}

type PrivacyConfig struct {
	Policy models.PrivacyPolicy `yaml:"policy"`
	Areas  []models.PrivacyArea `yaml:"areas"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the top-level structure for obs.yaml. It is loaded once at
// startup and treated as immutable for the rest of the run.
type Config struct {
	Device  DeviceConfig `yaml:"device"`
	Sensors struct {
		Distance DistanceConfig `yaml:"distance"`
		GPS      GPSConfig      `yaml:"gps"`
	} `yaml:"sensors"`
	Sampling   SamplingConfig   `yaml:"sampling"`
	Storage    StorageConfig    `yaml:"storage"`
	Privacy    PrivacyConfig    `yaml:"privacy"`
	Bluetooth  BluetoothConfig  `yaml:"bluetooth"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ─── Loaders ────────────────────────────────────────────────────────────

// LoadConfig reads, parses, defaults and validates obs.yaml.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig is LoadConfig without the file read.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero values with the firmware defaults.
func (c *Config) ApplyDefaults() {
	if c.Device.FirmwareVersion == "" {
		c.Device.FirmwareVersion = "dev"
	}
	d := &c.Sensors.Distance
	if d.MaxMeasurementsPerInterval <= 0 {
		d.MaxMeasurementsPerInterval = models.DefaultMaxMeasurementsPerInterval
	}
	if d.TriggerRateHz <= 0 {
		d.TriggerRateHz = 20
	}
	if c.Sensors.GPS.UpdateRateHz <= 0 {
		c.Sensors.GPS.UpdateRateHz = 1
	}
	if c.Sampling.IntervalMs <= 0 {
		c.Sampling.IntervalMs = 1000
	}
	s := &c.Storage
	if s.BaseDir == "" {
		s.BaseDir = "./sd"
	}
	if s.BaseName == "" {
		s.BaseName = "sensorData"
	}
	if s.CounterFile == "" {
		s.CounterFile = "tracknumber.txt"
	}
	if s.Format == "" {
		s.Format = FormatCSV
	}
	s.Format = strings.ToLower(s.Format)
	if s.Buffer.SoftLimitBytes <= 0 {
		s.Buffer.SoftLimitBytes = 10000
	}
	if s.Buffer.HardLimitBytes <= 0 {
		s.Buffer.HardLimitBytes = 13000
	}
	if s.MinPlausibleYear <= 0 {
		s.MinPlausibleYear = MinPlausibleYear
	}
}

// Validate rejects configurations the writers cannot honour.
func (c *Config) Validate() error {
	if c.Sampling.IntervalMs > math.MaxUint16 {
		return fmt.Errorf("sampling.interval_ms %d: measurement offsets are 16-bit, want at most %d",
			c.Sampling.IntervalMs, math.MaxUint16)
	}
	s := c.Storage
	if s.Format != FormatCSV && s.Format != FormatGPX {
		return fmt.Errorf("storage.format %q: want %q or %q", s.Format, FormatCSV, FormatGPX)
	}
	if s.Buffer.SoftLimitBytes > s.Buffer.HardLimitBytes {
		return fmt.Errorf("storage.buffer: soft limit %d exceeds hard limit %d",
			s.Buffer.SoftLimitBytes, s.Buffer.HardLimitBytes)
	}
	if c.Privacy.Policy&^models.AllPrivacyPolicies != 0 {
		return fmt.Errorf("privacy.policy: unknown bits in %#x", uint8(c.Privacy.Policy))
	}
	for i, a := range c.Privacy.Areas {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("privacy.areas[%d]: %w", i, err)
		}
	}
	return nil
}

// Extension returns the track file extension for the configured format.
func (s StorageConfig) Extension() string {
	return "." + s.Format
}
