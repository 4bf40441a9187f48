package views

import (
	"strconv"
	"strings"

	"obs-logger/models"
	"obs-logger/utils"
)

// The CSV track file starts with one metadata line of key=value pairs
// joined by '&', followed by the column row produced by DataSet.CSVHeader.
// This file is the single source of truth for the metadata keys and order.

const (
	// CSVDataFormat is the version of the track column layout.
	CSVDataFormat = 2

	csvDelimiter        = ';'
	distanceSensorsUsed = "HC-SR04/JSN-SR04T"
)

type metadataField struct {
	key   string
	value string
}

// metadataFields lists the header pairs for cfg in file order.
func metadataFields(cfg *utils.Config) []metadataField {
	d := cfg.Sensors.Distance
	return []metadataField{
		{"OBSDataFormat", strconv.Itoa(CSVDataFormat)},
		{"OBSFirmwareVersion", cfg.Device.FirmwareVersion},
		{"DeviceId", cfg.Device.ID},
		{"DataPerMeasurement", strconv.Itoa(models.DataPerMeasurement)},
		{"MaximumMeasurementsPerLine", strconv.Itoa(d.MaxMeasurementsPerInterval)},
		{"OffsetLeft", strconv.Itoa(d.OffsetLeft)},
		{"OffsetRight", strconv.Itoa(d.OffsetRight)},
		{"NumberOfDefinedPrivacyAreas", strconv.Itoa(len(cfg.Privacy.Areas))},
		{"PrivacyLevelApplied", cfg.Privacy.Policy.String()},
		{"MaximumValidFlightTimeMicroseconds", strconv.Itoa(models.MaxDurationMicroSec)},
		{"DistanceSensorsUsed", distanceSensorsUsed},
	}
}

// MetadataLine renders the newline-terminated metadata header.
func MetadataLine(cfg *utils.Config) string {
	fields := metadataFields(cfg)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.key + "=" + f.value
	}
	return strings.Join(parts, "&") + "\n"
}

// SchemaColumns returns the column row for the configured slot count.
func SchemaColumns(cfg *utils.Config) []string {
	return models.DataSet{}.CSVHeader(cfg.Sensors.Distance.MaxMeasurementsPerInterval)
}
