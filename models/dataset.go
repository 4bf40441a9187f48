package models

import (
	"strings"
	"time"
	"unicode"
)

const (
	// LeftSensorID and RightSensorID index DataSet.SensorValues.
	LeftSensorID  = 0
	RightSensorID = 1

	// MaxSensorValue is the distance in cm reported when a sensor saw no echo.
	MaxSensorValue = 999

	// DefaultMaxMeasurementsPerInterval bounds the per-interval triplet columns.
	DefaultMaxMeasurementsPerInterval = 22

	// MaxDurationMicroSec is the longest echo flight time still treated as valid.
	MaxDurationMicroSec = 25000

	// DataPerMeasurement is the number of columns per sub-measurement triplet.
	DataPerMeasurement = 3
)

// Measurement is one ultrasonic trigger within a measurement interval.
// A zero duration means the sensor did not report an echo.
type Measurement struct {
	OffsetMillis uint16 `json:"offset_ms"` // since interval start
	LeftMicros   uint32 `json:"left_us"`
	RightMicros  uint32 `json:"right_us"`
}

// DataSet is the snapshot of one measurement interval: wall clock, GPS,
// distances and the rider's input. It is built once by the sampling loop
// and must not be modified after it was handed to a track writer.
type DataSet struct {
	Time    time.Time `json:"time"`
	Millis  uint32    `json:"millis"` // since boot
	Comment string    `json:"comment,omitempty"`

	GPS          GPSFix  `json:"gps"`
	BatteryLevel float64 `json:"battery_level"` // volts

	SensorValues [2]uint16 `json:"sensor_values"` // cm, MaxSensorValue for no reading

	Confirmed          bool    `json:"confirmed"`
	Marked             bool    `json:"marked"`
	InvalidMeasurement bool    `json:"invalid_measurement"`
	InsidePrivacyArea  bool    `json:"inside_privacy_area"`
	Factor             float64 `json:"factor"`

	Measurements []Measurement `json:"measurements"`
}

// CSVHeader returns the track schema row for maxMeasurements triplet slots.
func (DataSet) CSVHeader(maxMeasurements int) []string {
	h := []string{
		"Date", "Time", "Millis", "Comment",
		"Latitude", "Longitude", "Altitude", "Course", "Speed",
		"HDOP", "Satellites", "BatteryLevel", "Left", "Right",
		"Confirmed", "Marked", "Invalid", "InsidePrivacyArea",
		"Factor", "Measurements",
	}
	for i := 1; i <= maxMeasurements; i++ {
		n := itoa(i)
		h = append(h, "Tms"+n, "Lus"+n, "Rus"+n)
	}
	return h
}

// MeasurementCount is the number of triplets that fit into maxMeasurements slots.
func (d *DataSet) MeasurementCount(maxMeasurements int) int {
	if len(d.Measurements) > maxMeasurements {
		return maxMeasurements
	}
	return len(d.Measurements)
}

// CSVRow returns one track row. blankPosition empties the position block
// regardless of fix validity; unused triplet slots are padded with empty
// fields so every row has the same column count as CSVHeader.
func (d *DataSet) CSVRow(maxMeasurements int, blankPosition bool) []string {
	row := make([]string, 0, 20+DataPerMeasurement*maxMeasurements)
	row = append(row,
		d.Time.Format("02.01.2006"),
		d.Time.Format("15:04:05"),
		utoa64(uint64(d.Millis)),
		sanitizeField(d.Comment),
	)

	if blankPosition {
		row = append(row, BlankPositionFields()...)
	} else {
		row = append(row, d.GPS.PositionFields()...)
	}
	row = append(row, d.GPS.QualityFields()...)

	row = append(row,
		ftoa(d.BatteryLevel, 2),
		distanceField(d.SensorValues[LeftSensorID]),
		distanceField(d.SensorValues[RightSensorID]),
		btoa(d.Confirmed),
		btoa(d.Marked),
		btoa(d.InvalidMeasurement),
		btoa(d.InsidePrivacyArea),
		ftoa(d.Factor, 2),
	)

	n := d.MeasurementCount(maxMeasurements)
	row = append(row, itoa(n))
	for _, m := range d.Measurements[:n] {
		row = append(row,
			utoa64(uint64(m.OffsetMillis)),
			durationField(m.LeftMicros),
			durationField(m.RightMicros),
		)
	}
	for i := n; i < maxMeasurements; i++ {
		row = append(row, "", "", "")
	}
	return row
}

func distanceField(v uint16) string {
	if v >= MaxSensorValue {
		return ""
	}
	return utoa64(uint64(v))
}

func durationField(us uint32) string {
	if us == 0 {
		return ""
	}
	return utoa64(uint64(us))
}

// sanitizeField keeps free text from breaking the one-record-per-line layout
// and from being quoted by the CSV encoder.
var fieldReplacer = strings.NewReplacer(";", ",", "\r", " ", "\n", " ", "\"", "'")

func sanitizeField(s string) string {
	return strings.TrimLeftFunc(fieldReplacer.Replace(s), unicode.IsSpace)
}
