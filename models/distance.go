package models

import "time"

// MicrosPerCentimeter converts an ultrasonic echo flight time into the
// one-way distance: sound travels roughly 58 µs per centimetre there and back.
const MicrosPerCentimeter = 58

// DistanceSample is one trigger of both ultrasonic sensors as reported by
// the distance reader.
type DistanceSample struct {
	At          time.Duration // clock uptime when the trigger fired
	LeftMicros  uint32
	RightMicros uint32
}

// ButtonEvent is a change of the push button state.
type ButtonEvent struct {
	At      time.Duration // clock uptime
	Pressed bool
}

// ValidFlightTime reports whether us is an echo worth converting. Zero means
// no echo; anything past MaxDurationMicroSec is out of range.
func ValidFlightTime(us uint32) bool {
	return us > 0 && us <= MaxDurationMicroSec
}

// DistanceCentimeters turns a flight time into the distance between the
// handlebar end and the obstacle, subtracting the mounting offset. It
// returns MaxSensorValue for an invalid flight time and clamps at zero.
func DistanceCentimeters(us uint32, offset int) uint16 {
	if !ValidFlightTime(us) {
		return MaxSensorValue
	}
	cm := int(us/MicrosPerCentimeter) - offset
	if cm < 0 {
		return 0
	}
	if cm >= MaxSensorValue {
		return MaxSensorValue
	}
	return uint16(cm)
}

// NominalFactor is recorded when flight times are converted without
// temperature compensation.
const NominalFactor = 1.0
