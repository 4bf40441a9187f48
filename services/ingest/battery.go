package ingest

import (
	"time"

	"obs-logger/utils"
)

// SimulatedBattery discharges a single Li-ion cell linearly from full to
// empty over runtime.
type SimulatedBattery struct {
	clock   utils.Clock
	runtime time.Duration
}

const (
	cellFullVolts  = 4.2
	cellEmptyVolts = 3.3
)

func NewSimulatedBattery(clock utils.Clock, runtime time.Duration) *SimulatedBattery {
	if runtime <= 0 {
		runtime = 8 * time.Hour
	}
	return &SimulatedBattery{clock: clock, runtime: runtime}
}

// Volts returns the cell voltage at the current uptime.
func (b *SimulatedBattery) Volts() float64 {
	used := float64(b.clock.Uptime()) / float64(b.runtime)
	if used >= 1 {
		return cellEmptyVolts
	}
	return cellFullVolts - used*(cellFullVolts-cellEmptyVolts)
}
