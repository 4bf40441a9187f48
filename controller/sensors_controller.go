package controller

import (
	"context"

	"obs-logger/models"
	"obs-logger/services/bluetooth"
	"obs-logger/services/ingest"
	"obs-logger/utils"
)

// SensorsController owns the lifecycle of every reader goroutine and of
// the Bluetooth services. It exposes typed output channels that the
// sampling controller consumes.
type SensorsController struct {
	gps      *ingest.GPSReader
	distance *ingest.DistanceReader
	Button   *ingest.Button

	GPSCh      chan *models.GPSFix
	DistanceCh chan *models.DistanceSample

	ble []bluetooth.Service
	log *utils.Logger
}

// NewSensorsController creates reader instances for every enabled sensor.
// The button always exists; it gates flushing even without a rider.
func NewSensorsController(cfg *utils.Config, clock utils.Clock) *SensorsController {
	sc := &SensorsController{log: utils.L().Named("sensors")}
	sim := cfg.Simulation.Enabled

	if cfg.Sensors.GPS.Enabled {
		sc.gps = ingest.NewGPSReader(cfg.Sensors.GPS, sim)
		sc.GPSCh = sc.gps.Out
	}
	if cfg.Sensors.Distance.Enabled {
		sc.distance = ingest.NewDistanceReader(cfg.Sensors.Distance, sim, clock)
		sc.DistanceCh = sc.distance.Out
	}
	sc.Button = ingest.NewButton(sim, clock)

	return sc
}

// AttachBluetooth sets up services on server. A service that fails to
// register is logged and left out.
func (sc *SensorsController) AttachBluetooth(server bluetooth.Server, services ...bluetooth.Service) {
	for _, s := range services {
		if err := s.Setup(server); err != nil {
			sc.log.Warn("bluetooth service skipped: %v", err)
			continue
		}
		sc.ble = append(sc.ble, s)
		if s.ShouldAdvertise() {
			sc.log.Info("advertising bluetooth service %s", s.Service().UUID)
		}
	}
}

// Start launches all enabled reader goroutines and the button fan-out.
func (sc *SensorsController) Start(ctx context.Context) {
	if sc.gps != nil {
		sc.gps.Start(ctx)
	}
	if sc.distance != nil {
		sc.distance.Start(ctx)
	}
	sc.Button.Start(ctx)
	go sc.forwardButton(ctx)
	sc.log.Info("all enabled readers launched")
}

func (sc *SensorsController) forwardButton(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-sc.Button.Out:
			if !ev.Pressed {
				continue
			}
			for _, s := range sc.ble {
				s.OnButtonPressed()
			}
		}
	}
}

// PublishSensorValues hands one interval's distances to the Bluetooth
// services. It is the sampling controller's interval hook.
func (sc *SensorsController) PublishSensorValues(set *models.DataSet) {
	left := set.SensorValues[models.LeftSensorID]
	right := set.SensorValues[models.RightSensorID]
	for _, s := range sc.ble {
		s.OnSensorValues(left, right)
	}
}

// LogStats prints current produce/drop counters for each active sensor.
func (sc *SensorsController) LogStats() {
	if sc.gps != nil {
		p, d := sc.gps.Stats()
		sc.log.Info("  gps       produced=%d  dropped=%d", p, d)
	}
	if sc.distance != nil {
		p, d := sc.distance.Stats()
		sc.log.Info("  distance  produced=%d  dropped=%d", p, d)
	}
	p, d := sc.Button.Stats()
	sc.log.Info("  button    presses=%d  dropped=%d", p, d)
}
