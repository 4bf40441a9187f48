package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"obs-logger/models"
	"obs-logger/services/privacy"
	"obs-logger/utils"
)

// SamplingController turns the sensor streams into one DataSet per
// measurement interval. It runs one drain goroutine per sensor channel plus
// a ticker goroutine that closes the interval.
//
// GPS uses latest-value semantics and is kept across intervals. Distance
// triggers accumulate until the interval closes, capped at the configured
// maximum. A full output channel drops the DataSet.
type SamplingController struct {
	mu sync.Mutex

	latestGPS     models.GPSFix
	measurements  []models.Measurement
	intervalStart time.Duration
	lastPresses   uint64

	cfg     *utils.Config
	clock   utils.Clock
	areas   *privacy.Areas
	presses func() uint64
	battery func() float64

	// OnInterval, when set, sees every DataSet before it is handed to the
	// recording stage. It must not modify it.
	OnInterval func(*models.DataSet)

	Out chan *models.DataSet

	produced uint64
	dropped  uint64
	log      *utils.Logger
}

// SamplingOptions carries the collaborators of a SamplingController. Nil
// funcs read as zero.
type SamplingOptions struct {
	Clock   utils.Clock
	Areas   *privacy.Areas
	Presses func() uint64  // monotonic press counter of the push button
	Battery func() float64 // volts
}

func NewSamplingController(cfg *utils.Config, opts SamplingOptions) *SamplingController {
	buf := cfg.Sampling.ChannelBuffer
	if buf <= 0 {
		buf = 16
	}
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock()
	}
	if opts.Areas == nil {
		opts.Areas = privacy.NewAreas(cfg.Privacy.Areas)
	}
	if opts.Presses == nil {
		opts.Presses = func() uint64 { return 0 }
	}
	if opts.Battery == nil {
		opts.Battery = func() float64 { return 0 }
	}
	sc := &SamplingController{
		cfg:     cfg,
		clock:   opts.Clock,
		areas:   opts.Areas,
		presses: opts.Presses,
		battery: opts.Battery,
		Out:     make(chan *models.DataSet, buf),
		log:     utils.L().Named("sampling"),
	}
	sc.intervalStart = sc.clock.Uptime()
	sc.lastPresses = sc.presses()
	return sc
}

// Start launches drain goroutines for each sensor channel plus the interval
// ticker.
func (sc *SamplingController) Start(ctx context.Context, sensors *SensorsController) {
	if sensors.GPSCh != nil {
		go sc.drainGPS(ctx, sensors.GPSCh)
	}
	if sensors.DistanceCh != nil {
		go sc.drainDistance(ctx, sensors.DistanceCh)
	}
	go sc.tick(ctx)
	for _, a := range sc.areas.List() {
		sc.log.Debug("privacy area %q", a.Name)
	}
	sc.log.Info("started (interval=%dms, max_measurements=%d, privacy_areas=%d)",
		sc.cfg.Sampling.IntervalMs, sc.cfg.Sensors.Distance.MaxMeasurementsPerInterval, sc.areas.Len())
}

// ─── drain goroutines ───────────────────────────────────────────────────

func (sc *SamplingController) drainGPS(ctx context.Context, ch <-chan *models.GPSFix) {
	for {
		select {
		case <-ctx.Done():
			return
		case fix, ok := <-ch:
			if !ok {
				return
			}
			sc.setGPS(fix)
		}
	}
}

func (sc *SamplingController) drainDistance(ctx context.Context, ch <-chan *models.DistanceSample) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-ch:
			if !ok {
				return
			}
			sc.addDistance(s)
		}
	}
}

func (sc *SamplingController) setGPS(fix *models.GPSFix) {
	sc.mu.Lock()
	sc.latestGPS = *fix
	sc.mu.Unlock()
}

func (sc *SamplingController) addDistance(s *models.DistanceSample) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if len(sc.measurements) >= sc.cfg.Sensors.Distance.MaxMeasurementsPerInterval {
		return
	}
	offset := (s.At - sc.intervalStart) / time.Millisecond
	if offset < 0 {
		offset = 0
	}
	sc.measurements = append(sc.measurements, models.Measurement{
		OffsetMillis: uint16(offset),
		LeftMicros:   s.LeftMicros,
		RightMicros:  s.RightMicros,
	})
}

// ─── interval ticker ────────────────────────────────────────────────────

func (sc *SamplingController) tick(ctx context.Context) {
	defer close(sc.Out)

	ticker := time.NewTicker(time.Duration(sc.cfg.Sampling.IntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sc.log.Info("stopped (produced=%d, dropped=%d)",
				atomic.LoadUint64(&sc.produced), atomic.LoadUint64(&sc.dropped))
			return
		case <-ticker.C:
			set := sc.CloseInterval()
			select {
			case sc.Out <- set:
				atomic.AddUint64(&sc.produced, 1)
			default:
				atomic.AddUint64(&sc.dropped, 1)
				sc.log.Warn("output channel full, dropping sample at %dms", set.Millis)
			}
		}
	}
}

// CloseInterval builds the DataSet for the interval that ends now and
// starts the next one.
func (sc *SamplingController) CloseInterval() *models.DataSet {
	presses := sc.presses()

	sc.mu.Lock()
	set := &models.DataSet{
		Time:         sc.clock.Now(),
		Millis:       utils.UptimeMillis(sc.clock),
		GPS:          sc.latestGPS,
		Measurements: sc.measurements,
		Confirmed:    presses != sc.lastPresses,
		Factor:       models.NominalFactor,
	}
	sc.measurements = nil
	sc.intervalStart = sc.clock.Uptime()
	sc.lastPresses = presses
	sc.mu.Unlock()

	set.BatteryLevel = sc.battery()
	set.SensorValues = sc.minDistances(set.Measurements)
	set.InvalidMeasurement = sc.cfg.Sensors.Distance.Enabled && len(set.Measurements) == 0
	sc.areas.Mark(set)

	if sc.OnInterval != nil {
		sc.OnInterval(set)
	}
	return set
}

// minDistances is the closest valid reading per side, MaxSensorValue when
// a side saw nothing.
func (sc *SamplingController) minDistances(ms []models.Measurement) [2]uint16 {
	d := sc.cfg.Sensors.Distance
	out := [2]uint16{models.MaxSensorValue, models.MaxSensorValue}
	for _, m := range ms {
		if cm := models.DistanceCentimeters(m.LeftMicros, d.OffsetLeft); cm < out[models.LeftSensorID] {
			out[models.LeftSensorID] = cm
		}
		if cm := models.DistanceCentimeters(m.RightMicros, d.OffsetRight); cm < out[models.RightSensorID] {
			out[models.RightSensorID] = cm
		}
	}
	return out
}

func (sc *SamplingController) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&sc.produced), atomic.LoadUint64(&sc.dropped)
}
