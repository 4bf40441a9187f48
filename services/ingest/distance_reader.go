package ingest

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"obs-logger/models"
	"obs-logger/utils"
)

// DistanceReader triggers both ultrasonic sensors at a fixed rate and
// reports the echo flight times.
type DistanceReader struct {
	cfg      utils.DistanceConfig
	sim      bool
	clock    utils.Clock
	rng      *rand.Rand
	Out      chan *models.DistanceSample
	dropped  uint64
	produced uint64
}

func NewDistanceReader(cfg utils.DistanceConfig, simulate bool, clock utils.Clock) *DistanceReader {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 64
	}
	return &DistanceReader{
		cfg:   cfg,
		sim:   simulate,
		clock: clock,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Out:   make(chan *models.DistanceSample, buf),
	}
}

func (r *DistanceReader) Start(ctx context.Context) {
	go r.run(ctx)
	utils.L().Named("distance").Info("reader started (rate=%dHz, buffer=%d, simulate=%v)",
		r.cfg.TriggerRateHz, cap(r.Out), r.sim)
}

func (r *DistanceReader) run(ctx context.Context) {
	defer close(r.Out)

	rate := r.cfg.TriggerRateHz
	if rate <= 0 {
		rate = 20
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			utils.L().Named("distance").Info("reader stopped (produced=%d, dropped=%d)",
				atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped))
			return
		case <-ticker.C:
			s := r.trigger()
			select {
			case r.Out <- s:
				atomic.AddUint64(&r.produced, 1)
			default:
				atomic.AddUint64(&r.dropped, 1)
			}
		}
	}
}

func (r *DistanceReader) trigger() *models.DistanceSample {
	s := &models.DistanceSample{At: r.clock.Uptime()}
	if !r.sim {
		return s
	}
	s.LeftMicros = r.echo(0.3, 4000, 12000)
	s.RightMicros = r.echo(0.6, 8000, 20000)
	return s
}

// echo simulates one sensor: with probability miss there is nothing in
// range, otherwise the flight time lies between lo and hi microseconds.
func (r *DistanceReader) echo(miss float64, lo, hi int) uint32 {
	if r.rng.Float64() < miss {
		return 0
	}
	return uint32(lo + r.rng.Intn(hi-lo))
}

func (r *DistanceReader) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped)
}
