package ingest

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"obs-logger/models"
	"obs-logger/utils"
)

// coldStartFixes is how many receiver updates the simulation reports
// without a position, like a receiver still searching for satellites.
const coldStartFixes = 3

// GPSReader delivers receiver fixes at the configured update rate.
//
// Only the simulated receiver is implemented. Without simulation every fix
// is reported without a valid location, which the track writers handle like
// a receiver that has not acquired satellites yet.
type GPSReader struct {
	cfg      utils.GPSConfig
	sim      bool
	rng      *rand.Rand
	Out      chan *models.GPSFix
	dropped  uint64
	produced uint64
}

func NewGPSReader(cfg utils.GPSConfig, simulate bool) *GPSReader {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 16
	}
	return &GPSReader{
		cfg: cfg,
		sim: simulate,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		Out: make(chan *models.GPSFix, buf),
	}
}

func (r *GPSReader) Start(ctx context.Context) {
	go r.run(ctx)
	utils.L().Named("gps").Info("reader started (rate=%dHz, buffer=%d, simulate=%v)",
		r.cfg.UpdateRateHz, cap(r.Out), r.sim)
}

func (r *GPSReader) run(ctx context.Context) {
	defer close(r.Out)

	rate := r.cfg.UpdateRateHz
	if rate <= 0 {
		rate = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	// Simulated ride starts in Stuttgart city centre.
	lat, lon := 48.7758, 9.1829
	var n int

	for {
		select {
		case <-ctx.Done():
			utils.L().Named("gps").Info("reader stopped (produced=%d, dropped=%d)",
				atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped))
			return
		case <-ticker.C:
			fix := r.readFix(n, &lat, &lon)
			n++
			select {
			case r.Out <- fix:
				atomic.AddUint64(&r.produced, 1)
			default:
				atomic.AddUint64(&r.dropped, 1)
			}
		}
	}
}

func (r *GPSReader) readFix(n int, lat, lon *float64) *models.GPSFix {
	if !r.sim || n < coldStartFixes {
		return &models.GPSFix{}
	}

	// ~20 km/h heading north-east
	*lat += 0.00003 + r.rng.Float64()*0.00001
	*lon += 0.00004 + r.rng.Float64()*0.00001

	return &models.GPSFix{
		LocationValid: true,
		Latitude:      *lat,
		Longitude:     *lon,
		Altitude:      245.0 + r.rng.Float64()*3.0,
		CourseValid:   true,
		Course:        40.0 + r.rng.Float64()*10.0,
		SpeedValid:    true,
		Speed:         18.0 + r.rng.Float64()*4.0,
		HDOPValid:     true,
		HDOP:          0.8 + r.rng.Float64()*0.6,
		Satellites:    7 + r.rng.Intn(5),
	}
}

func (r *GPSReader) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped)
}
