package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"obs-logger/models"
	"obs-logger/utils"
)

// Button tracks the handlebar push button. The rider presses it to confirm
// an overtaking manoeuvre; while it is held the track writer must not
// start a flush.
type Button struct {
	sim     bool
	clock   utils.Clock
	pressed atomic.Bool
	presses atomic.Uint64
	Out     chan *models.ButtonEvent // never closed; Press may race with shutdown
	dropped uint64
}

// Simulated riders press the button every simPressEvery for simHold.
const (
	simPressEvery = 7 * time.Second
	simHold       = 400 * time.Millisecond
)

func NewButton(simulate bool, clock utils.Clock) *Button {
	return &Button{
		sim:   simulate,
		clock: clock,
		Out:   make(chan *models.ButtonEvent, 8),
	}
}

func (b *Button) Start(ctx context.Context) {
	if !b.sim {
		utils.L().Named("button").Info("waiting for presses")
		return
	}
	go b.simulate(ctx)
	utils.L().Named("button").Info("simulated presses every %v", simPressEvery)
}

func (b *Button) simulate(ctx context.Context) {
	ticker := time.NewTicker(simPressEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Press()
			select {
			case <-ctx.Done():
				b.Release()
				return
			case <-time.After(simHold):
				b.Release()
			}
		}
	}
}

// Press records a press edge. Repeated calls while held are ignored.
func (b *Button) Press() {
	if b.pressed.Swap(true) {
		return
	}
	b.presses.Add(1)
	b.emit(true)
}

// Release records a release edge.
func (b *Button) Release() {
	if !b.pressed.Swap(false) {
		return
	}
	b.emit(false)
}

func (b *Button) emit(pressed bool) {
	select {
	case b.Out <- &models.ButtonEvent{At: b.clock.Uptime(), Pressed: pressed}:
	default:
		atomic.AddUint64(&b.dropped, 1)
	}
}

// Pressed reports whether the button is held right now.
func (b *Button) Pressed() bool { return b.pressed.Load() }

// Presses is the number of press edges since start. Comparing two readings
// tells whether the button was pressed in between.
func (b *Button) Presses() uint64 { return b.presses.Load() }

// AllowFlush is the track writer's flush gate.
func (b *Button) AllowFlush() bool { return !b.Pressed() }

func (b *Button) Stats() (uint64, uint64) {
	return b.presses.Load(), atomic.LoadUint64(&b.dropped)
}
