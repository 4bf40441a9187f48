package views

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"obs-logger/services/storage"
	"obs-logger/utils"
)

// ErrStorageUnavailable wraps every failure to write a track batch.
var ErrStorageUnavailable = errors.New("storage unavailable")

// FlushGate reports whether a flush may run right now. The device holds
// off flushing while the push button is pressed, since an SD write stalls
// the sampling loop for tens of milliseconds.
type FlushGate func() bool

// WriterStats is a snapshot of a TrackWriter's counters.
type WriterStats struct {
	Appended      uint64
	Dropped       uint64 // rejected at the hard limit
	Suppressed    uint64 // dropped by privacy policy
	Redacted      uint64 // written without position
	Flushes       uint64
	FailedFlushes uint64
	Buffered      int
	LastFlush     time.Duration
}

// WriterOptions configures a TrackWriter.
type WriterOptions struct {
	Storage   storage.Storage
	Filename  string
	SoftLimit int // bytes; a flush is attempted once the buffer grows past it
	HardLimit int // bytes; the buffer never grows past it
	Gate      FlushGate
	Finalizer *Finalizer // nil keeps the provisional name
	Clock     utils.Clock
}

// TrackWriter is the buffered base shared by the track encoders.
//
// Fragments accumulate in memory and are appended to the track file in
// batches. Under pressure it loses data instead of blocking: a fragment
// that would push the buffer past the hard limit is rejected. A failed
// flush drops its batch for the same reason.
//
// The writer starts with a provisional, counter-based filename and renames
// the file once, after the first successful flush at which the wall clock
// is plausible.
type TrackWriter struct {
	mu sync.Mutex

	store     storage.Storage
	filename  string
	buf       []byte
	soft      int
	hard      int
	gate      FlushGate
	finalizer *Finalizer
	clock     utils.Clock
	started   time.Duration // clock uptime at creation
	finalized bool

	stats WriterStats
	log   *utils.Logger
}

// NewTrackWriter creates a writer in the provisional state.
func NewTrackWriter(opts WriterOptions) *TrackWriter {
	if opts.Gate == nil {
		opts.Gate = func() bool { return true }
	}
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock()
	}
	if opts.HardLimit < opts.SoftLimit {
		opts.HardLimit = opts.SoftLimit
	}
	return &TrackWriter{
		store:     opts.Storage,
		filename:  opts.Filename,
		buf:       make([]byte, 0, opts.HardLimit),
		soft:      opts.SoftLimit,
		hard:      opts.HardLimit,
		gate:      opts.Gate,
		finalizer: opts.Finalizer,
		clock:     opts.Clock,
		started:   opts.Clock.Uptime(),
		log:       utils.L().Named("writer"),
	}
}

// AppendFragment adds one serialized record to the buffer and reports
// whether it was stored. Once the buffer is past the soft limit and the
// gate allows it, the buffer is flushed first.
func (w *TrackWriter) AppendFragment(fragment string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > w.soft && w.gate() {
		w.log.Debug("buffer at %d bytes, flushing to %s", len(w.buf), w.filename)
		_ = w.flushLocked()
	}

	if len(w.buf)+len(fragment) > w.hard {
		w.stats.Dropped++
		w.log.Warn("buffer overflow (%d+%d > %d bytes), skipping record",
			len(w.buf), len(fragment), w.hard)
		return false
	}
	w.buf = append(w.buf, fragment...)
	w.stats.Appended++
	return true
}

// Flush appends the buffered batch to the track file. The buffer is
// cleared whether or not the write succeeded.
func (w *TrackWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

func (w *TrackWriter) flushLocked() error {
	if len(w.buf) > 0 {
		start := w.clock.Uptime()
		err := w.store.Append(w.filename, w.buf)
		w.stats.LastFlush = w.clock.Uptime() - start
		w.buf = w.buf[:0]
		if err != nil {
			w.stats.FailedFlushes++
			w.log.Error("flush to %s failed, batch lost: %v", w.filename, err)
			return fmt.Errorf("%w: flush %s: %w", ErrStorageUnavailable, w.filename, err)
		}
		w.stats.Flushes++
	}
	w.finalizeLocked()
	return nil
}

func (w *TrackWriter) finalizeLocked() {
	if w.finalized || w.finalizer == nil {
		return
	}
	name, ok := w.finalizer.TryFinalize(w.filename, w.clock.Uptime()-w.started)
	if !ok {
		return
	}
	w.filename = name
	w.finalized = true
}

// writeThrough appends data straight to the track file, bypassing the
// buffer. Used for the header, which must precede any buffered record.
func (w *TrackWriter) writeThrough(data string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.store.Append(w.filename, []byte(data)); err != nil {
		return fmt.Errorf("%w: write header to %s: %w", ErrStorageUnavailable, w.filename, err)
	}
	return nil
}

func (w *TrackWriter) countSuppressed() {
	w.mu.Lock()
	w.stats.Suppressed++
	w.mu.Unlock()
}

func (w *TrackWriter) countRedacted() {
	w.mu.Lock()
	w.stats.Redacted++
	w.mu.Unlock()
}

// BufferLength returns the number of buffered bytes.
func (w *TrackWriter) BufferLength() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buf)
}

// LastFlushDuration returns how long the latest storage write took.
func (w *TrackWriter) LastFlushDuration() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats.LastFlush
}

// Filename returns the current track file name.
func (w *TrackWriter) Filename() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filename
}

// Finalized reports whether the timestamp-derived name has been applied.
func (w *TrackWriter) Finalized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finalized
}

// Stats returns a snapshot of the writer's counters.
func (w *TrackWriter) Stats() WriterStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.stats
	s.Buffered = len(w.buf)
	return s
}
