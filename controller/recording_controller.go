package controller

import (
	"fmt"
	"sync"
	"sync/atomic"

	"obs-logger/models"
	"obs-logger/services/storage"
	"obs-logger/utils"
	"obs-logger/views"
)

// RecordingController is the final pipeline stage and the only writer of
// the track file. It reads DataSets from the sampling stage, hands them to
// the track encoder and flushes once more on shutdown.
//
// Storage failures never stop the pipeline: the affected batch is lost and
// logged, and recording continues with the next one.
type RecordingController struct {
	enc views.TrackEncoder

	rowsAccepted uint64
	rowsRejected uint64
	wg           sync.WaitGroup
	log          *utils.Logger
}

// NewRecordingController allocates the track name, opens the encoder for the
// configured format and writes the header.
func NewRecordingController(cfg *utils.Config, store storage.Storage, clock utils.Clock, gate views.FlushGate) (*RecordingController, error) {
	counter := storage.NewCounter(store, cfg.Storage.CounterFile)
	enc, err := views.OpenTrack(cfg, store, counter, clock, gate)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}

	rc := &RecordingController{enc: enc, log: utils.L().Named("recording")}
	if err := enc.WriteHeader(); err != nil {
		rc.log.Error("write header: %v", err)
	}
	rc.log.Info("ready  track=%s  format=%s  privacy=%s",
		enc.Filename(), cfg.Storage.Format, cfg.Privacy.Policy)
	return rc, nil
}

// Start consumes samples until ch is closed. The sampling stage closes it
// on shutdown, so everything sampled before cancellation is still encoded.
func (rc *RecordingController) Start(ch <-chan *models.DataSet) {
	rc.wg.Add(1)
	go func() {
		defer rc.wg.Done()
		for set := range ch {
			rc.Record(set)
		}
	}()
	rc.log.Info("started")
}

// Record encodes one sample. It must only be called from a single
// goroutine.
func (rc *RecordingController) Record(set *models.DataSet) {
	if rc.enc.Append(set) {
		atomic.AddUint64(&rc.rowsAccepted, 1)
		return
	}
	atomic.AddUint64(&rc.rowsRejected, 1)
}

// Stop waits for the consumer goroutine to drain, then flushes what is
// still buffered.
func (rc *RecordingController) Stop() error {
	rc.wg.Wait()
	err := rc.enc.Flush()
	if err != nil {
		rc.log.Error("final flush: %v", err)
	}
	rc.LogStats()
	return err
}

// LogStats prints the writer counters.
func (rc *RecordingController) LogStats() {
	s := rc.enc.Stats()
	rc.log.Info("  track     %s (finalized=%v)", rc.enc.Filename(), rc.enc.Finalized())
	rc.log.Info("  rows      accepted=%d  rejected=%d  suppressed=%d  redacted=%d",
		atomic.LoadUint64(&rc.rowsAccepted), atomic.LoadUint64(&rc.rowsRejected), s.Suppressed, s.Redacted)
	rc.log.Info("  flushes   ok=%d  failed=%d  buffered=%dB  last=%v",
		s.Flushes, s.FailedFlushes, s.Buffered, s.LastFlush)
}

// Filename returns the current track filename.
func (rc *RecordingController) Filename() string {
	return rc.enc.Filename()
}

// RowsAccepted returns the number of samples the encoder accepted,
// including those suppressed by the privacy policy.
func (rc *RecordingController) RowsAccepted() uint64 {
	return atomic.LoadUint64(&rc.rowsAccepted)
}
