package views

import (
	"fmt"

	"obs-logger/models"
	"obs-logger/services/storage"
	"obs-logger/utils"
)

// TrackEncoder is the writer a recording session talks to, independent of
// the file format.
type TrackEncoder interface {
	WriteHeader() error
	Append(set *models.DataSet) bool
	Flush() error
	Filename() string
	Finalized() bool
	Stats() WriterStats
}

var (
	_ TrackEncoder = (*CSVTrackWriter)(nil)
	_ TrackEncoder = (*GPXTrackWriter)(nil)
)

// OpenTrack allocates a provisional track name through the counter and
// returns the encoder for the configured format. The header is not written
// yet.
func OpenTrack(cfg *utils.Config, store storage.Storage, counter *storage.Counter, clock utils.Clock, gate FlushGate) (TrackEncoder, error) {
	ext := cfg.Storage.Extension()
	name := counter.AllocateNextTrackName(cfg.Storage.BaseName, ext, store.Exists)

	tw := NewTrackWriter(WriterOptions{
		Storage:   store,
		Filename:  name,
		SoftLimit: cfg.Storage.Buffer.SoftLimitBytes,
		HardLimit: cfg.Storage.Buffer.HardLimitBytes,
		Gate:      gate,
		Finalizer: NewFinalizer(store, clock, cfg.Device.ID, ext, cfg.Storage.MinPlausibleYear),
		Clock:     clock,
	})

	switch cfg.Storage.Format {
	case utils.FormatCSV:
		return NewCSVTrackWriter(cfg, tw), nil
	case utils.FormatGPX:
		return NewGPXTrackWriter(cfg, tw), nil
	default:
		return nil, fmt.Errorf("unsupported track format %q", cfg.Storage.Format)
	}
}
