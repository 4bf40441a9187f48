package views

import (
	"path"
	"time"

	"obs-logger/services/storage"
	"obs-logger/utils"
)

// Finalizer renames a provisional track file to a name derived from the
// time the track started, once the wall clock can be trusted.
type Finalizer struct {
	store    storage.Storage
	clock    utils.Clock
	deviceID string
	ext      string
	minYear  int
	log      *utils.Logger
}

// NewFinalizer returns a Finalizer naming tracks <timestamp>-<deviceID><ext>.
func NewFinalizer(store storage.Storage, clock utils.Clock, deviceID, ext string, minYear int) *Finalizer {
	return &Finalizer{
		store:    store,
		clock:    clock,
		deviceID: deviceID,
		ext:      ext,
		minYear:  minYear,
		log:      utils.L().Named("finalizer"),
	}
}

// Name composes the finalized name for a track started at t, in the same
// directory as current.
func (f *Finalizer) Name(current string, t time.Time) string {
	return path.Join(path.Dir(current), utils.TrackTimestamp(t)+"-"+f.deviceID+f.ext)
}

// TryFinalize back-dates the clock by elapsed to the track start and, if
// that instant is plausible, renames current. It returns the new name and
// true on success; on false the caller keeps current and retries later.
//
// A provisional file that was never written is not renamed on storage;
// only the name changes.
func (f *Finalizer) TryFinalize(current string, elapsed time.Duration) (string, bool) {
	started := f.clock.Now().Add(-elapsed)
	if !utils.PlausibleTime(started, f.minYear) {
		f.log.Debug("clock reports %d, deferring rename of %s", started.Year(), current)
		return "", false
	}

	name := f.Name(current, started)
	if f.store.Exists(name) {
		f.log.Warn("cannot rename %s: %s already exists", current, name)
		return "", false
	}
	if !f.store.Exists(current) {
		f.log.Info("track %s not yet on storage, using %s", current, name)
		return name, true
	}
	if err := f.store.Rename(current, name); err != nil {
		f.log.Warn("rename %s to %s failed, retrying on next flush: %v", current, name, err)
		return "", false
	}
	f.log.Info("renamed %s to %s", current, name)
	return name, true
}
