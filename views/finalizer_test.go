package views

import (
	"testing"
	"time"

	"obs-logger/services/storage"
	"obs-logger/utils"
)

func TestTryFinalize_ShouldBackdateToTrackStart(t *testing.T) {
	store := storage.NewMemory()
	_ = store.Write("sensorData3.gpx", []byte("x"))
	clock := setClock()
	f := NewFinalizer(store, clock, "1f", ".gpx", utils.MinPlausibleYear)

	name, ok := f.TryFinalize("sensorData3.gpx", 90*time.Minute)

	if !ok || name != "2024-05-01T08.30.00-1f.gpx" {
		t.Fatalf("Expected 2024-05-01T08.30.00-1f.gpx but got %q (%v)", name, ok)
	}
	if !store.Exists(name) || store.Exists("sensorData3.gpx") {
		t.Error("file not renamed on storage")
	}
}

func TestTryFinalize_WhenStartBeforeCutoff_ShouldDefer(t *testing.T) {
	store := storage.NewMemory()
	clock := &fakeClock{now: time.Date(2020, 1, 1, 0, 0, 30, 0, time.UTC)}
	f := NewFinalizer(store, clock, "1f", ".csv", 2020)

	// the track started 10 minutes earlier, still in 2019
	if _, ok := f.TryFinalize("sensorData1.csv", 10*time.Minute); ok {
		t.Error("finalized with an implausible start time")
	}
}

func TestTryFinalize_WhenTargetExists_ShouldDefer(t *testing.T) {
	store := storage.NewMemory()
	_ = store.Write("sensorData1.csv", []byte("a"))
	_ = store.Write("2024-05-01T10.00.00-1f.csv", []byte("b"))
	f := NewFinalizer(store, setClock(), "1f", ".csv", utils.MinPlausibleYear)

	if _, ok := f.TryFinalize("sensorData1.csv", 0); ok {
		t.Error("finalized onto an existing file")
	}
	if data, _ := store.Read("2024-05-01T10.00.00-1f.csv"); string(data) != "b" {
		t.Error("existing file was overwritten")
	}
}

func TestFinalizerName_KeepsDirectory(t *testing.T) {
	f := NewFinalizer(storage.NewMemory(), setClock(), "abcd", ".csv", 0)
	got := f.Name("tracks/sensorData9.csv", time.Date(2024, 5, 1, 7, 8, 9, 0, time.UTC))
	if got != "tracks/2024-05-01T07.08.09-abcd.csv" {
		t.Errorf("unexpected name %s", got)
	}
}
