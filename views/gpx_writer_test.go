package views

import (
	"strings"
	"testing"

	"obs-logger/models"
	"obs-logger/services/storage"
	"obs-logger/utils"
)

func newGPXWriter(policy models.PrivacyPolicy) *GPXTrackWriter {
	cfg := testConfig(policy, utils.FormatGPX)
	return NewGPXTrackWriter(cfg, newTestWriter(newFlakyStorage(), unsetClock(), 10000, 13000, nil))
}

func TestGPXHeader(t *testing.T) {
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<gpx version=\"1.0\">\n\t<trk><trkseg>\n"
	if got := newGPXWriter(0).Header(); got != want {
		t.Errorf("Expected %q but got %q", want, got)
	}
}

func TestGPXEncode_TrackPoint(t *testing.T) {
	w := newGPXWriter(models.NoPrivacy)

	got, _ := w.Encode(testSample())

	want := "\t\t<trkpt lat=\"48.775800\" lon=\"9.182900\"><ele>245.50</ele>" +
		"<time>2024-05-01T10:00:05.000Z</time></trkpt>\n"
	if got != want {
		t.Errorf("Expected\n%q\nbut got\n%q", want, got)
	}
}

func TestGPXAppend_SkipsPointsWithoutPosition(t *testing.T) {
	for _, tc := range []struct {
		name   string
		policy models.PrivacyPolicy
		modify func(*models.DataSet)
	}{
		{"invalid fix", models.NoPrivacy, func(s *models.DataSet) { s.GPS.LocationValid = false }},
		{"redacted", models.NoPosition, func(s *models.DataSet) { s.InsidePrivacyArea = true }},
		{"suppressed", models.AbsolutePrivacy, func(s *models.DataSet) { s.InsidePrivacyArea = true }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := newGPXWriter(tc.policy)
			set := testSample()
			tc.modify(set)

			if !w.Append(set) {
				t.Error("skipped point must report success")
			}
			if w.BufferLength() != 0 {
				t.Error("skipped point reached the buffer")
			}
		})
	}
}

func TestGPXAppend_OverrideConfirmedInsideArea_ShouldWrite(t *testing.T) {
	w := newGPXWriter(models.NoPosition | models.OverridePrivacy)
	set := testSample()
	set.InsidePrivacyArea = true
	set.Confirmed = true

	if !w.Append(set) || w.BufferLength() == 0 {
		t.Error("confirmed point with override was not written")
	}
}

func TestOpenTrack_GPX_WritesHeaderToProvisionalFile(t *testing.T) {
	store := storage.NewMemory()
	cfg := testConfig(models.NoPrivacy, utils.FormatGPX)

	enc, err := OpenTrack(cfg, store, storage.NewCounter(store, cfg.Storage.CounterFile), unsetClock(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteHeader(); err != nil {
		t.Fatal(err)
	}
	enc.Append(testSample())
	_ = enc.Flush()

	if enc.Filename() != "sensorData1.gpx" || enc.Finalized() {
		t.Errorf("Expected provisional sensorData1.gpx but got %s", enc.Filename())
	}
	data, _ := store.Read("sensorData1.gpx")
	if !strings.HasPrefix(string(data), "<?xml") || strings.Count(string(data), "<trkpt") != 1 {
		t.Errorf("unexpected file content %q", data)
	}
}
