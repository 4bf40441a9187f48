package views

import (
	"encoding/xml"
	"strconv"

	"obs-logger/models"
	"obs-logger/services/privacy"
	"obs-logger/utils"
)

// gpxPreamble opens the document and the single track segment. The
// closing tags are left to whoever packages the file after the ride.
const gpxPreamble = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
	"<gpx version=\"1.0\">\n" +
	"\t<trk><trkseg>\n"

type gpxTrackPoint struct {
	XMLName xml.Name `xml:"trkpt"`
	Lat     string   `xml:"lat,attr"`
	Lon     string   `xml:"lon,attr"`
	Ele     string   `xml:"ele"`
	Time    string   `xml:"time"`
}

// GPXTrackWriter encodes samples as GPX 1.0 track points.
//
// A track point without coordinates is not valid GPX, so unlike the CSV
// encoder a redacted sample or one without a valid fix is skipped rather
// than written with blank position.
type GPXTrackWriter struct {
	*TrackWriter
	cfg *utils.Config
}

// NewGPXTrackWriter wraps tw with the GPX track point encoding for cfg.
func NewGPXTrackWriter(cfg *utils.Config, tw *TrackWriter) *GPXTrackWriter {
	return &GPXTrackWriter{TrackWriter: tw, cfg: cfg}
}

func (w *GPXTrackWriter) Header() string { return gpxPreamble }

func (w *GPXTrackWriter) WriteHeader() error {
	return w.writeThrough(gpxPreamble)
}

// Encode renders set as one trkpt line. The fragment is empty whenever the
// point is not written.
func (w *GPXTrackWriter) Encode(set *models.DataSet) (string, privacy.Decision) {
	d := privacy.Decide(set, w.cfg.Privacy.Policy, w.cfg.Privacy.Areas)
	if d != privacy.Pass || !set.GPS.LocationValid {
		return "", d
	}
	pt := gpxTrackPoint{
		Lat:  strconv.FormatFloat(set.GPS.Latitude, 'f', 6, 64),
		Lon:  strconv.FormatFloat(set.GPS.Longitude, 'f', 6, 64),
		Ele:  strconv.FormatFloat(set.GPS.Altitude, 'f', 2, 64),
		Time: set.Time.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	out, err := xml.Marshal(pt)
	if err != nil {
		// only string fields; Marshal cannot fail here
		return "", d
	}
	return "\t\t" + string(out) + "\n", d
}

// Append encodes set and buffers it. Points that are not written still
// report success; only a full buffer reports failure.
func (w *GPXTrackWriter) Append(set *models.DataSet) bool {
	fragment, d := w.Encode(set)
	switch {
	case d == privacy.Suppress:
		w.countSuppressed()
		return true
	case d == privacy.Redact:
		w.countRedacted()
		return true
	case fragment == "":
		return true
	}
	return w.AppendFragment(fragment)
}
