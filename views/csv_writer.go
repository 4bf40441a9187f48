package views

import (
	"bytes"
	"encoding/csv"

	"obs-logger/models"
	"obs-logger/services/privacy"
	"obs-logger/utils"
)

// CSVTrackWriter encodes samples as semicolon-delimited rows.
type CSVTrackWriter struct {
	*TrackWriter
	cfg *utils.Config
}

// NewCSVTrackWriter wraps tw with the CSV row encoding for cfg.
func NewCSVTrackWriter(cfg *utils.Config, tw *TrackWriter) *CSVTrackWriter {
	return &CSVTrackWriter{TrackWriter: tw, cfg: cfg}
}

// Header returns the metadata line followed by the column row.
func (w *CSVTrackWriter) Header() string {
	return MetadataLine(w.cfg) + encodeRow(SchemaColumns(w.cfg))
}

// WriteHeader writes the header straight to the track file. Call it once,
// before the first Append.
func (w *CSVTrackWriter) WriteHeader() error {
	return w.writeThrough(w.Header())
}

// Encode renders set as one newline-terminated row. With a Suppress
// decision the returned fragment is empty. Position columns are left empty
// for an invalid fix and for a Redact decision.
func (w *CSVTrackWriter) Encode(set *models.DataSet) (string, privacy.Decision) {
	d := privacy.Decide(set, w.cfg.Privacy.Policy, w.cfg.Privacy.Areas)
	if d == privacy.Suppress {
		return "", d
	}
	row := set.CSVRow(w.cfg.Sensors.Distance.MaxMeasurementsPerInterval, d == privacy.Redact)
	return encodeRow(row), d
}

// Append encodes set and buffers it. Suppressed samples report success
// without writing anything.
func (w *CSVTrackWriter) Append(set *models.DataSet) bool {
	fragment, d := w.Encode(set)
	switch d {
	case privacy.Suppress:
		w.countSuppressed()
		return true
	case privacy.Redact:
		w.countRedacted()
	}
	return w.AppendFragment(fragment)
}

func encodeRow(fields []string) string {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = csvDelimiter
	_ = cw.Write(fields) // writes to a bytes.Buffer cannot fail
	cw.Flush()
	return buf.String()
}
