package models

import (
	"strconv"
)

// ─── shared formatting helpers (package-private) ────────────────────────

func itoa(v int) string      { return strconv.Itoa(v) }
func utoa64(v uint64) string { return strconv.FormatUint(v, 10) }
func ftoa(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// btoa renders flags the way track consumers expect them: 1 or 0.
func btoa(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// CSVRowWriter is satisfied by anything that renders itself as one
// delimited track row with a fixed number of measurement slots.
type CSVRowWriter interface {
	CSVHeader(maxMeasurements int) []string
	CSVRow(maxMeasurements int, blankPosition bool) []string
}

var _ CSVRowWriter = (*DataSet)(nil)
