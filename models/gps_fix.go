package models

// GPSFix holds the receiver state captured for one measurement interval.
// Each optional quantity carries its own validity flag because NMEA
// sentences arrive independently and any of them may be missing.
type GPSFix struct {
	LocationValid bool    `json:"location_valid"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      float64 `json:"altitude"` // metres above mean sea level

	CourseValid bool    `json:"course_valid"`
	Course      float64 `json:"course"` // degrees from true north

	SpeedValid bool    `json:"speed_valid"`
	Speed      float64 `json:"speed"` // km/h

	HDOPValid bool    `json:"hdop_valid"`
	HDOP      float64 `json:"hdop"` // horizontal dilution of precision

	Satellites int `json:"satellites"`
}

// positionColumns is the number of CSV columns blanked by redaction:
// latitude, longitude, altitude, course and speed.
const positionColumns = 5

// PositionFields renders the position block of a track row. It returns
// positionColumns empty strings when the fix carries no usable location.
func (g *GPSFix) PositionFields() []string {
	if !g.LocationValid {
		return make([]string, positionColumns)
	}
	row := []string{
		ftoa(g.Latitude, 6),
		ftoa(g.Longitude, 6),
		ftoa(g.Altitude, 1),
		"",
		"",
	}
	if g.CourseValid {
		row[3] = ftoa(g.Course, 2)
	}
	if g.SpeedValid {
		row[4] = ftoa(g.Speed, 2)
	}
	return row
}

// BlankPositionFields returns the position block with every column empty.
func BlankPositionFields() []string {
	return make([]string, positionColumns)
}

// QualityFields renders HDOP and satellite count.
func (g *GPSFix) QualityFields() []string {
	hdop := ""
	if g.HDOPValid {
		hdop = ftoa(g.HDOP, 2)
	}
	return []string{hdop, itoa(g.Satellites)}
}
