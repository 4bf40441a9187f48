package privacy

import (
	"github.com/golang/geo/s2"

	"obs-logger/models"
)

// Areas answers containment queries against the configured privacy areas.
// Regions are built once; the configuration does not change during a run.
type Areas struct {
	areas   []models.PrivacyArea
	regions []s2.Region
}

func NewAreas(areas []models.PrivacyArea) *Areas {
	a := &Areas{areas: areas, regions: make([]s2.Region, 0, len(areas))}
	for _, area := range areas {
		a.regions = append(a.regions, area.Region())
	}
	return a
}

// Len is the number of configured areas.
func (a *Areas) Len() int { return len(a.areas) }

// List returns the configured areas.
func (a *Areas) List() []models.PrivacyArea { return a.areas }

// Contains reports whether the position lies in any area, and which one.
func (a *Areas) Contains(lat, lng float64) (bool, string) {
	p := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng))
	for i, r := range a.regions {
		if r.ContainsPoint(p) {
			return true, a.areas[i].Name
		}
	}
	return false, ""
}

// Mark sets set.InsidePrivacyArea from its GPS fix. Samples without a valid
// location are never considered inside an area.
func (a *Areas) Mark(set *models.DataSet) {
	if !set.GPS.LocationValid {
		set.InsidePrivacyArea = false
		return
	}
	set.InsidePrivacyArea, _ = a.Contains(set.GPS.Latitude, set.GPS.Longitude)
}
