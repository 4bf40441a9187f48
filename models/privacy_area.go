package models

import (
	"errors"
	"fmt"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used to turn metres into angles.
const EarthRadiusMeters = 6371000.0

// PrivacyArea is a region in which position data is sensitive. It is either
// a circle (centre plus RadiusMeters) or, when Polygon has at least three
// vertices, a polygon of [latitude, longitude] pairs.
type PrivacyArea struct {
	Name         string       `yaml:"name"`
	Latitude     float64      `yaml:"latitude"`
	Longitude    float64      `yaml:"longitude"`
	RadiusMeters float64      `yaml:"radius_m"`
	Polygon      [][2]float64 `yaml:"polygon,omitempty"`
}

// Validate checks that the area describes a usable region.
func (a PrivacyArea) Validate() error {
	if len(a.Polygon) > 0 {
		if len(a.Polygon) < 3 {
			return fmt.Errorf("area %q: polygon needs at least 3 vertices, got %d", a.Name, len(a.Polygon))
		}
		for _, v := range a.Polygon {
			if err := validLatLng(v[0], v[1]); err != nil {
				return fmt.Errorf("area %q: %w", a.Name, err)
			}
		}
		return nil
	}
	if a.RadiusMeters <= 0 {
		return fmt.Errorf("area %q: radius must be positive", a.Name)
	}
	if err := validLatLng(a.Latitude, a.Longitude); err != nil {
		return fmt.Errorf("area %q: %w", a.Name, err)
	}
	return nil
}

func validLatLng(lat, lng float64) error {
	if !s2.LatLngFromDegrees(lat, lng).IsValid() {
		return errors.New("coordinates out of range")
	}
	return nil
}

// Region builds the s2 region for the area.
func (a PrivacyArea) Region() s2.Region {
	if len(a.Polygon) >= 3 {
		pts := make([]s2.Point, 0, len(a.Polygon))
		for _, v := range a.Polygon {
			pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(v[0], v[1])))
		}
		loop := s2.LoopFromPoints(pts)
		// Vertices may be given in either winding; keep the smaller side.
		loop.Normalize()
		return loop
	}
	center := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Latitude, a.Longitude))
	return s2.CapFromCenterAngle(center, s1.Angle(a.RadiusMeters/EarthRadiusMeters))
}

// Contains reports whether the given position lies inside the area.
func (a PrivacyArea) Contains(lat, lng float64) bool {
	return a.Region().ContainsPoint(s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng)))
}
