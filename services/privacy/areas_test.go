package privacy

import (
	"testing"

	"obs-logger/models"
)

func TestAreas_ContainsCircle(t *testing.T) {
	a := NewAreas(home)

	// about 110 m north of the centre
	if in, name := a.Contains(48.7768, 9.1829); !in || name != "home" {
		t.Errorf("Expected point inside home but got %v %q", in, name)
	}
	// about 1.1 km north
	if in, _ := a.Contains(48.7858, 9.1829); in {
		t.Error("Expected point outside home")
	}
}

func TestAreas_ContainsPolygonInEitherWinding(t *testing.T) {
	square := [][2]float64{{52.0, 13.0}, {52.0, 13.01}, {52.01, 13.01}, {52.01, 13.0}}
	reversed := [][2]float64{square[3], square[2], square[1], square[0]}

	for _, poly := range [][][2]float64{square, reversed} {
		a := NewAreas([]models.PrivacyArea{{Name: "office", Polygon: poly}})
		if in, _ := a.Contains(52.005, 13.005); !in {
			t.Errorf("polygon %v: Expected centre inside", poly)
		}
		if in, _ := a.Contains(52.02, 13.005); in {
			t.Errorf("polygon %v: Expected point outside", poly)
		}
	}
}

func TestAreas_Mark_IgnoresInvalidFix(t *testing.T) {
	a := NewAreas(home)
	set := &models.DataSet{GPS: models.GPSFix{LocationValid: false, Latitude: 48.7758, Longitude: 9.1829}}
	set.InsidePrivacyArea = true

	a.Mark(set)

	if set.InsidePrivacyArea {
		t.Error("sample without a valid fix must not be inside an area")
	}
}

func TestAreas_Mark_SetsFlagForValidFix(t *testing.T) {
	a := NewAreas(home)
	set := &models.DataSet{GPS: models.GPSFix{LocationValid: true, Latitude: 48.7758, Longitude: 9.1829}}

	a.Mark(set)

	if !set.InsidePrivacyArea {
		t.Error("Expected sample at the centre to be inside")
	}
}
