package scheduling

import (
	"math"
	"testing"
)

func TestDistanceKm_Symmetric(t *testing.T) {
	// city hall and the riverside depot, a few km apart
	lat1, lon1 := 51.1694, 71.4491
	lat2, lon2 := 51.1280, 71.4304

	ab := DistanceKm(lat1, lon1, lat2, lon2)
	ba := DistanceKm(lat2, lon2, lat1, lon1)

	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: ab=%v ba=%v", ab, ba)
	}
	if ab <= 0 {
		t.Errorf("expected positive distance, got %v", ab)
	}
}

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	if d := DistanceKm(51.1694, 71.4491, 51.1694, 71.4491); d != 0 {
		t.Errorf("expected 0 for identical points, got %v", d)
	}
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// ~0.111 km per 0.001 degree of latitude at the equator
	d := DistanceKm(0, 0, 0.001, 0)
	if d < 0.10 || d > 0.12 {
		t.Errorf("expected ~0.111 km, got %v", d)
	}
}
