package utils

import (
	"math"
	"testing"

	"office-navigator/model"
)

var samplePoints = []model.Point{
	{Lat: 0, Lng: 0},
	{Lat: 41.750197, Lng: -87.937808},
	{Lat: 41.7511194, Lng: -87.9379323},
	{Lat: -33.8688, Lng: 151.2093},
	{Lat: 89.9, Lng: 179.9},
	{Lat: -45, Lng: -179.5},
}

func TestHaversineDistanceZeroForSamePoint(t *testing.T) {
	for _, p := range samplePoints {
		if d := HaversineDistance(p, p); d != 0 {
			t.Errorf("HaversineDistance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			ab := HaversineDistance(a, b)
			ba := HaversineDistance(b, a)
			if math.Abs(ab-ba) > 1e-6 {
				t.Errorf("distance not symmetric for %v, %v: %v vs %v", a, b, ab, ba)
			}
		}
	}
}

func TestHaversineDistanceKnownValue(t *testing.T) {
	// 赤道上 1 度经度约 111.195 km
	d := HaversineDistance(model.Point{Lat: 0, Lng: 0}, model.Point{Lat: 0, Lng: 1})
	want := EarthRadius * math.Pi / 180
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("got %v, want %v", d, want)
	}
}

func TestBearingRange(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			if a == b {
				continue
			}
			got := Bearing(a, b)
			if got < 0 || got >= 360 {
				t.Errorf("Bearing(%v, %v) = %v, out of [0, 360)", a, b, got)
			}
		}
	}
}

func TestBearingCardinalDirections(t *testing.T) {
	origin := model.Point{Lat: 0, Lng: 0}
	tests := []struct {
		name string
		to   model.Point
		want float64
	}{
		{"north", model.Point{Lat: 1, Lng: 0}, 0},
		{"east", model.Point{Lat: 0, Lng: 1}, 90},
		{"south", model.Point{Lat: -1, Lng: 0}, 180},
		{"west", model.Point{Lat: 0, Lng: -1}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(origin, tt.to)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Bearing = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBearingCollinearSameDirection(t *testing.T) {
	a := model.Point{Lat: 0, Lng: 0}
	b := model.Point{Lat: 0, Lng: 1}
	c := model.Point{Lat: 0, Lng: 2}
	if ab, ac := Bearing(a, b), Bearing(a, c); math.Abs(ab-ac) > 1e-9 {
		t.Errorf("Bearing(a,b) = %v, Bearing(a,c) = %v", ab, ac)
	}
}

func TestBearingNotSymmetric(t *testing.T) {
	a := model.Point{Lat: 41.7505, Lng: -87.9380}
	b := model.Point{Lat: 41.7510, Lng: -87.9370}
	ab := Bearing(a, b)
	ba := Bearing(b, a)
	if math.Abs(ab-ba) < 1 {
		t.Fatalf("expected different bearings, got %v and %v", ab, ba)
	}
	// 短距离内两个方向大约相差 180°
	if diff := math.Abs(ab - ba); math.Abs(diff-180) > 0.1 {
		t.Errorf("reverse bearing differs by %v, want about 180", diff)
	}
}

func TestCentroid(t *testing.T) {
	got := Centroid([]model.Point{{Lat: 10, Lng: 10}, {Lat: 10, Lng: 20}, {Lat: 16, Lng: 30}})
	want := model.Point{Lat: 12, Lng: 20}
	if math.Abs(got.Lat-want.Lat) > 1e-12 || math.Abs(got.Lng-want.Lng) > 1e-12 {
		t.Errorf("Centroid = %v, want %v", got, want)
	}

	single := model.Point{Lat: 41.75, Lng: -87.93}
	if got := Centroid([]model.Point{single}); got != single {
		t.Errorf("Centroid of one point = %v, want %v", got, single)
	}
}

func TestValidPoint(t *testing.T) {
	tests := []struct {
		name string
		p    model.Point
		want bool
	}{
		{"building", model.Point{Lat: 41.75, Lng: -87.93}, true},
		{"poles and antimeridian", model.Point{Lat: -90, Lng: 180}, true},
		{"lat too big", model.Point{Lat: 90.1, Lng: 0}, false},
		{"lng too small", model.Point{Lat: 0, Lng: -180.5}, false},
		{"nan", model.Point{Lat: math.NaN(), Lng: 0}, false},
		{"inf", model.Point{Lat: 0, Lng: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPoint(tt.p); got != tt.want {
				t.Errorf("ValidPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "admin123") {
		t.Error("CheckPassword rejected the right password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}
}
