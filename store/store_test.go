package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"office-navigator/model"
)

func sampleDirectory() model.Directory {
	return model.Directory{
		BuildingCenter: model.BuildingCenter{Lat: 41.750197, Lng: -87.937808, Name: "Willowbrook Office Building"},
		Offices: []model.Office{
			{
				Name: "Troop Contracting, Inc.",
				Lat:  41.7505,
				Lng:  -87.9389,
				Panorama: &model.PanoramaAnchor{
					Provider: model.ProviderGoogle,
					Lat:      41.7505951,
					Lng:      -87.9388395,
					Heading:  199,
					Radius:   60,
				},
				WalkingPath: []model.Point{{Lat: 41.7505951, Lng: -87.9388395}, {Lat: 41.75049621594158, Lng: -87.93890021744136}, {Lat: 41.7504, Lng: -87.9389}},
				Entrances:   []model.Point{{Lat: 41.7504, Lng: -87.9389}, {Lat: 41.7506, Lng: -87.9390}},
				Extra:       map[string]json.RawMessage{"phone": json.RawMessage(`"630-555-0101"`)},
			},
			{Name: "SFUSA", Lat: 41.750312, Lng: -87.937718, Description: "Suite 100"},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "offices.json"))
	ctx := context.Background()
	want := sampleDirectory()

	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\n got %+v\nwant %+v", got, want)
	}
}

func TestFileStoreIndentsWithTwoSpaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offices.json")
	if err := NewFileStore(path).Save(context.Background(), sampleDirectory()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "{\n  \"buildingCenter\": {\n    \"lat\"") {
		t.Errorf("unexpected layout:\n%s", b[:80])
	}
}

func TestFileStoreEmptyOfficesWrittenAsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offices.json")
	dir := model.Directory{BuildingCenter: model.DefaultBuildingCenter}
	if err := NewFileStore(path).Save(context.Background(), dir); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), `"offices": []`) {
		t.Errorf("offices not written as empty array:\n%s", b)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := s.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFileStoreInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offices.json")
	if err := os.WriteFile(path, []byte(`{"offices": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(path).Load(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want a parse error", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store err = %v", err)
	}

	dir := sampleDirectory()
	if err := s.Save(ctx, dir); err != nil {
		t.Fatal(err)
	}
	dir.Offices[0].Name = "changed after save"

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Offices[0].Name != "Troop Contracting, Inc." {
		t.Errorf("store aliases caller data: %q", got.Offices[0].Name)
	}
}

func TestMemoryDraftStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryDraftStore()
	if _, err := s.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty = %v, want ErrNotFound", err)
	}

	want := sampleDirectory()
	if err := s.Put(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("draft mismatch\n got %+v\nwant %+v", got, want)
	}

	if err := s.Delete(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestOpenRedisDisabledWithoutAddr(t *testing.T) {
	if rc := OpenRedis("", "", 0); rc != nil {
		t.Errorf("OpenRedis(\"\") = %v, want nil", rc)
	}
}
