package db

import (
	"encoding/json"
	"reflect"
	"testing"

	"office-navigator/model"
)

func TestDirectoryRowsRoundTrip(t *testing.T) {
	dir := model.Directory{
		BuildingCenter: model.DefaultBuildingCenter,
		Offices: []model.Office{
			{
				Name: "Airtex Manufacturing Inc.",
				Lat:  41.750162,
				Lng:  -87.937614,
				Panorama: &model.PanoramaAnchor{
					Provider: model.ProviderGoogle, Lat: 41.7502, Lng: -87.9371, Heading: 253, Radius: 60,
				},
				WalkingPath: []model.Point{{Lat: 41.7502, Lng: -87.9371}, {Lat: 41.7501, Lng: -87.9374}, {Lat: 41.7501, Lng: -87.9376}},
				Entrances:   []model.Point{{Lat: 41.7501, Lng: -87.9376}, {Lat: 41.7502, Lng: -87.9377}},
				Extra:       map[string]json.RawMessage{"phone": json.RawMessage(`"630-555-0199"`)},
			},
			{Name: "Thomas Murphy", Lat: 41.75045, Lng: -87.937711, Unit: "", Description: "Second floor"},
		},
	}

	building, rows := directoryToRows(dir)
	if building.Name != dir.BuildingCenter.Name || len(rows) != 2 {
		t.Fatalf("building = %+v, rows = %d", building, len(rows))
	}
	for i, row := range rows {
		if row.Position != i {
			t.Errorf("rows[%d].Position = %d", i, row.Position)
		}
	}

	got := directoryFromRows(building, rows)
	if !reflect.DeepEqual(got, dir) {
		t.Errorf("round trip mismatch\n got %+v\nwant %+v", got, dir)
	}
}

func TestDirectoryFromRowsEmptyColumns(t *testing.T) {
	// [] 原样保留, 空的 Extra 视为没有
	rows := []model.OfficeRow{
		{Name: "SFUSA", WalkingPath: []model.Point{}, Entrances: []model.Point{}, Extra: map[string]json.RawMessage{}},
		{Name: "Thomas Murphy"},
	}
	got := directoryFromRows(model.BuildingRow{}, rows)
	o := got.Offices[0]
	if o.WalkingPath == nil || len(o.WalkingPath) != 0 || o.Entrances == nil || len(o.Entrances) != 0 {
		t.Errorf("empty lists not kept: %+v", o)
	}
	if o.Extra != nil {
		t.Errorf("Extra = %v, want nil", o.Extra)
	}
	if m := got.Offices[1]; m.WalkingPath != nil || m.Entrances != nil {
		t.Errorf("absent lists became present: %+v", m)
	}
}
