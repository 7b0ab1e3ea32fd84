package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestOfficeJSONShape(t *testing.T) {
	multi := Office{
		Name: "Troop Contracting, Inc.",
		Lat:  41.7505,
		Lng:  -87.9389,
		Panorama: &PanoramaAnchor{
			Provider: ProviderGoogle, Lat: 41.7505951, Lng: -87.9388395, Heading: 199, Pitch: 0, Radius: 60,
		},
		WalkingPath: []Point{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}, {Lat: 5, Lng: 6}},
		Entrances:   []Point{{Lat: 5, Lng: 6}, {Lat: 7, Lng: 8}},
	}
	b, err := json.Marshal(multi)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"Troop Contracting, Inc.","lat":41.7505,"lng":-87.9389,` +
		`"panorama":{"provider":"google","lat":41.7505951,"lng":-87.9388395,"heading":199,"pitch":0,"radius":60},` +
		`"walkingPath":[{"lat":1,"lng":2},{"lat":3,"lng":4},{"lat":5,"lng":6}],` +
		`"entrances":[{"lat":5,"lng":6},{"lat":7,"lng":8}]}`
	if string(b) != want {
		t.Errorf("got  %s\nwant %s", b, want)
	}

	single := multi
	single.Entrances = nil
	single.Unit = "608"
	b, _ = json.Marshal(single)
	if strings.Contains(string(b), "entrances") {
		t.Errorf("single-entrance office must omit entrances: %s", b)
	}
	if !strings.Contains(string(b), `"unit":"608"`) {
		t.Errorf("unit missing: %s", b)
	}
}

func TestOfficeUnknownFieldsRoundTrip(t *testing.T) {
	in := `{"name":"SFUSA","lat":41.75,"lng":-87.93,"phone":"630-555-0100","hours":{"open":"08:00"},"floor":2}`
	var o Office
	if err := json.Unmarshal([]byte(in), &o); err != nil {
		t.Fatal(err)
	}
	if o.Name != "SFUSA" || len(o.Extra) != 3 {
		t.Fatalf("office = %+v", o)
	}
	if _, ok := o.Extra["name"]; ok {
		t.Error("known field leaked into Extra")
	}

	b, err := json.Marshal(o)
	if err != nil {
		t.Fatal(err)
	}
	// 已知字段在前, 其余字段按键名排序
	want := `{"name":"SFUSA","lat":41.75,"lng":-87.93,"floor":2,"hours":{"open":"08:00"},"phone":"630-555-0100"}`
	if string(b) != want {
		t.Errorf("got  %s\nwant %s", b, want)
	}
}

func TestOfficeWithoutExtrasHasNilExtra(t *testing.T) {
	var o Office
	if err := json.Unmarshal([]byte(`{"name":"A","lat":1,"lng":2}`), &o); err != nil {
		t.Fatal(err)
	}
	if o.Extra != nil {
		t.Errorf("Extra = %v, want nil", o.Extra)
	}
}

func TestDirectoryCloneIsDeep(t *testing.T) {
	d := Directory{
		BuildingCenter: DefaultBuildingCenter,
		Offices: []Office{{
			Name:        "A",
			Panorama:    &PanoramaAnchor{Heading: 10},
			WalkingPath: []Point{{Lat: 1}},
			Extra:       map[string]json.RawMessage{"k": json.RawMessage(`1`)},
		}},
	}
	c := d.Clone()
	c.Offices[0].Panorama.Heading = 20
	c.Offices[0].WalkingPath[0].Lat = 2
	c.Offices[0].Extra["k"] = json.RawMessage(`2`)

	if d.Offices[0].Panorama.Heading != 10 || d.Offices[0].WalkingPath[0].Lat != 1 || string(d.Offices[0].Extra["k"]) != "1" {
		t.Errorf("clone shares state with original: %+v", d.Offices[0])
	}
	if !reflect.DeepEqual(Directory{}.Clone(), Directory{}) {
		t.Error("clone of empty directory differs")
	}
}

func TestFindOffice(t *testing.T) {
	d := Directory{Offices: []Office{{Name: "A"}, {Name: "B"}}}
	if i, ok := d.FindOffice("B"); !ok || i != 1 {
		t.Errorf("FindOffice(B) = %d, %v", i, ok)
	}
	if i, ok := d.FindOffice("b"); ok || i != -1 {
		t.Errorf("FindOffice is case-sensitive, got %d, %v", i, ok)
	}
}

func TestEstimateWalkTime(t *testing.T) {
	if got := EstimateWalkTime(140); got != 100 {
		t.Errorf("EstimateWalkTime(140) = %v, want 100", got)
	}
	if got := EstimateWalkTime(-1); got != 0 {
		t.Errorf("EstimateWalkTime(-1) = %v, want 0", got)
	}
	manhattan := func(a, b Point) float64 { return abs(a.Lat-b.Lat) + abs(a.Lng-b.Lng) }
	if got := PathLength([]Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 0}, {Lat: 1, Lng: 2}}, manhattan); got != 3 {
		t.Errorf("PathLength = %v, want 3", got)
	}
	if got := PathLength([]Point{{Lat: 0, Lng: 0}}, manhattan); got != 0 {
		t.Errorf("PathLength of one point = %v", got)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestPanoramaHeadingAcceptsFractions(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`147`, 147},
		{`147.23`, 147},
		{`147.5`, 148},
		{`359.7`, 0},
		{`-30`, 330},
		{`725`, 5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var o Office
			in := `{"name":"TRP Investments","lat":41.75,"lng":-87.93,"panorama":{"provider":"google","lat":41.7501,"lng":-87.9371,"heading":` + tt.in + `,"pitch":0,"radius":60}}`
			if err := json.Unmarshal([]byte(in), &o); err != nil {
				t.Fatal(err)
			}
			if o.Panorama == nil || o.Panorama.Heading != tt.want {
				t.Fatalf("panorama = %+v, want heading %d", o.Panorama, tt.want)
			}
			if o.Panorama.Lat != 41.7501 || o.Panorama.Radius != 60 || o.Panorama.Provider != ProviderGoogle {
				t.Errorf("other panorama fields lost: %+v", o.Panorama)
			}
		})
	}
}

func TestOfficeEmptyListsKeepPresence(t *testing.T) {
	in := `{"name":"Lobby","lat":1,"lng":2,"walkingPath":[],"entrances":[]}`
	var o Office
	if err := json.Unmarshal([]byte(in), &o); err != nil {
		t.Fatal(err)
	}
	if o.WalkingPath == nil || o.Entrances == nil {
		t.Fatalf("empty lists decoded as absent: %+v", o)
	}

	b, err := json.Marshal(o.Clone())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != in {
		t.Errorf("got  %s\nwant %s", b, in)
	}

	b, _ = json.Marshal(Office{Name: "Lobby", Lat: 1, Lng: 2})
	if strings.Contains(string(b), "walkingPath") || strings.Contains(string(b), "entrances") {
		t.Errorf("absent lists must stay absent: %s", b)
	}
}
