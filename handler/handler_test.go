package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"office-navigator/model"
	"office-navigator/routing"
	"office-navigator/store"
)

var (
	sfusaPano     = model.Point{Lat: 41.7503195, Lng: -87.9371575}
	sfusaSidewalk = model.Point{Lat: 41.750351783994866, Lng: -87.937624572321}
	sfusaEntrance = model.Point{Lat: 41.750331356400984, Lng: -87.93764202219648}
)

func testDirectory() *model.Directory {
	return &model.Directory{
		BuildingCenter: model.DefaultBuildingCenter,
		Offices: []model.Office{
			{
				Name: "SFUSA",
				Lat:  41.750312,
				Lng:  -87.937718,
				Panorama: &model.PanoramaAnchor{
					Provider: model.ProviderGoogle,
					Lat:      sfusaPano.Lat,
					Lng:      sfusaPano.Lng,
					Heading:  272,
					Radius:   model.DefaultPanoramaRadius,
				},
				WalkingPath: []model.Point{sfusaPano, sfusaSidewalk, sfusaEntrance},
				Extra:       map[string]json.RawMessage{"floor": json.RawMessage(`2`)},
			},
			{
				Name:        "Thomas Murphy",
				Lat:         41.75045,
				Lng:         -87.937711,
				Description: "Insurance agent, second floor",
				Entrances:   []model.Point{{Lat: 41.7504, Lng: -87.9377}, {Lat: 41.7505, Lng: -87.9378}},
			},
		},
	}
}

type fakeRouter struct {
	route    *routing.Route
	err      error
	from, to model.Point
}

func (f *fakeRouter) Walk(ctx context.Context, from, to model.Point) (*routing.Route, error) {
	f.from, f.to = from, to
	return f.route, f.err
}

// setupTest 重置全局依赖并注册与 main 相同的路由
func setupTest(t *testing.T, dir *model.Directory) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	Directory = store.NewMemoryStore(dir)
	Drafts = store.NewMemoryDraftStore()
	Router = nil
	users, err := NewStaticUsers("admin", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	Users = users
	SetJWTSecret("test-secret")

	r := gin.New()
	api := r.Group("/api")
	api.POST("/login", Login)
	api.GET("/directory", GetDirectory)
	api.GET("/offices", GetOffices)
	api.GET("/offices/search", SearchOffices)
	api.GET("/offices/:name", GetOfficeByName)
	api.GET("/offices/:name/geojson", GetOfficeGeoJSON)
	api.POST("/route", FindRoute)

	a := api.Group("/admin")
	a.Use(AuthMiddleware())
	a.GET("/directory", GetAdminDirectory)
	a.PUT("/building", UpdateBuilding)
	a.POST("/offices", CreateOffice)
	a.PATCH("/offices/:index", UpdateOffice)
	a.DELETE("/offices/:index", DeleteOffice)
	a.POST("/publish", Publish)
	a.DELETE("/draft", DiscardDraft)
	a.GET("/export", ExportDirectory)
	return r
}

func doRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}
