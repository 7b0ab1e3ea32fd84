package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"office-navigator/handler"
	"office-navigator/store"
)

func newTestEngine(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler.SetJWTSecret(secret)
	handler.Directory = store.NewMemoryStore(nil)
	handler.Drafts = store.NewMemoryDraftStore()
	r := gin.New()
	setupRoutes(r)
	return r
}

func TestSetupRoutes(t *testing.T) {
	r := newTestEngine("test-secret")
	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/ping", http.StatusOK},
		{http.MethodOptions, "/api/offices", http.StatusNoContent},
		{http.MethodGet, "/api/directory", http.StatusOK},
		{http.MethodGet, "/api/offices/Nobody", http.StatusNotFound},
		{http.MethodGet, "/api/admin/directory", http.StatusUnauthorized},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); tt.path != "/nope" && got != "*" {
				t.Errorf("CORS header = %q", got)
			}
		})
	}
}

func TestAdminRoutesNeedSecret(t *testing.T) {
	r := newTestEngine("")
	for _, path := range []string{"/api/admin/directory", "/api/admin/export"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, w.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestEngine("test-secret")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `officenav_http_requests_total{method="GET",route="/ping",status="200"}`) {
		t.Error("request counter for /ping not exported")
	}
}
