package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/docket/pkg/module"
)

func TestNewPrefix(t *testing.T) {
	tests := []struct {
		prefix  string
		wantErr bool
	}{
		{"/api", false},
		{"", true},
		{"api", true},
		{"/", true},
		{"/api/v1", true},
	}
	for _, tt := range tests {
		_, err := module.New(tt.prefix, http.NewServeMux())
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) err = %v, wantErr %v", tt.prefix, err, tt.wantErr)
		}
	}
}

func TestRouter(t *testing.T) {
	inner := http.NewServeMux()
	inner.HandleFunc("GET /numbering/configs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Path", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	api, err := module.New("/api", inner)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", "api")
			next.ServeHTTP(w, r)
		})
	})

	router := module.NewRouter()
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := router.Mount(api); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	dup, _ := module.New("/api", http.NewServeMux())
	if err := router.Mount(dup); err == nil {
		t.Error("duplicate Mount succeeded")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/numbering/configs/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("module status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Path") != "/numbering/configs" || rec.Header().Get("X-Module") != "api" {
		t.Errorf("headers = %v", rec.Header())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("native status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown status = %d, want 404", rec.Code)
	}
}
