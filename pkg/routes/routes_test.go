package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/docket/pkg/routes"
)

func status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(code) }
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	patterns := routes.Register(mux, routes.Group{
		Prefix: "/numbering",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/configs", Handler: status(http.StatusOK)},
			{Method: "POST", Pattern: "/assign", Handler: status(http.StatusCreated)},
		},
		Children: []routes.Group{{
			Prefix: "/history",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/{type}/{id}", Handler: status(http.StatusAccepted)},
			},
		}},
	})

	want := []string{
		"GET /numbering/configs",
		"POST /numbering/assign",
		"GET /numbering/history/{type}/{id}",
	}
	if len(patterns) != len(want) {
		t.Fatalf("patterns = %v, want %v", patterns, want)
	}
	for i := range want {
		if patterns[i] != want[i] {
			t.Errorf("patterns[%d] = %q, want %q", i, patterns[i], want[i])
		}
	}

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/numbering/configs", http.StatusOK},
		{"POST", "/numbering/assign", http.StatusCreated},
		{"GET", "/numbering/history/ordinance/abc", http.StatusAccepted},
		{"DELETE", "/numbering/configs", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}
