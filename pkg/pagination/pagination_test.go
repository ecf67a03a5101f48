package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/JaimeStill/docket/pkg/pagination"
)

var cfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
		search   string
		sorts    int
	}{
		{"defaults", "", 1, 20, "", 0},
		{"explicit", "page=3&page_size=5&search=water&sort=-CreatedAt,ID", 3, 5, "water", 2},
		{"clamped", "page=-2&page_size=500", 1, 100, "", 0},
		{"garbage", "page=x&page_size=y", 1, 20, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.PageRequestFromQuery(values, cfg)

			if req.Page != tt.page || req.PageSize != tt.pageSize {
				t.Errorf("page %d size %d, want %d %d", req.Page, req.PageSize, tt.page, tt.pageSize)
			}
			if tt.search == "" && req.Search != nil {
				t.Errorf("search = %q, want nil", *req.Search)
			}
			if tt.search != "" && (req.Search == nil || *req.Search != tt.search) {
				t.Errorf("search = %v, want %q", req.Search, tt.search)
			}
			if len(req.Sort) != tt.sorts {
				t.Errorf("sort = %v, want %d fields", req.Sort, tt.sorts)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 4, PageSize: 25}
	if got := req.Offset(); got != 75 {
		t.Errorf("Offset() = %d, want 75", got)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		total, size, pages int
	}{
		{0, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{3, 2, 2},
	}
	for _, tt := range tests {
		r := pagination.NewPageResult[int](nil, tt.total, 1, tt.size)
		if r.TotalPages != tt.pages {
			t.Errorf("total %d size %d: pages = %d, want %d", tt.total, tt.size, r.TotalPages, tt.pages)
		}
		if r.Data == nil {
			t.Error("Data is nil, want empty slice")
		}
	}
}

func TestSortFieldsJSON(t *testing.T) {
	var fromString pagination.PageRequest
	if err := json.Unmarshal([]byte(`{"sort":"-CreatedAt,ID"}`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if len(fromString.Sort) != 2 || !fromString.Sort[0].Descending {
		t.Errorf("sort = %+v", fromString.Sort)
	}

	var fromArray pagination.PageRequest
	if err := json.Unmarshal([]byte(`{"sort":[{"Field":"Year","Descending":true}]}`), &fromArray); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if len(fromArray.Sort) != 1 || fromArray.Sort[0].Field != "Year" {
		t.Errorf("sort = %+v", fromArray.Sort)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "50")

	var c pagination.Config
	if err := c.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE"}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if c.DefaultPageSize != 50 || c.MaxPageSize != 100 {
		t.Errorf("config = %+v", c)
	}

	bad := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	if err := bad.Finalize(nil); err == nil {
		t.Error("default above max accepted")
	}
}
