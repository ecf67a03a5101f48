package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/docket/internal/api"
	"github.com/JaimeStill/docket/internal/config"
	"github.com/JaimeStill/docket/internal/infrastructure"
	"github.com/JaimeStill/docket/pkg/module"
)

type client struct {
	t      *testing.T
	router http.Handler
}

func setup(t *testing.T) *client {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[database]\ndriver = \"sqlite\"\npath = \":memory:\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	infra, err := infrastructure.NewWithLogger(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}

	router := module.NewRouter()
	if err := router.Mount(m); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return &client{t: t, router: router}
}

// do sends body as JSON with the given actor headers and decodes the response into out.
func (c *client) do(method, target, actor, role string, body, out any) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Actor-ID", actor)
		req.Header.Set("X-Actor-Role", role)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			c.t.Fatalf("decode %s %s: %v", method, target, err)
		}
	}
	return rec.Code
}

type idBody struct {
	ID string `json:"id"`
}

func TestNumberingFlow(t *testing.T) {
	c := setup(t)
	year := time.Now().UTC().Year()

	var doc idBody
	if code := c.do("POST", "/api/documents", "u-1", "clerk", map[string]any{
		"document_type": "ordinance",
		"title":         "Sidewalk repair",
	}, &doc); code != http.StatusCreated {
		t.Fatalf("create document = %d", code)
	}

	var cls idBody
	if code := c.do("POST", "/api/classifications", "u-1", "clerk", map[string]any{
		"document_id":   doc.ID,
		"document_type": "ordinance",
	}, &cls); code != http.StatusCreated {
		t.Fatalf("create classification = %d", code)
	}

	seq := map[string]any{
		"prefix":        "QC-ORD",
		"document_type": "ordinance",
		"year":          year,
		"sequence":      1,
	}
	if code := c.do("PUT", "/api/numbering/configs", "u-1", "clerk", seq, nil); code != http.StatusForbidden {
		t.Errorf("upsert as clerk = %d, want 403", code)
	}
	if code := c.do("PUT", "/api/numbering/configs", "u-2", "admin", seq, nil); code != http.StatusOK {
		t.Fatalf("upsert as admin = %d", code)
	}

	var assigned struct {
		ReferenceNumber string `json:"reference_number"`
		Fallback        bool   `json:"fallback"`
	}
	if code := c.do("POST", "/api/numbering/assign", "u-3", "records_officer", map[string]any{
		"document_id":       doc.ID,
		"document_type":     "ordinance",
		"classification_id": cls.ID,
		"reason":            "adopted at council",
	}, &assigned); code != http.StatusOK {
		t.Fatalf("assign = %d", code)
	}

	want := fmt.Sprintf("QC-ORD-%d-0001", year)
	if assigned.ReferenceNumber != want || assigned.Fallback {
		t.Errorf("assigned = %+v, want %s", assigned, want)
	}

	var history struct {
		Data []struct {
			NewNumber string `json:"new_number"`
			ActorID   string `json:"actor_id"`
		} `json:"data"`
		Total int `json:"total"`
	}
	if code := c.do("GET", "/api/numbering/history/ordinance/"+doc.ID, "u-9", "viewer", nil, &history); code != http.StatusOK {
		t.Fatalf("history = %d", code)
	}
	if history.Total != 1 || history.Data[0].NewNumber != want || history.Data[0].ActorID != "u-3" {
		t.Errorf("history = %+v", history)
	}

	if code := c.do("POST", "/api/numbering/assign", "u-3", "records_officer", map[string]any{
		"document_id":       doc.ID,
		"document_type":     "ordinance",
		"classification_id": cls.ID,
		"scheme":            "custom",
		"reference_number":  want,
		"reason":            "re-issue",
	}, nil); code != http.StatusOK {
		t.Errorf("re-assign same number = %d, want 200", code)
	}
}

func TestAPIGuards(t *testing.T) {
	c := setup(t)

	if code := c.do("GET", "/api/numbering/configs", "", "", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("anonymous = %d, want 401", code)
	}
	if code := c.do("GET", "/api/numbering/configs", "u-1", "viewer", nil, nil); code != http.StatusOK {
		t.Errorf("list configs = %d, want 200", code)
	}
	if code := c.do("POST", "/api/registers/ordinance/2026", "u-2", "admin", nil, nil); code != http.StatusServiceUnavailable {
		t.Errorf("register export without storage = %d, want 503", code)
	}
	if code := c.do("GET", "/api/numbering/preview/memo", "u-1", "viewer", nil, nil); code != http.StatusBadRequest {
		t.Errorf("preview bad type = %d, want 400", code)
	}
}
