package storage_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/JaimeStill/docket/pkg/storage"
)

const connString = "DefaultEndpointsProtocol=https;AccountName=docket;AccountKey=a2V5;EndpointSuffix=core.windows.net"

func TestFinalize(t *testing.T) {
	var disabled storage.Config
	if err := disabled.Finalize(nil); err != nil {
		t.Fatalf("disabled Finalize: %v", err)
	}
	if disabled.ContainerName != "registers" {
		t.Errorf("ContainerName = %q, want registers", disabled.ContainerName)
	}

	t.Setenv("TEST_STORAGE_ENABLED", "true")
	t.Setenv("TEST_STORAGE_URL", "https://docket.blob.core.windows.net/")

	var cfg storage.Config
	env := &storage.Env{Enabled: "TEST_STORAGE_ENABLED", ServiceURL: "TEST_STORAGE_URL"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !cfg.Enabled || cfg.ServiceURL != "https://docket.blob.core.windows.net/" {
		t.Errorf("cfg = %+v", cfg)
	}

	missing := storage.Config{Enabled: true}
	if err := missing.Finalize(nil); err == nil || !strings.Contains(err.Error(), "connection_string") {
		t.Errorf("enabled without endpoint: err = %v", err)
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{Enabled: true, ContainerName: "registers", ConnectionString: connString}
	base.Merge(&storage.Config{ContainerName: "archive"})

	if base.Enabled {
		t.Error("Enabled should follow the overlay")
	}
	if base.ContainerName != "archive" || base.ConnectionString != connString {
		t.Errorf("merged = %+v", base)
	}
}

func TestKeyValidation(t *testing.T) {
	cfg := storage.Config{Enabled: true, ConnectionString: connString}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	sys, err := storage.New(&cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := sys.Upload(ctx, "", strings.NewReader("{}"), "application/json"); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("Upload empty key: err = %v", err)
	}
	if _, err := sys.Download(ctx, "registers/../secrets"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("Download traversal: err = %v", err)
	}
	if err := sys.Delete(ctx, ""); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("Delete empty key: err = %v", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{errors.New("network"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
