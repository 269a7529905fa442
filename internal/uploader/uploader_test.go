package uploader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestUploadDir(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		if _, _, err := r.FormFile("image"); err != nil {
			t.Errorf("request missing image field: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "Added 1 out of 1 transactions from the image.",
			"details": []map[string]any{{"token": "ETH"}},
		})
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeFile(t, dir, "a.png", []byte("img-a"))
	writeFile(t, dir, "b.jpg", []byte("img-b"))
	writeFile(t, dir, "notes.txt", []byte("not an image"))

	up := New(Options{Endpoint: srv.URL, Concurrency: 2, Logger: zerolog.Nop()})

	summary, err := up.UploadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("UploadDir failed: %v", err)
	}

	if summary.Files != 2 {
		t.Errorf("Non-image files must be skipped; expected 2 files, got %d", summary.Files)
	}
	if summary.Uploaded != 2 || summary.Failed != 0 {
		t.Errorf("Expected 2 uploaded, 0 failed; got %d/%d", summary.Uploaded, summary.Failed)
	}
	if summary.Stored != 2 {
		t.Errorf("Expected 2 stored transactions, got %d", summary.Stored)
	}
	if requests.Load() != 2 {
		t.Errorf("Expected 2 requests, got %d", requests.Load())
	}
}

func TestUploadDir_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeFile(t, dir, "a.png", []byte("img-a"))

	up := New(Options{Endpoint: srv.URL, Logger: zerolog.Nop()})

	summary, err := up.UploadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("UploadDir failed: %v", err)
	}
	if summary.Failed != 1 || summary.Uploaded != 0 {
		t.Errorf("Expected 1 failed, 0 uploaded; got %d/%d", summary.Failed, summary.Uploaded)
	}
	if summary.Results[0].Err == nil {
		t.Error("Per-file error should be recorded")
	}
}

func TestUploadDir_MissingDir(t *testing.T) {
	up := New(Options{Endpoint: "http://localhost:0", Logger: zerolog.Nop()})

	if _, err := up.UploadDir(context.Background(), "/nonexistent-dir"); err == nil {
		t.Fatal("Expected error for missing directory")
	}
}
