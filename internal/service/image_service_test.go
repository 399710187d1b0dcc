package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestImageUploader_LocalStore(t *testing.T) {
	dir := t.TempDir()
	uploader := NewImageUploader(NewLocalImageStore(dir, "/uploads/"), 1<<20)

	url, err := uploader.UploadReader(context.Background(), bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}

func TestImageUploader_RejectsNonImagesAndOversize(t *testing.T) {
	uploader := NewImageUploader(NewLocalImageStore(t.TempDir(), "/uploads"), 64)

	if _, err := uploader.UploadReader(context.Background(), strings.NewReader("hello")); !errors.Is(err, ErrImageInvalid) {
		t.Fatalf("expected ErrImageInvalid, got %v", err)
	}
	if _, err := uploader.UploadReader(context.Background(), bytes.NewReader(make([]byte, 65))); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestRemoteImageStore_Save(t *testing.T) {
	var gotAuth, gotType, gotPath string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://blob.example.com" + r.URL.Path})
	}))
	defer server.Close()

	store := NewRemoteImageStore(server.URL+"/", "blob-token", zerolog.Nop())
	url, err := store.Save(context.Background(), "lion.png", "image/png", []byte("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if gotAuth != "Bearer blob-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotType != "image/png" {
		t.Fatalf("unexpected content type %q", gotType)
	}
	if gotPath != "/images/lion.png" || string(gotBody) != "data" {
		t.Fatalf("unexpected request %q %q", gotPath, gotBody)
	}
	if url != "https://blob.example.com/images/lion.png" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestRemoteImageStore_SaveFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	store := NewRemoteImageStore(server.URL, "bad-token", zerolog.Nop())
	if _, err := store.Save(context.Background(), "lion.png", "image/png", []byte("data")); err == nil {
		t.Fatal("expected error for rejected upload")
	}
}
