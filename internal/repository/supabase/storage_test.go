package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staff-console-go/internal/config"
)

func TestUploadSendsObject(t *testing.T) {
	var gotMethod, gotPath, gotType, gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"avatars/a.png"}`))
	}))
	defer server.Close()

	bucket := NewStorageBucket(config.SupabaseConfig{URL: server.URL + "/", ServiceKey: "service"}, "avatars")
	if err := bucket.Upload(context.Background(), "a.png", "image/png", []byte("png")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/storage/v1/object/avatars/a.png" {
		t.Fatalf("unexpected request %s %q", gotMethod, gotPath)
	}
	if gotType != "image/png" || gotAuth != "Bearer service" || gotBody != "png" {
		t.Fatalf("unexpected request type=%q auth=%q body=%q", gotType, gotAuth, gotBody)
	}
	if url := bucket.PublicURL("a.png"); url != server.URL+"/storage/v1/object/public/avatars/a.png" {
		t.Fatalf("unexpected public url %q", url)
	}
}

func TestUploadReportsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	bucket := NewStorageBucket(config.SupabaseConfig{URL: endpoint, PublishableKey: "anon"}, "avatars")
	if err := bucket.Upload(context.Background(), "a.png", "image/png", []byte("png")); err == nil {
		t.Fatalf("expected an error from an unreachable storage server")
	}
}

func TestUploadHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	bucket := NewStorageBucket(config.SupabaseConfig{URL: server.URL, ServiceKey: "service", StorageTimeout: 20 * time.Millisecond}, "avatars")
	err := bucket.Upload(context.Background(), "a.png", "image/png", []byte("png"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestUploadNotConfigured(t *testing.T) {
	bucket := NewStorageBucket(config.SupabaseConfig{}, "avatars")
	err := bucket.Upload(context.Background(), "a.png", "image/png", []byte("png"))
	if !errors.Is(err, ErrStorageNotConfigured) {
		t.Fatalf("expected ErrStorageNotConfigured, got %v", err)
	}
	if url := bucket.PublicURL("a.png"); url != "" {
		t.Fatalf("expected no public url, got %q", url)
	}
}
