package gesture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSnapshotSource_Capture(t *testing.T) {
	body := []byte{0xff, 0xd8, 0xff, 0xe0}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg; charset=binary")
		w.Write(body)
	}))
	defer srv.Close()

	frame, err := NewSnapshotSource(srv.URL).Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if frame.MediaType != "image/jpeg" {
		t.Errorf("media type = %q, want image/jpeg", frame.MediaType)
	}
	if string(frame.Data) != string(body) {
		t.Errorf("frame data mismatch")
	}
}

func TestSnapshotSource_DefaultsMediaType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{1, 2, 3})
	}))
	defer srv.Close()

	frame, err := NewSnapshotSource(srv.URL).Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if frame.MediaType != "image/jpeg" {
		t.Errorf("media type = %q, want image/jpeg fallback", frame.MediaType)
	}
}

func TestSnapshotSource_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "camera offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewSnapshotSource(srv.URL).Capture(context.Background()); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestSnapshotSource_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	if _, err := NewSnapshotSource(srv.URL).Capture(context.Background()); err == nil {
		t.Error("expected error for empty snapshot body")
	}
}
