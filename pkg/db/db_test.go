package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "rover.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	if err := database.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}
	return database
}

func TestBootstrap_ActiveConfig(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	needs, err := database.NeedsBootstrap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if needs {
		t.Error("bootstrap should be complete")
	}

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Profile == nil || cfg.Profile.Name != "default" {
		t.Errorf("expected default profile, got %+v", cfg.Profile)
	}
	if cfg.APIAddress() != "0.0.0.0:8080" {
		t.Errorf("api address = %q", cfg.APIAddress())
	}
	if cfg.Rover == nil {
		t.Fatal("expected default rover config")
	}
	if cfg.Rover.Transport != TransportBLE || cfg.Rover.Adapter != "hci0" {
		t.Errorf("unexpected rover defaults: %+v", cfg.Rover)
	}
	if cfg.Rover.GestureConfigured() {
		t.Error("gesture pipeline must be unconfigured by default")
	}
	if cfg.Rover.CreatedAt.IsZero() || cfg.Profile.CreatedAt.IsZero() {
		t.Error("stored timestamps must round-trip, got zero time")
	}
}

func TestRoverStore_Update(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}

	r := cfg.Rover
	r.Address = "E4:5F:01:AA:BB:CC"
	r.FrameURL = "http://192.168.0.12:8080/photo.jpg"
	r.BedrockModel = "anthropic.claude-3-haiku-20240307-v1:0"
	if err := database.Rovers().Update(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, err := database.Rovers().Get(ctx, r.ProfileID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Address != r.Address {
		t.Errorf("address = %q, want %q", got.Address, r.Address)
	}
	if !got.GestureConfigured() {
		t.Error("gesture pipeline should now be configured")
	}
}

func TestCommandLog_RecordRecent(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	logStore := database.CommandLog()

	for _, cmd := range []rover.Command{rover.CommandPowerOn, rover.CommandForward, rover.CommandStop} {
		if err := logStore.Record(ctx, cmd, "api"); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := logStore.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Command != "stop" || entries[1].Command != "forward" {
		t.Errorf("unexpected order: %+v", entries)
	}
	if entries[0].Source != "api" {
		t.Errorf("source = %q", entries[0].Source)
	}
	if entries[0].SentAt.IsZero() {
		t.Error("sent_at must round-trip, got zero time")
	}
}
