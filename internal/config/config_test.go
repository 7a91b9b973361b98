package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
name = "Deadman Seasonal"
world_type = "deadman"

[tick]
rate = "300ms"

[death]
group_revival_ticks = 25
respawn_realm = { x = 1, y = 1, map_id = 0 }
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Name != "Deadman Seasonal" || cfg.Server.WorldType != WorldDeadman {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Tick.Rate != 300*time.Millisecond {
		t.Fatalf("tick rate = %s", cfg.Tick.Rate)
	}
	if cfg.Death.GroupRevivalTicks != 25 {
		t.Fatalf("group revival = %d", cfg.Death.GroupRevivalTicks)
	}
	if cfg.Death.RespawnRealm != (Point{X: 1, Y: 1}) {
		t.Fatalf("realm = %+v", cfg.Death.RespawnRealm)
	}
	// Untouched sections keep their defaults.
	if cfg.Rates.DropRate != 1.0 || cfg.Persistence.JournalQueueSize != 4096 {
		t.Fatalf("defaults lost: %+v %+v", cfg.Rates, cfg.Persistence)
	}
	if cfg.Server.StartTime == 0 {
		t.Fatal("start time not set")
	}
}

func TestLoadRejectsUnknownWorldType(t *testing.T) {
	path := writeConfig(t, "[server]\nworld_type = \"pvp-arena\"\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "world_type") {
		t.Fatalf("err = %v, want world_type error", err)
	}
}

func TestLoadRejectsZeroRevivalDelay(t *testing.T) {
	path := writeConfig(t, "[death]\ngroup_revival_ticks = 0\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero revival delay")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().validate(); err != nil {
		t.Fatal(err)
	}
}
