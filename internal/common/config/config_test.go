package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "EDITOR_DB_PATH", "FRAME_SETTLE_MS", "LOG_LEVEL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "3000" || cfg.DBPath != "data/db/editor.db" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.FrameSettle != 300*time.Millisecond {
		t.Fatalf("expected 300ms settle delay, got %v", cfg.FrameSettle)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("FRAME_SETTLE_MS", "0")
	t.Setenv("READ_TIMEOUT", "nope")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()
	if cfg.Port != "8080" || cfg.FrameSettle != 0 || cfg.ReadTimeout != 10 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}
