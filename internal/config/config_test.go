package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"staff-console-go/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"HTTP_PORT", "CACHE_BACKEND", "TEAM_HOURS_MIN", "TEAM_HOURS_MAX", "AVATAR_BUCKET", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.Cache.Backend != "memory" {
		t.Fatalf("expected memory cache, got %q", cfg.Cache.Backend)
	}
	if cfg.Teams.HoursMin != 100 || cfg.Teams.HoursMax != 1000 {
		t.Fatalf("expected hours range 100..1000, got %d..%d", cfg.Teams.HoursMin, cfg.Teams.HoursMax)
	}
	if cfg.Supabase.AvatarBucket != "avatars" {
		t.Fatalf("expected avatars bucket, got %q", cfg.Supabase.AvatarBucket)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	contents := "HTTP_PORT=9090\nCACHE_TTL=\"90s\"\n# comment\nNATS_SUBJECT_PREFIX=from-file\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(contents), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Chdir(nested)
	t.Setenv("NATS_SUBJECT_PREFIX", "from-env")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("CACHE_TTL", "")
	// t.Setenv restores the variables; unset the empty ones so the file wins.
	os.Unsetenv("HTTP_PORT")
	os.Unsetenv("CACHE_TTL")

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected port from .env, got %q", cfg.HTTPPort)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Fatalf("expected ttl 90s, got %s", cfg.Cache.TTL)
	}
	if cfg.Events.SubjectPrefix != "from-env" {
		t.Fatalf("expected env to win over .env, got %q", cfg.Events.SubjectPrefix)
	}
}

func TestLoadRejectsRedisWithoutURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(logger.Nop()); err == nil {
		t.Fatalf("expected error for redis backend without url")
	}
}

func TestStorageURL(t *testing.T) {
	cfg := SupabaseConfig{URL: "https://proj.supabase.co/"}
	if got, want := cfg.StorageURL(), "https://proj.supabase.co/storage/v1"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := (SupabaseConfig{}).StorageURL(); got != "" {
		t.Fatalf("expected empty storage url without a project, got %q", got)
	}
}
